package model

import "time"

// Freelancer represents the single principal kind of the application as
// stored in the `freelancers` table.  Credentials are write-once: there is no
// update or delete path.
//
// Fields:
//
//	ID          : primary key identifier.
//	Username    : unique login name.
//	PasswordHash: bcrypt hash; never serialised.
//	CreatedAt   : timestamp of creation.
type Freelancer struct {
	ID           uint64    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
