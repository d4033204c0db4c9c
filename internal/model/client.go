package model

// Client is a customer of a freelancer.  It corresponds to a row in the
// `clients` table and is owned directly through OwnerID.
type Client struct {
	ID          uint64 `json:"id"`          // clients.id
	Name        string `json:"name"`        // clients.name
	ContactInfo string `json:"contactInfo"` // clients.contact_info
	OwnerID     uint64 `json:"ownerId"`     // clients.freelancer_id
}
