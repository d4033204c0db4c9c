package model

// Project is a unit of work for a client.  It is owned directly through
// OwnerID; ClientID links it to a client of (normally) the same owner.
type Project struct {
	ID          uint64 `json:"id"`          // projects.id
	ProjectName string `json:"projectName"` // projects.project_name
	ClientID    uint64 `json:"clientId"`    // projects.client_id
	OwnerID     uint64 `json:"ownerId"`     // projects.freelancer_id
	Status      string `json:"status"`      // projects.status
	DueDate     string `json:"dueDate"`     // projects.due_date as YYYY-MM-DD
}
