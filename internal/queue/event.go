// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// Activity actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ActivityEvent is published after a freelancer successfully changes one of
// their resources.  It carries ids only; consumers that need the row read it
// themselves.
type ActivityEvent struct {
	ID          string    `json:"id"`
	PrincipalID uint64    `json:"principal_id"`
	Resource    string    `json:"resource"` // client, project, invoice, payment, freelancer
	Action      string    `json:"action"`
	ResourceID  uint64    `json:"resource_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// NewActivityEvent stamps a fresh event id and the current UTC time.
func NewActivityEvent(principalID uint64, resource, action string, resourceID uint64) ActivityEvent {
	return ActivityEvent{
		ID:          uuid.NewString(),
		PrincipalID: principalID,
		Resource:    resource,
		Action:      action,
		ResourceID:  resourceID,
		OccurredAt:  time.Now().UTC(),
	}
}
