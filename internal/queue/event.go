// Package queue defines the notifications published to the message broker
// and the publishers that deliver them.
package queue

import "time"

// Event types.
const (
	UserRegistered = "user.registered"
	ContactCreated = "contact.created"
	ContactUpdated = "contact.updated"
	ContactDeleted = "contact.deleted"
)

// Event is published after a successful write. It carries identifiers only;
// consumers that need the record fetch it through the API.
type Event struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	ContactID  string    `json:"contact_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
