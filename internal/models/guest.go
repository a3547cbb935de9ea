package models

import "time"

// Guest represents a person who submitted an RSVP for the event.
type Guest struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	Instagram     string     `json:"instagram,omitempty"`
	HasCompanion  bool       `json:"has_companion"`
	AcceptedTerms bool       `json:"accepted_terms"`
	Status        Status     `json:"status"`
	QRToken       string     `json:"qr_token,omitempty"`
	CheckedIn     bool       `json:"checked_in"`
	CheckedInAt   *time.Time `json:"checked_in_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Status represents the guest approval status
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Approved reports whether the guest currently holds an approval.
func (g *Guest) Approved() bool {
	return g.Status == StatusApproved
}
