// internal/model/outbound_email.go
package model

import "time"

// OutboundEmail is one workflow email queued for a contact by an email-type
// action step. Unique per (campaign_id, contact_id, step_id).
type OutboundEmail struct {
	ID           int       `db:"id" json:"id"`
	CampaignID   string    `db:"campaign_id" json:"campaign_id"`
	ContactID    string    `db:"contact_id" json:"contact_id"`
	StepID       string    `db:"step_id" json:"step_id"`
	Status       string    `db:"status" json:"status"` // pending, sent, failed
	Subject      string    `db:"subject" json:"subject"`
	RenderedHTML string    `db:"rendered_html" json:"rendered_html"`
	LastError    string    `db:"last_error,omitempty" json:"last_error,omitempty"`
	RetryCount   int       `db:"retry_count" json:"retry_count"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
