// internal/model/progress.go
package model

import "time"

// ProgressRecord is the single current outcome/response/notes state for one
// contact within one campaign. Unique per (campaign_id, contact_id); every
// recorded outcome overwrites the previous row for the pair.
type ProgressRecord struct {
	CampaignID   string    `db:"campaign_id" json:"campaign_id"`
	ContactID    string    `db:"contact_id" json:"contact_id"`
	Outcome      string    `db:"outcome" json:"outcome"` // answered, no_answer, voicemail, wrong_number, do_not_call, ...
	Response     *string   `db:"response" json:"response,omitempty"`
	Notes        *string   `db:"notes" json:"notes,omitempty"`
	LastCalledAt time.Time `db:"last_called_at" json:"last_called_at"`
	Attempts     int       `db:"attempts" json:"attempts"`
}

// Attempted reports whether the contact has been worked at least once.
func (r *ProgressRecord) Attempted() bool {
	return r.Attempts > 0
}
