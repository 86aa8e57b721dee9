// internal/model/interaction.go
package model

import "time"

// Interaction is one append-only audit row per recorded outcome. CampaignID
// is nullable for calls made outside any campaign; UserID is nullable when
// no identity provider is present.
type Interaction struct {
	ID         int       `db:"id" json:"id"`
	ContactID  string    `db:"contact_id" json:"contact_id"`
	CampaignID *string   `db:"campaign_id" json:"campaign_id,omitempty"`
	UserID     *string   `db:"user_id" json:"user_id,omitempty"`
	CallTime   time.Time `db:"call_time" json:"call_time"`
}
