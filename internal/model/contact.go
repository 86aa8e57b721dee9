// internal/model/contact.go
package model

// Contact is owned by the external directory; this service only reads the
// display fields it needs for rendering.
type Contact struct {
	ID        string `db:"contact_id" json:"contact_id"`
	FirstName string `db:"contact_first" json:"contact_first"`
	LastName  string `db:"contact_last" json:"contact_last"`
	Email     string `db:"contact_email" json:"contact_email"`
	Phone     string `db:"contact_phone" json:"contact_phone"`
}
