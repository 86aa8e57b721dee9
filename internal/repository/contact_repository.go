package repository

import (
	"database/sql"

	"github.com/lib/pq"

	"github.com/mkamau/callflow-backend/internal/model"
)

// ContactRepositoryInterface is the directory adapter. Contacts are owned
// elsewhere; this service only resolves ids to display records.
type ContactRepositoryInterface interface {
	ResolveContacts(ids []string) ([]model.Contact, error)
	ListAll(limit int) ([]model.Contact, error)
}

// ContactRepository is the concrete implementation
type ContactRepository struct {
	DB *sql.DB
}

// ResolveContacts batch-fetches contact records. Ids absent from the
// directory are simply missing from the result.
func (r *ContactRepository) ResolveContacts(ids []string) ([]model.Contact, error) {
	if len(ids) == 0 {
		return []model.Contact{}, nil
	}
	query := `
		SELECT contact_id, contact_first, contact_last, contact_email, contact_phone
		FROM contacts
		WHERE contact_id = ANY($1)
	`
	rows, err := r.DB.Query(query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []model.Contact{}
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// ListAll fetches contacts for campaign creation screens.
func (r *ContactRepository) ListAll(limit int) ([]model.Contact, error) {
	if limit <= 0 || limit > 1000 {
		limit = 200
	}
	query := `
		SELECT contact_id, contact_first, contact_last, contact_email, contact_phone
		FROM contacts
		ORDER BY contact_last, contact_first
		LIMIT $1
	`
	rows, err := r.DB.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []model.Contact{}
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

var _ ContactRepositoryInterface = (*ContactRepository)(nil)
