package repository

import (
	"database/sql"
	"time"

	"github.com/mkamau/callflow-backend/internal/model"
)

// ProgressRepositoryInterface is the progress store adapter: one row per
// (campaign_id, contact_id), upserts keyed on the pair, plus the append-only
// interaction log.
type ProgressRepositoryInterface interface {
	Upsert(rec *model.ProgressRecord) error
	ListByCampaign(campaignID string) ([]model.ProgressRecord, error)
	AppendInteraction(entry *model.Interaction) error
	ListInteractions(contactID string, campaignID *string, limit int) ([]model.Interaction, error)
}

type ProgressRepository struct {
	DB *sql.DB
}

// Upsert writes the current state for the pair. A second call overwrites
// outcome/response/notes/timestamp; attempts counts up on conflict.
func (r *ProgressRepository) Upsert(rec *model.ProgressRecord) error {
	if rec.LastCalledAt.IsZero() {
		rec.LastCalledAt = time.Now()
	}
	query := `
		INSERT INTO call_progress (campaign_id, contact_id, outcome, response, notes, last_called_at, attempts)
		VALUES ($1, $2, $3, $4, $5, $6, 1)
		ON CONFLICT (campaign_id, contact_id) DO UPDATE
		SET outcome        = EXCLUDED.outcome,
			response       = EXCLUDED.response,
			notes          = EXCLUDED.notes,
			last_called_at = EXCLUDED.last_called_at,
			attempts       = call_progress.attempts + 1
		RETURNING attempts
	`
	return r.DB.QueryRow(
		query,
		rec.CampaignID, rec.ContactID, rec.Outcome, rec.Response, rec.Notes, rec.LastCalledAt,
	).Scan(&rec.Attempts)
}

func (r *ProgressRepository) ListByCampaign(campaignID string) ([]model.ProgressRecord, error) {
	query := `
		SELECT campaign_id, contact_id, outcome, response, notes, last_called_at, attempts
		FROM call_progress
		WHERE campaign_id = $1
		ORDER BY last_called_at ASC
	`
	rows, err := r.DB.Query(query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []model.ProgressRecord{}
	for rows.Next() {
		var rec model.ProgressRecord
		if err := rows.Scan(
			&rec.CampaignID, &rec.ContactID, &rec.Outcome,
			&rec.Response, &rec.Notes, &rec.LastCalledAt, &rec.Attempts,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *ProgressRepository) AppendInteraction(entry *model.Interaction) error {
	if entry.CallTime.IsZero() {
		entry.CallTime = time.Now()
	}
	query := `
		INSERT INTO interactions (contact_id, campaign_id, user_id, call_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return r.DB.QueryRow(query, entry.ContactID, entry.CampaignID, entry.UserID, entry.CallTime).Scan(&entry.ID)
}

func (r *ProgressRepository) ListInteractions(contactID string, campaignID *string, limit int) ([]model.Interaction, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id, contact_id, campaign_id, user_id, call_time
		FROM interactions
		WHERE contact_id = $1 AND ($2::text IS NULL OR campaign_id = $2)
		ORDER BY call_time DESC
		LIMIT $3
	`
	rows, err := r.DB.Query(query, contactID, campaignID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []model.Interaction{}
	for rows.Next() {
		var e model.Interaction
		if err := rows.Scan(&e.ID, &e.ContactID, &e.CampaignID, &e.UserID, &e.CallTime); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

var _ ProgressRepositoryInterface = (*ProgressRepository)(nil)
