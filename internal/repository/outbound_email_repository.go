package repository

import (
	"database/sql"

	"github.com/mkamau/callflow-backend/internal/model"
)

type OutboundEmailRepositoryInterface interface {
	CreateOutboundEmail(campaignID, contactID, stepID, subject, renderedHTML string) (*model.OutboundEmail, error)
	GetOutboundEmail(campaignID, contactID, stepID string) (*model.OutboundEmail, error)
	GetByID(id int) (*model.OutboundEmail, error)
	UpdateStatus(id int, status, lastError string) error
}

type OutboundEmailRepository struct {
	DB *sql.DB
}

// CreateOutboundEmail is idempotent on (campaign_id, contact_id, step_id):
// a second call for the same triple returns the existing row.
func (r *OutboundEmailRepository) CreateOutboundEmail(campaignID, contactID, stepID, subject, renderedHTML string) (*model.OutboundEmail, error) {
	existing, err := r.GetOutboundEmail(campaignID, contactID, stepID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	query := `
		INSERT INTO outbound_emails (campaign_id, contact_id, step_id, status, subject, rendered_html, retry_count, created_at, updated_at)
		VALUES ($1, $2, $3, 'pending', $4, $5, 0, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	msg := model.OutboundEmail{
		CampaignID:   campaignID,
		ContactID:    contactID,
		StepID:       stepID,
		Status:       "pending",
		Subject:      subject,
		RenderedHTML: renderedHTML,
	}
	err = r.DB.QueryRow(query, campaignID, contactID, stepID, subject, renderedHTML).
		Scan(&msg.ID, &msg.CreatedAt, &msg.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *OutboundEmailRepository) GetOutboundEmail(campaignID, contactID, stepID string) (*model.OutboundEmail, error) {
	query := `
		SELECT id, campaign_id, contact_id, step_id, status, subject, rendered_html, last_error, retry_count, created_at, updated_at
		FROM outbound_emails
		WHERE campaign_id = $1 AND contact_id = $2 AND step_id = $3
	`
	var msg model.OutboundEmail
	err := r.DB.QueryRow(query, campaignID, contactID, stepID).Scan(
		&msg.ID, &msg.CampaignID, &msg.ContactID, &msg.StepID, &msg.Status,
		&msg.Subject, &msg.RenderedHTML, &msg.LastError, &msg.RetryCount,
		&msg.CreatedAt, &msg.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

func (r *OutboundEmailRepository) GetByID(id int) (*model.OutboundEmail, error) {
	query := `
		SELECT id, campaign_id, contact_id, step_id, status, subject, rendered_html, last_error, retry_count, created_at, updated_at
		FROM outbound_emails
		WHERE id = $1
	`
	var msg model.OutboundEmail
	err := r.DB.QueryRow(query, id).Scan(
		&msg.ID, &msg.CampaignID, &msg.ContactID, &msg.StepID, &msg.Status,
		&msg.Subject, &msg.RenderedHTML, &msg.LastError, &msg.RetryCount,
		&msg.CreatedAt, &msg.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

func (r *OutboundEmailRepository) UpdateStatus(id int, status, lastError string) error {
	query := `
		UPDATE outbound_emails
		SET status = $1,
			last_error = $2,
			retry_count = CASE WHEN $1 = 'failed' THEN retry_count + 1 ELSE retry_count END,
			updated_at = NOW()
		WHERE id = $3
	`
	_, err := r.DB.Exec(query, status, lastError, id)
	return err
}

var _ OutboundEmailRepositoryInterface = (*OutboundEmailRepository)(nil)
