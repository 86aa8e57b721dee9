package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lib/pq"

	appErrors "github.com/mkamau/callflow-backend/internal/errors"
	"github.com/mkamau/callflow-backend/internal/model"
	"github.com/mkamau/callflow-backend/internal/workflow"
)

type CampaignRepositoryInterface interface {
	Create(c *model.Campaign) error
	GetByID(id string) (*model.Campaign, error)
	List() ([]model.Campaign, error)
	UpdateWorkflow(id string, wf *workflow.Definition) error
}

type CampaignRepository struct {
	DB *sql.DB
}

// ====================== Campaign CRUD ======================

func (r *CampaignRepository) Create(c *model.Campaign) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	wfJSON, err := marshalWorkflow(c.Workflow)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO call_campaigns (campaign_id, campaign_name, contact_ids, survey_questions, survey_options, workflow, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	`
	_, err = r.DB.Exec(
		query,
		c.ID, c.Name,
		pq.Array(c.ContactIDs), pq.Array(c.SurveyQuestions), pq.Array(c.SurveyOptions),
		wfJSON, c.CreatedAt,
	)
	return err
}

func (r *CampaignRepository) GetByID(id string) (*model.Campaign, error) {
	query := `
		SELECT campaign_id, campaign_name, contact_ids, survey_questions, survey_options, workflow, created_at, updated_at
		FROM call_campaigns WHERE campaign_id = $1
	`
	var c model.Campaign
	var wfJSON []byte
	err := r.DB.QueryRow(query, id).Scan(
		&c.ID, &c.Name,
		pq.Array(&c.ContactIDs), pq.Array(&c.SurveyQuestions), pq.Array(&c.SurveyOptions),
		&wfJSON, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, err
	}
	c.Workflow, err = unmarshalWorkflow(wfJSON)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CampaignRepository) List() ([]model.Campaign, error) {
	query := `
		SELECT campaign_id, campaign_name, contact_ids, survey_questions, survey_options, workflow, created_at, updated_at
		FROM call_campaigns
		ORDER BY updated_at DESC NULLS LAST, created_at DESC
	`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := []model.Campaign{}
	for rows.Next() {
		var c model.Campaign
		var wfJSON []byte
		if err := rows.Scan(
			&c.ID, &c.Name,
			pq.Array(&c.ContactIDs), pq.Array(&c.SurveyQuestions), pq.Array(&c.SurveyOptions),
			&wfJSON, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if c.Workflow, err = unmarshalWorkflow(wfJSON); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

// UpdateWorkflow replaces the campaign's workflow wholesale.
func (r *CampaignRepository) UpdateWorkflow(id string, wf *workflow.Definition) error {
	wfJSON, err := marshalWorkflow(wf)
	if err != nil {
		return err
	}
	query := `UPDATE call_campaigns SET workflow = $1, updated_at = NOW() WHERE campaign_id = $2`
	res, err := r.DB.Exec(query, wfJSON, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return appErrors.NewCampaignNotFound(id)
	}
	return nil
}

// Workflow blobs are (de)serialized only here, at the adapter edge.

func marshalWorkflow(wf *workflow.Definition) ([]byte, error) {
	if wf == nil {
		return nil, nil
	}
	return json.Marshal(wf)
}

func unmarshalWorkflow(raw []byte) (*workflow.Definition, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var wf workflow.Definition
	if err := json.Unmarshal(raw, &wf); err != nil {
		return nil, err
	}
	wf.Normalize()
	return &wf, nil
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
