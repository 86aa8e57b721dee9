// internal/model/campaign.go
package model

import (
	"time"

	"github.com/mkamau/callflow-backend/internal/workflow"
)

type Campaign struct {
	ID              string               `db:"campaign_id" json:"campaign_id"`
	Name            string               `db:"campaign_name" json:"campaign_name"`
	ContactIDs      []string             `db:"contact_ids" json:"contact_ids"`
	SurveyQuestions []string             `db:"survey_questions" json:"survey_questions"`
	SurveyOptions   []string             `db:"survey_options" json:"survey_options"`
	Workflow        *workflow.Definition `db:"workflow" json:"workflow,omitempty"`
	CreatedAt       time.Time            `db:"created_at" json:"created_at"`
	UpdatedAt       *time.Time           `db:"updated_at" json:"updated_at,omitempty"`
}
