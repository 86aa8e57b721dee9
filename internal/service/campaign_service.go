// internal/service/campaign_service.go
package service

import (
	"strings"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/mkamau/callflow-backend/internal/errors"
	"github.com/mkamau/callflow-backend/internal/model"
	"github.com/mkamau/callflow-backend/internal/queue"
	"github.com/mkamau/callflow-backend/internal/repository"
	"github.com/mkamau/callflow-backend/internal/workflow"
)

// CampaignService is the campaign progression engine: queue building,
// outcome recording and workflow branch spawning over the store adapters.
type CampaignService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	ProgressRepo repository.ProgressRepositoryInterface
	ContactRepo  repository.ContactRepositoryInterface
	EmailRepo    repository.OutboundEmailRepositoryInterface
	Queue        queue.Queue
}

// CampaignDetails is a campaign plus its live derived state.
type CampaignDetails struct {
	Campaign *model.Campaign `json:"campaign"`
	Totals   Totals          `json:"totals"`
	Cursor   int             `json:"cursor"`
	Complete bool            `json:"complete"`
}

// CreateCampaign persists a new campaign draft. The workflow, when present,
// is validated and normalized before the write.
func (s *CampaignService) CreateCampaign(name string, contactIDs, surveyQuestions, surveyOptions []string, wf *workflow.Definition) (*model.Campaign, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, appErrors.NewValidation("campaign_name", "name is required")
	}

	if wf != nil {
		if err := wf.Validate(); err != nil {
			return nil, err
		}
		wf.Normalize()
		if wf.SavedAt.IsZero() {
			wf.SavedAt = time.Now()
		}
	}

	c := &model.Campaign{
		ID:              uuid.NewString(),
		Name:            name,
		ContactIDs:      contactIDs,
		SurveyQuestions: surveyQuestions,
		SurveyOptions:   surveyOptions,
		Workflow:        wf,
	}
	if err := s.CampaignRepo.Create(c); err != nil {
		return nil, appErrors.NewPersistence("campaign create", err)
	}
	return c, nil
}

// ListCampaigns fetches all campaigns, most recently touched first.
func (s *CampaignService) ListCampaigns() ([]model.Campaign, error) {
	campaigns, err := s.CampaignRepo.List()
	if err != nil {
		return nil, appErrors.NewLoadFailure("campaign list", err)
	}
	return campaigns, nil
}

// SaveWorkflow replaces a campaign's workflow wholesale, stamping the save.
func (s *CampaignService) SaveWorkflow(campaignID string, wf *workflow.Definition) error {
	if wf == nil {
		return appErrors.NewValidation("workflow", "workflow body is required")
	}
	if err := wf.Validate(); err != nil {
		return err
	}
	wf.Normalize()
	wf.SavedAt = time.Now()

	if err := s.CampaignRepo.UpdateWorkflow(campaignID, wf); err != nil {
		if _, ok := err.(*appErrors.ErrCampaignNotFound); ok {
			return err
		}
		return appErrors.NewPersistence("workflow save", err)
	}
	return nil
}

// GetCampaignDetailsWithStats returns a campaign together with the counters
// and cursor a fresh screen load would derive.
func (s *CampaignService) GetCampaignDetailsWithStats(campaignID string) (*CampaignDetails, error) {
	sess, err := s.BuildQueue(campaignID)
	if err != nil {
		return nil, err
	}
	return &CampaignDetails{
		Campaign: sess.Campaign,
		Totals:   sess.Totals,
		Cursor:   sess.Cursor,
		Complete: sess.Complete,
	}, nil
}

// ListInteractions reads the audit timeline for a contact.
func (s *CampaignService) ListInteractions(contactID string, campaignID *string, limit int) ([]model.Interaction, error) {
	entries, err := s.ProgressRepo.ListInteractions(contactID, campaignID, limit)
	if err != nil {
		return nil, appErrors.NewLoadFailure("interaction list", err)
	}
	return entries, nil
}
