// internal/service/spawn_service.go
package service

import (
	"log"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/mkamau/callflow-backend/internal/errors"
	"github.com/mkamau/callflow-backend/internal/model"
	"github.com/mkamau/callflow-backend/internal/queue"
	"github.com/mkamau/callflow-backend/internal/workflow"
)

// SpawnNextCampaign forks a follow-up campaign from the next call-type step
// of the parent's workflow: membership is the distinct contact ids whose
// progress rows pass the step's trigger filter, and the child workflow is
// the remaining steps re-based to 0. The parent and its history are left
// untouched. currentStepID defaults to the parent's live (order-0) step.
func (s *CampaignService) SpawnNextCampaign(campaignID, currentStepID string) (*model.Campaign, error) {
	parent, err := s.CampaignRepo.GetByID(campaignID)
	if err != nil {
		if _, ok := err.(*appErrors.ErrCampaignNotFound); ok {
			return nil, err
		}
		return nil, appErrors.NewLoadFailure("campaign read", err)
	}

	wf := parent.Workflow
	if wf == nil || len(wf.Events) == 0 {
		return nil, appErrors.NewNoNextStep(currentStepID)
	}
	if currentStepID == "" {
		currentStepID = wf.Events[0].ID
	}

	// Only call-type steps auto-advance into a new campaign; email steps
	// fire per contact when outcomes are recorded.
	next := workflow.NextStepAfter(wf, currentStepID, workflow.StepCall)
	if next == nil {
		return nil, appErrors.NewNoNextStep(currentStepID)
	}
	if err := next.Filters.Validate(); err != nil {
		return nil, err
	}

	rows, err := s.ProgressRepo.ListByCampaign(campaignID)
	if err != nil {
		return nil, appErrors.NewLoadFailure("progress read", err)
	}

	matched := []string{}
	seen := map[string]bool{}
	for i := range rows {
		rec := &rows[i]
		if !next.Filters.Matches(rec.Outcome, rec.Response) {
			continue
		}
		if !seen[rec.ContactID] {
			seen[rec.ContactID] = true
			matched = append(matched, rec.ContactID)
		}
	}
	if len(matched) == 0 {
		return nil, appErrors.NewNoMatchingContacts(next.ID)
	}

	child := &model.Campaign{
		ID:              uuid.NewString(),
		Name:            parent.Name + " — " + next.Title,
		ContactIDs:      matched,
		SurveyQuestions: append([]string{}, parent.SurveyQuestions...),
		SurveyOptions:   append([]string{}, parent.SurveyOptions...),
		Workflow: &workflow.Definition{
			Events:  workflow.StepsFrom(wf, next.ID),
			Filters: wf.Filters,
			SavedAt: time.Now(),
		},
	}
	if err := s.CampaignRepo.Create(child); err != nil {
		return nil, appErrors.NewPersistence("campaign create", err)
	}

	if s.Queue != nil {
		notice := queue.SpawnNotice{
			CampaignID:       child.ID,
			ParentCampaignID: parent.ID,
			StepTitle:        next.Title,
		}
		if err := s.Queue.Publish(queue.TopicCampaignSpawned, notice); err != nil {
			log.Println("⚠️ Failed to publish spawn notice for", child.ID, ":", err)
		}
	}

	return child, nil
}
