// internal/controller/campaign_controller.go
package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/mkamau/callflow-backend/internal/errors"
	"github.com/mkamau/callflow-backend/internal/service"
	"github.com/mkamau/callflow-backend/internal/workflow"
)

type CampaignController struct {
	CampaignService *service.CampaignService
}

func (c *CampaignController) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name            string               `json:"campaign_name"`
		ContactIDs      []string             `json:"contact_ids"`
		SurveyQuestions []string             `json:"survey_questions"`
		SurveyOptions   []string             `json:"survey_options"`
		Workflow        *workflow.Definition `json:"workflow"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	campaign, err := c.CampaignService.CreateCampaign(body.Name, body.ContactIDs, body.SurveyQuestions, body.SurveyOptions, body.Workflow)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(campaign)
}

func (c *CampaignController) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := c.CampaignService.ListCampaigns()
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"data": campaigns,
	})
}

// GetQueue returns the derived working state for the calling screen: queue,
// contacts, counters, cursor. Rebuilt fresh on every load.
func (c *CampaignController) GetQueue(w http.ResponseWriter, r *http.Request) {
	campaignID := chi.URLParam(r, "id")

	sess, err := c.CampaignService.BuildQueue(campaignID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sess)
}

func (c *CampaignController) RecordOutcome(w http.ResponseWriter, r *http.Request) {
	campaignID := chi.URLParam(r, "id")

	var body struct {
		ContactID string  `json:"contact_id"`
		Outcome   string  `json:"outcome"`
		Response  *string `json:"response"`
		Notes     *string `json:"notes"`
		UserID    *string `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	sess, err := c.CampaignService.BuildQueue(campaignID)
	if err != nil {
		writeError(w, err)
		return
	}

	err = c.CampaignService.RecordOutcome(sess, service.OutcomeRequest{
		ContactID: body.ContactID,
		Outcome:   body.Outcome,
		Response:  body.Response,
		Notes:     body.Notes,
		UserID:    body.UserID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"totals":   sess.Totals,
		"cursor":   sess.Cursor,
		"complete": sess.Complete,
	})
}

func (c *CampaignController) SpawnCampaign(w http.ResponseWriter, r *http.Request) {
	campaignID := chi.URLParam(r, "id")

	var body struct {
		CurrentStepID string `json:"current_step_id"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid body", http.StatusBadRequest)
			return
		}
	}

	child, err := c.CampaignService.SpawnNextCampaign(campaignID, body.CurrentStepID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"campaign_id":   child.ID,
		"campaign_name": child.Name,
		"contact_count": len(child.ContactIDs),
	})
}

func (c *CampaignController) SaveWorkflow(w http.ResponseWriter, r *http.Request) {
	campaignID := chi.URLParam(r, "id")

	var wf workflow.Definition
	if err := json.NewDecoder(r.Body).Decode(&wf); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	if err := c.CampaignService.SaveWorkflow(campaignID, &wf); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"campaign_id": campaignID,
		"saved_at":    wf.SavedAt,
	})
}

func (c *CampaignController) ListInteractions(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "contactID")

	var campaignID *string
	if v := r.URL.Query().Get("campaign"); v != "" {
		campaignID = &v
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := c.CampaignService.ListInteractions(contactID, campaignID, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"data": entries,
	})
}

// writeError maps the error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var (
		notFound   *appErrors.ErrCampaignNotFound
		validation *appErrors.ValidationError
		noMatch    *appErrors.NoMatchingContactsError
		noStep     *appErrors.NoNextStepError
	)
	switch {
	case errors.As(err, &notFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &validation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &noMatch), errors.As(err, &noStep):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
