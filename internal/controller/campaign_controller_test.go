package controller_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mkamau/callflow-backend/internal/controller"
	appErrors "github.com/mkamau/callflow-backend/internal/errors"
	"github.com/mkamau/callflow-backend/internal/model"
	"github.com/mkamau/callflow-backend/internal/service"
	"github.com/mkamau/callflow-backend/internal/workflow"
)

type stubCampaignRepo struct {
	campaigns map[string]*model.Campaign
}

func (s *stubCampaignRepo) Create(c *model.Campaign) error {
	c.CreatedAt = time.Now()
	s.campaigns[c.ID] = c
	return nil
}

func (s *stubCampaignRepo) GetByID(id string) (*model.Campaign, error) {
	c, ok := s.campaigns[id]
	if !ok {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	return c, nil
}

func (s *stubCampaignRepo) List() ([]model.Campaign, error) {
	out := []model.Campaign{}
	for _, c := range s.campaigns {
		out = append(out, *c)
	}
	return out, nil
}

func (s *stubCampaignRepo) UpdateWorkflow(id string, wf *workflow.Definition) error {
	c, ok := s.campaigns[id]
	if !ok {
		return appErrors.NewCampaignNotFound(id)
	}
	c.Workflow = wf
	return nil
}

type stubProgressRepo struct {
	rows []model.ProgressRecord
}

func (s *stubProgressRepo) Upsert(rec *model.ProgressRecord) error {
	for i := range s.rows {
		if s.rows[i].ContactID == rec.ContactID && s.rows[i].CampaignID == rec.CampaignID {
			rec.Attempts = s.rows[i].Attempts + 1
			s.rows[i] = *rec
			return nil
		}
	}
	rec.Attempts = 1
	s.rows = append(s.rows, *rec)
	return nil
}

func (s *stubProgressRepo) ListByCampaign(campaignID string) ([]model.ProgressRecord, error) {
	out := []model.ProgressRecord{}
	for _, r := range s.rows {
		if r.CampaignID == campaignID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubProgressRepo) AppendInteraction(entry *model.Interaction) error { return nil }

func (s *stubProgressRepo) ListInteractions(contactID string, campaignID *string, limit int) ([]model.Interaction, error) {
	return []model.Interaction{}, nil
}

type stubContactRepo struct {
	contacts map[string]model.Contact
}

func (s *stubContactRepo) ResolveContacts(ids []string) ([]model.Contact, error) {
	out := []model.Contact{}
	for _, id := range ids {
		if c, ok := s.contacts[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *stubContactRepo) ListAll(limit int) ([]model.Contact, error) {
	return nil, nil
}

func newTestRouter(campaigns ...*model.Campaign) (*chi.Mux, *stubProgressRepo) {
	campaignRepo := &stubCampaignRepo{campaigns: map[string]*model.Campaign{}}
	for _, c := range campaigns {
		campaignRepo.campaigns[c.ID] = c
	}
	progressRepo := &stubProgressRepo{}
	contactRepo := &stubContactRepo{contacts: map[string]model.Contact{
		"c-001": {ID: "c-001", FirstName: "Ada", Email: "ada@example.com"},
		"c-002": {ID: "c-002", FirstName: "Grace", Email: "grace@example.com"},
	}}

	svc := &service.CampaignService{
		CampaignRepo: campaignRepo,
		ProgressRepo: progressRepo,
		ContactRepo:  contactRepo,
	}
	ctrl := &controller.CampaignController{CampaignService: svc}

	r := chi.NewRouter()
	r.Post("/campaigns", ctrl.CreateCampaign)
	r.Get("/campaigns", ctrl.ListCampaigns)
	r.Get("/campaigns/{id}/queue", ctrl.GetQueue)
	r.Post("/campaigns/{id}/outcomes", ctrl.RecordOutcome)
	r.Post("/campaigns/{id}/spawn", ctrl.SpawnCampaign)
	r.Put("/campaigns/{id}/workflow", ctrl.SaveWorkflow)
	return r, progressRepo
}

func TestCreateCampaignRejectsEmptyName(t *testing.T) {
	r, _ := newTestRouter()

	req := httptest.NewRequest("POST", "/campaigns", strings.NewReader(`{"campaign_name": "  "}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestRecordOutcomeReturnsTotals(t *testing.T) {
	campaign := &model.Campaign{ID: "camp-1", Name: "Drive", ContactIDs: []string{"c-001", "c-002"}}
	r, _ := newTestRouter(campaign)

	body := `{"contact_id": "c-001", "outcome": "Answered", "response": "Yes"}`
	req := httptest.NewRequest("POST", "/campaigns/camp-1/outcomes", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Totals   service.Totals `json:"totals"`
		Cursor   int            `json:"cursor"`
		Complete bool           `json:"complete"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Totals.Made != 1 || resp.Totals.Answered != 1 {
		t.Errorf("unexpected totals %+v", resp.Totals)
	}
	if resp.Cursor != 1 || resp.Complete {
		t.Errorf("unexpected cursor %d complete %v", resp.Cursor, resp.Complete)
	}
}

func TestRecordOutcomeUnknownCampaign(t *testing.T) {
	r, _ := newTestRouter()

	req := httptest.NewRequest("POST", "/campaigns/nope/outcomes", strings.NewReader(`{"contact_id": "c-001", "outcome": "Answered"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestSpawnCampaignNoMatch(t *testing.T) {
	campaign := &model.Campaign{
		ID: "camp-1", Name: "Drive", ContactIDs: []string{"c-001"},
		Workflow: &workflow.Definition{
			Events: []workflow.ActionStep{
				{ID: "s0", Order: 0, Type: workflow.StepCall, Title: "First",
					Filters: workflow.TriggerFilter{Outcomes: workflow.AllValue(), Responses: workflow.AllValue()}},
				{ID: "s1", Order: 1, Type: workflow.StepCall, Title: "Retry",
					Filters: workflow.TriggerFilter{
						Outcomes:  workflow.FilterValue{Labels: []string{"No Answer"}},
						Responses: workflow.AllValue(),
					}},
			},
		},
	}
	r, progressRepo := newTestRouter(campaign)
	progressRepo.rows = append(progressRepo.rows, model.ProgressRecord{
		CampaignID: "camp-1", ContactID: "c-001", Outcome: "answered", Attempts: 1,
	})

	req := httptest.NewRequest("POST", "/campaigns/camp-1/spawn", strings.NewReader(`{"current_step_id": "s0"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSaveWorkflowRejectsEmptyFilterSet(t *testing.T) {
	campaign := &model.Campaign{ID: "camp-1", Name: "Drive"}
	r, _ := newTestRouter(campaign)

	body := `{"events": [{"id": "s0", "order": 0, "type": "call", "title": "First",
		"filters": {"outcomes": [], "responses": "all"}}]}`
	req := httptest.NewRequest("PUT", "/campaigns/camp-1/workflow", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("explicit empty filter set should be a 400, got %d: %s", w.Code, w.Body.String())
	}
}
