package service_test

import (
	"fmt"
	"sync"
	"time"

	appErrors "github.com/mkamau/callflow-backend/internal/errors"
	"github.com/mkamau/callflow-backend/internal/model"
	"github.com/mkamau/callflow-backend/internal/workflow"
)

// --- Mock repositories ---

type MockCampaignRepo struct {
	mu        sync.Mutex
	campaigns map[string]*model.Campaign
	created   []*model.Campaign
	failGet   bool
}

func NewMockCampaignRepo(campaigns ...*model.Campaign) *MockCampaignRepo {
	m := &MockCampaignRepo{campaigns: map[string]*model.Campaign{}}
	for _, c := range campaigns {
		m.campaigns[c.ID] = c
	}
	return m
}

func (m *MockCampaignRepo) Create(c *model.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.CreatedAt = time.Now()
	m.campaigns[c.ID] = c
	m.created = append(m.created, c)
	return nil
}

func (m *MockCampaignRepo) GetByID(id string) (*model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return nil, fmt.Errorf("boom")
	}
	c, ok := m.campaigns[id]
	if !ok {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	return c, nil
}

func (m *MockCampaignRepo) List() ([]model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Campaign{}
	for _, c := range m.campaigns {
		out = append(out, *c)
	}
	return out, nil
}

func (m *MockCampaignRepo) UpdateWorkflow(id string, wf *workflow.Definition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok {
		return appErrors.NewCampaignNotFound(id)
	}
	c.Workflow = wf
	return nil
}

type MockProgressRepo struct {
	mu           sync.Mutex
	order        []string // contact ids by first write, per campaign key
	records      map[string]*model.ProgressRecord
	interactions []model.Interaction
	failUpsert   bool
	failAppend   bool
	failList     bool
}

func NewMockProgressRepo() *MockProgressRepo {
	return &MockProgressRepo{records: map[string]*model.ProgressRecord{}}
}

func progressKey(campaignID, contactID string) string {
	return campaignID + "|" + contactID
}

func (m *MockProgressRepo) Upsert(rec *model.ProgressRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpsert {
		return fmt.Errorf("upsert boom")
	}
	key := progressKey(rec.CampaignID, rec.ContactID)
	if existing, ok := m.records[key]; ok {
		rec.Attempts = existing.Attempts + 1
	} else {
		rec.Attempts = 1
		m.order = append(m.order, key)
	}
	stored := *rec
	m.records[key] = &stored
	return nil
}

func (m *MockProgressRepo) ListByCampaign(campaignID string) ([]model.ProgressRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failList {
		return nil, fmt.Errorf("list boom")
	}
	out := []model.ProgressRecord{}
	for _, key := range m.order {
		rec := m.records[key]
		if rec.CampaignID == campaignID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (m *MockProgressRepo) AppendInteraction(entry *model.Interaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAppend {
		return fmt.Errorf("append boom")
	}
	entry.ID = len(m.interactions) + 1
	m.interactions = append(m.interactions, *entry)
	return nil
}

func (m *MockProgressRepo) ListInteractions(contactID string, campaignID *string, limit int) ([]model.Interaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Interaction{}
	for _, e := range m.interactions {
		if e.ContactID != contactID {
			continue
		}
		if campaignID != nil && (e.CampaignID == nil || *e.CampaignID != *campaignID) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type MockContactRepo struct {
	contacts map[string]model.Contact
}

func NewMockContactRepo(contacts ...model.Contact) *MockContactRepo {
	m := &MockContactRepo{contacts: map[string]model.Contact{}}
	for _, c := range contacts {
		m.contacts[c.ID] = c
	}
	return m
}

func (m *MockContactRepo) ResolveContacts(ids []string) ([]model.Contact, error) {
	out := []model.Contact{}
	for _, id := range ids {
		if c, ok := m.contacts[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *MockContactRepo) ListAll(limit int) ([]model.Contact, error) {
	out := []model.Contact{}
	for _, c := range m.contacts {
		out = append(out, c)
	}
	return out, nil
}

type MockEmailRepo struct {
	mu     sync.Mutex
	nextID int
	emails map[string]*model.OutboundEmail
	byID   map[int]*model.OutboundEmail
}

func NewMockEmailRepo() *MockEmailRepo {
	return &MockEmailRepo{emails: map[string]*model.OutboundEmail{}, byID: map[int]*model.OutboundEmail{}}
}

func emailKey(campaignID, contactID, stepID string) string {
	return campaignID + "|" + contactID + "|" + stepID
}

func (m *MockEmailRepo) CreateOutboundEmail(campaignID, contactID, stepID, subject, renderedHTML string) (*model.OutboundEmail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := emailKey(campaignID, contactID, stepID)
	if existing, ok := m.emails[key]; ok {
		return existing, nil
	}
	m.nextID++
	msg := &model.OutboundEmail{
		ID:           m.nextID,
		CampaignID:   campaignID,
		ContactID:    contactID,
		StepID:       stepID,
		Status:       "pending",
		Subject:      subject,
		RenderedHTML: renderedHTML,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	m.emails[key] = msg
	m.byID[msg.ID] = msg
	return msg, nil
}

func (m *MockEmailRepo) GetOutboundEmail(campaignID, contactID, stepID string) (*model.OutboundEmail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.emails[emailKey(campaignID, contactID, stepID)], nil
}

func (m *MockEmailRepo) GetByID(id int) (*model.OutboundEmail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id], nil
}

func (m *MockEmailRepo) UpdateStatus(id int, status, lastError string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg, ok := m.byID[id]; ok {
		msg.Status = status
		msg.LastError = lastError
		if status == "failed" {
			msg.RetryCount++
		}
	}
	return nil
}

// MockQueue records publishes instead of running handlers.
type MockQueue struct {
	mu        sync.Mutex
	published []publishedJob
}

type publishedJob struct {
	topic   string
	payload any
}

func (m *MockQueue) Publish(topic string, payload any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, publishedJob{topic: topic, payload: payload})
	return nil
}

func (m *MockQueue) Subscribe(topic string, handler func(payload any) error) error {
	return nil
}

func (m *MockQueue) Published(topic string) []any {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []any{}
	for _, p := range m.published {
		if p.topic == topic {
			out = append(out, p.payload)
		}
	}
	return out
}
