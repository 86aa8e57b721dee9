// internal/service/outcome_service.go
package service

import (
	"log"
	"strings"
	"time"

	appErrors "github.com/mkamau/callflow-backend/internal/errors"
	"github.com/mkamau/callflow-backend/internal/model"
	"github.com/mkamau/callflow-backend/internal/queue"
	"github.com/mkamau/callflow-backend/internal/workflow"
)

// OutcomeRequest carries one recorded contact attempt. UserID is the acting
// operator for interaction attribution; nil when no identity is present.
type OutcomeRequest struct {
	ContactID string
	Outcome   string
	Response  *string
	Notes     *string
	UserID    *string
}

// RecordOutcome performs the idempotent progress upsert for the pair,
// appends one interaction log entry, recomputes the counters from a full
// re-read and only then advances the cursor. On any failure the cursor
// stays put and the operator retries.
func (s *CampaignService) RecordOutcome(sess *QueueSession, req OutcomeRequest) error {
	if strings.TrimSpace(req.ContactID) == "" {
		return appErrors.NewValidation("contact_id", "contact id is required")
	}
	outcome := workflow.OutcomeCode(req.Outcome)
	if outcome == "" {
		return appErrors.NewValidation("outcome", "outcome is required")
	}

	now := time.Now()
	rec := model.ProgressRecord{
		CampaignID:   sess.Campaign.ID,
		ContactID:    req.ContactID,
		Outcome:      outcome,
		Response:     trimmedOrNil(req.Response),
		Notes:        trimmedOrNil(req.Notes),
		LastCalledAt: now,
	}
	if err := s.ProgressRepo.Upsert(&rec); err != nil {
		return appErrors.NewPersistence("progress upsert", err)
	}

	entry := model.Interaction{
		ContactID:  req.ContactID,
		CampaignID: &sess.Campaign.ID,
		UserID:     req.UserID,
		CallTime:   now,
	}
	if err := s.ProgressRepo.AppendInteraction(&entry); err != nil {
		return appErrors.NewPersistence("interaction append", err)
	}

	// Counters come from a full re-read, never an in-memory increment, so
	// concurrent operators on the same campaign stay consistent.
	rows, err := s.ProgressRepo.ListByCampaign(sess.Campaign.ID)
	if err != nil {
		return appErrors.NewPersistence("counter recompute", err)
	}
	for i := range rows {
		sess.ProgressByContact[rows[i].ContactID] = rows[i]
	}
	sess.Totals = countersFrom(len(sess.Queue), rows)

	if sess.Cursor < len(sess.Queue)-1 {
		sess.Cursor++
	} else {
		sess.Complete = true
	}
	if sess.Totals.Total > 0 && sess.Totals.Made >= sess.Totals.Total {
		sess.Complete = true
	}

	s.maybeQueueWorkflowEmail(sess, rec)
	return nil
}

// maybeQueueWorkflowEmail fires the first email-type step after the live
// step whose trigger filter matches the freshly recorded row. Email steps
// are never auto-spawned into campaigns; they send per contact, here.
// Failures are logged and never undo the recorded outcome.
func (s *CampaignService) maybeQueueWorkflowEmail(sess *QueueSession, rec model.ProgressRecord) {
	wf := sess.Campaign.Workflow
	if wf == nil || s.EmailRepo == nil || s.Queue == nil {
		return
	}
	step := workflow.NextStepAfter(wf, sess.CurrentStepID(), workflow.StepEmail)
	if step == nil || !step.Filters.Matches(rec.Outcome, rec.Response) {
		return
	}

	contact, ok := sess.ContactsByID[rec.ContactID]
	if !ok || contact.Email == "" {
		log.Println("⚠️ Skipping workflow email, no address for contact", rec.ContactID)
		return
	}

	subject, html := renderWorkflowEmail(step, sess.Campaign, contact)
	msg, err := s.EmailRepo.CreateOutboundEmail(sess.Campaign.ID, rec.ContactID, step.ID, subject, html)
	if err != nil {
		log.Println("⚠️ Failed to create outbound email:", err)
		return
	}
	if msg.Status == "sent" {
		return
	}
	if err := s.Queue.Publish(queue.TopicWorkflowEmails, queue.EmailJob{OutboundEmailID: msg.ID}); err != nil {
		log.Println("⚠️ Failed to enqueue workflow email", msg.ID, ":", err)
	}
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
