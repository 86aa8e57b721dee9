// internal/service/queue_service.go
package service

import (
	appErrors "github.com/mkamau/callflow-backend/internal/errors"
	"github.com/mkamau/callflow-backend/internal/model"
	"github.com/mkamau/callflow-backend/internal/workflow"
)

// Totals are the aggregate counters for a campaign queue. They are derived
// state: always recomputed from a full progress re-read, never incremented.
type Totals struct {
	Total    int `json:"total"`
	Made     int `json:"made"`
	Answered int `json:"answered"`
	Missed   int `json:"missed"`
}

// QueueSession is the working state for one operator screen: the ordered
// queue, resolved contacts, counters and cursor. Sessions are per-request
// derived state; nothing here is persisted.
type QueueSession struct {
	Campaign          *model.Campaign                 `json:"campaign"`
	Queue             []string                        `json:"queue"`
	ContactsByID      map[string]model.Contact        `json:"contacts_by_id"`
	ProgressByContact map[string]model.ProgressRecord `json:"progress_by_contact"`
	Totals            Totals                          `json:"totals"`
	Cursor            int                             `json:"cursor"`
	Complete          bool                            `json:"complete"`
}

// Current returns the contact at the cursor, or nil on an empty queue.
func (sess *QueueSession) Current() *model.Contact {
	if sess.Cursor < 0 || sess.Cursor >= len(sess.Queue) {
		return nil
	}
	c, ok := sess.ContactsByID[sess.Queue[sess.Cursor]]
	if !ok {
		return nil
	}
	return &c
}

// CurrentStepID is the live workflow step of this campaign. Spawned
// campaigns carry re-based remaining steps, so order 0 is always current.
func (sess *QueueSession) CurrentStepID() string {
	wf := sess.Campaign.Workflow
	if wf == nil || len(wf.Events) == 0 {
		return ""
	}
	return wf.Events[0].ID
}

// BuildQueue derives the working queue for a campaign: progress rows first,
// the campaign's declared membership as fallback, contacts batch-resolved,
// counters and cursor computed. Any read failure is fatal; no partial
// session is returned.
func (s *CampaignService) BuildQueue(campaignID string) (*QueueSession, error) {
	campaign, err := s.CampaignRepo.GetByID(campaignID)
	if err != nil {
		if _, ok := err.(*appErrors.ErrCampaignNotFound); ok {
			return nil, err
		}
		return nil, appErrors.NewLoadFailure("campaign read", err)
	}

	rows, err := s.ProgressRepo.ListByCampaign(campaignID)
	if err != nil {
		return nil, appErrors.NewLoadFailure("progress read", err)
	}

	// Provisional queue: distinct contact ids with progress, else the
	// campaign's declared membership.
	queueIDs := []string{}
	seen := map[string]bool{}
	for _, rec := range rows {
		if !seen[rec.ContactID] {
			seen[rec.ContactID] = true
			queueIDs = append(queueIDs, rec.ContactID)
		}
	}
	if len(queueIDs) == 0 {
		queueIDs = append(queueIDs, campaign.ContactIDs...)
	}

	contacts, err := s.ContactRepo.ResolveContacts(queueIDs)
	if err != nil {
		return nil, appErrors.NewLoadFailure("contact resolve", err)
	}
	contactsByID := make(map[string]model.Contact, len(contacts))
	for _, c := range contacts {
		contactsByID[c.ID] = c
	}

	// Ids missing from the directory drop out of the queue. Their progress
	// history stays in the counters.
	resolved := queueIDs[:0]
	for _, id := range queueIDs {
		if _, ok := contactsByID[id]; ok {
			resolved = append(resolved, id)
		}
	}
	queueIDs = resolved

	progressByContact := make(map[string]model.ProgressRecord, len(rows))
	for _, rec := range rows {
		progressByContact[rec.ContactID] = rec
	}

	sess := &QueueSession{
		Campaign:          campaign,
		Queue:             queueIDs,
		ContactsByID:      contactsByID,
		ProgressByContact: progressByContact,
		Totals:            countersFrom(len(queueIDs), rows),
	}
	sess.Cursor, sess.Complete = cursorFor(sess.Queue, progressByContact, sess.Totals)
	return sess, nil
}

// countersFrom recomputes the four counters from a full row set.
func countersFrom(queueLen int, rows []model.ProgressRecord) Totals {
	t := Totals{Total: queueLen}
	for i := range rows {
		if rows[i].Attempted() {
			t.Made++
		}
		switch rows[i].Outcome {
		case workflow.OutcomeAnswered:
			t.Answered++
		case workflow.OutcomeNoAnswer:
			t.Missed++
		}
	}
	return t
}

// cursorFor points at the first un-attempted queue entry. When every entry
// has been worked the cursor rests at 0 and the campaign reads complete.
func cursorFor(queueIDs []string, progress map[string]model.ProgressRecord, t Totals) (int, bool) {
	complete := t.Total > 0 && t.Made >= t.Total
	for i, id := range queueIDs {
		rec, ok := progress[id]
		if !ok || !rec.Attempted() {
			return i, complete
		}
	}
	return 0, complete
}
