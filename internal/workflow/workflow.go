// internal/workflow/workflow.go
// Pure workflow model: ordered action steps with trigger filters. No I/O;
// (de)serialization happens once at the campaign store adapter.
package workflow

import (
	"sort"
	"time"

	appErrors "github.com/mkamau/callflow-backend/internal/errors"
)

const (
	StepCall  = "call"
	StepEmail = "email"
)

// Outcome codes recorded by the call screen.
const (
	OutcomeAnswered = "answered"
	OutcomeNoAnswer = "no_answer"
)

// EmailTemplate is the payload attached to email-type steps.
type EmailTemplate struct {
	Subject   string `json:"subject"`
	Preheader string `json:"preheader"`
	HTML      string `json:"html"`
}

// ActionStep is one workflow stage. Order is 0-based and dense within a
// definition; Email is present only on email-type steps.
type ActionStep struct {
	ID      string         `json:"id"`
	Order   int            `json:"order"`
	Type    string         `json:"type"`
	Title   string         `json:"title"`
	Filters TriggerFilter  `json:"filters"`
	Email   *EmailTemplate `json:"email,omitempty"`
}

// Definition is a campaign's ordered workflow. Filters holds the last-used
// trigger snapshot from the editor; the whole definition is replaced
// wholesale on every save.
type Definition struct {
	Events  []ActionStep  `json:"events"`
	Filters TriggerFilter `json:"filters"`
	SavedAt time.Time     `json:"saved_at"`
}

// NextStepAfter returns the first step with a strictly greater order index
// and the given type, or nil. An empty currentStepID means "before the
// first step"; an unknown id yields nil.
func NextStepAfter(def *Definition, currentStepID, stepType string) *ActionStep {
	if def == nil {
		return nil
	}
	base := -1
	if currentStepID != "" {
		cur := def.Step(currentStepID)
		if cur == nil {
			return nil
		}
		base = cur.Order
	}

	var next *ActionStep
	for i := range def.Events {
		s := &def.Events[i]
		if s.Order <= base || s.Type != stepType {
			continue
		}
		if next == nil || s.Order < next.Order {
			next = s
		}
	}
	if next == nil {
		return nil
	}
	out := *next
	return &out
}

// StepsFrom returns the steps starting at stepID, sorted and re-based so
// the first carries order 0. Returns nil when stepID is unknown.
func StepsFrom(def *Definition, stepID string) []ActionStep {
	if def == nil {
		return nil
	}
	start := def.Step(stepID)
	if start == nil {
		return nil
	}

	out := []ActionStep{}
	for _, s := range def.Events {
		if s.Order >= start.Order {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	for i := range out {
		out[i].Order = i
	}
	return out
}

// Step finds an event by id, or nil.
func (d *Definition) Step(stepID string) *ActionStep {
	for i := range d.Events {
		if d.Events[i].ID == stepID {
			return &d.Events[i]
		}
	}
	return nil
}

// Renumber sorts events by order and makes the indices dense again after a
// structural edit.
func Renumber(events []ActionStep) {
	sort.SliceStable(events, func(i, j int) bool { return events[i].Order < events[j].Order })
	for i := range events {
		events[i].Order = i
	}
}

// Validate rejects malformed definitions before any write.
func (d *Definition) Validate() error {
	for i := range d.Events {
		s := &d.Events[i]
		if s.Type != StepCall && s.Type != StepEmail {
			return appErrors.NewValidation("events", "unknown action type: "+s.Type)
		}
		if s.ID == "" {
			return appErrors.NewValidation("events", "action step is missing an id")
		}
		if err := s.Filters.Validate(); err != nil {
			return err
		}
	}
	return d.Filters.Validate()
}

// Normalize puts a definition read from the store (or accepted from a save)
// into canonical form: dense ordering, no email payload on call steps, and
// no-choice filters collapsed to "all".
func (d *Definition) Normalize() {
	Renumber(d.Events)
	for i := range d.Events {
		if d.Events[i].Type == StepCall {
			d.Events[i].Email = nil
		}
		d.Events[i].Filters.normalize()
	}
	d.Filters.normalize()
}
