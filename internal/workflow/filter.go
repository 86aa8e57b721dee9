// internal/workflow/filter.go
package workflow

import (
	"encoding/json"
	"strings"

	appErrors "github.com/mkamau/callflow-backend/internal/errors"
)

// FilterValue is one axis of a trigger filter: either the sentinel "all" or
// a set of allowed labels. The workflow editor persists it as the JSON
// string "all" or as an array of display labels.
type FilterValue struct {
	All    bool
	Labels []string
}

// AllValue returns the permissive sentinel.
func AllValue() FilterValue {
	return FilterValue{All: true}
}

func (v FilterValue) MarshalJSON() ([]byte, error) {
	if v.All {
		return json.Marshal("all")
	}
	return json.Marshal(v.Labels)
}

func (v *FilterValue) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*v = AllValue()
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		if strings.EqualFold(strings.TrimSpace(str), "all") {
			*v = AllValue()
			return nil
		}
		// a bare label is read as a one-element set
		*v = FilterValue{Labels: []string{str}}
		return nil
	}
	var labels []string
	if err := json.Unmarshal(b, &labels); err != nil {
		return err
	}
	*v = FilterValue{Labels: labels}
	return nil
}

// permissive reports whether this axis passes every value. A nil label set
// (no explicit choice made) collapses to "all".
func (v FilterValue) permissive() bool {
	return v.All || len(v.Labels) == 0
}

// TriggerFilter gates whether a progress row advances past an action step.
// Both axes must pass for a match.
type TriggerFilter struct {
	Outcomes  FilterValue `json:"outcomes"`
	Responses FilterValue `json:"responses"`
}

// Matches decides whether a recorded outcome/response satisfies the filter.
// Outcome labels are mapped to codes before comparison; a missing response
// fails any non-"all" response filter.
func (f TriggerFilter) Matches(outcome string, response *string) bool {
	if !f.Outcomes.permissive() {
		code := strings.ToLower(strings.TrimSpace(outcome))
		found := false
		for _, label := range f.Outcomes.Labels {
			if OutcomeCode(label) == code {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if !f.Responses.permissive() {
		if response == nil {
			return false
		}
		got := strings.ToLower(strings.TrimSpace(*response))
		found := false
		for _, label := range f.Responses.Labels {
			if strings.ToLower(strings.TrimSpace(label)) == got {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// Validate rejects explicitly empty label sets. A set that was never chosen
// (nil) is fine and collapses to "all"; an explicit empty array is a
// malformed filter and must be refused before any write.
func (f TriggerFilter) Validate() error {
	if err := validateAxis("outcomes", f.Outcomes); err != nil {
		return err
	}
	return validateAxis("responses", f.Responses)
}

func validateAxis(field string, v FilterValue) error {
	if !v.All && v.Labels != nil && len(v.Labels) == 0 {
		return appErrors.NewValidation(field, "filter set cannot be empty; use \"all\" instead")
	}
	return nil
}

// normalize collapses no-choice axes to the sentinel.
func (f *TriggerFilter) normalize() {
	if f.Outcomes.permissive() {
		f.Outcomes = AllValue()
	}
	if f.Responses.permissive() {
		f.Responses = AllValue()
	}
}

// outcomeCodes maps the editor's display labels to stored outcome codes.
var outcomeCodes = map[string]string{
	"answered":     "answered",
	"no answer":    "no_answer",
	"voicemail":    "voicemail",
	"wrong number": "wrong_number",
	"do not call":  "do_not_call",
	"busy":         "busy",
}

// OutcomeCode maps a display label to its stored code. Unmapped labels fall
// back to the lower-cased, underscored form.
func OutcomeCode(label string) string {
	key := strings.ToLower(strings.TrimSpace(label))
	if code, ok := outcomeCodes[key]; ok {
		return code
	}
	return strings.ReplaceAll(key, " ", "_")
}
