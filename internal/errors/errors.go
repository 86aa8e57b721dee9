// internal/errors/errors.go
package appErrors

import "fmt"

// ErrCampaignNotFound is a sentinel error
type ErrCampaignNotFound struct {
	CampaignID string
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign %s not found", e.CampaignID)
}

// Helper constructor
func NewCampaignNotFound(id string) error {
	return &ErrCampaignNotFound{CampaignID: id}
}

// LoadFailure means the queue, campaign or workflow could not be read.
// Fatal to the current screen; nothing partial is rendered.
type LoadFailure struct {
	Op  string
	Err error
}

func (e *LoadFailure) Error() string {
	return fmt.Sprintf("load failed during %s: %v", e.Op, e.Err)
}

func (e *LoadFailure) Unwrap() error { return e.Err }

func NewLoadFailure(op string, err error) error {
	return &LoadFailure{Op: op, Err: err}
}

// PersistenceError means an upsert, insert or log append failed. Recoverable:
// the operator retries manually and the cursor does not advance.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func NewPersistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// NoMatchingContactsError means a spawn filter matched zero progress rows,
// so no follow-up campaign was created.
type NoMatchingContactsError struct {
	StepID string
}

func (e *NoMatchingContactsError) Error() string {
	return fmt.Sprintf("no contacts match the trigger filter of step %s", e.StepID)
}

func NewNoMatchingContacts(stepID string) error {
	return &NoMatchingContactsError{StepID: stepID}
}

// NoNextStepError means the workflow has no later call-type step to spawn.
type NoNextStepError struct {
	AfterStepID string
}

func (e *NoNextStepError) Error() string {
	if e.AfterStepID == "" {
		return "workflow has no next call step"
	}
	return fmt.Sprintf("workflow has no call step after %s", e.AfterStepID)
}

func NewNoNextStep(afterStepID string) error {
	return &NoNextStepError{AfterStepID: afterStepID}
}

// ValidationError rejects malformed input before any write.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
