package entities

import (
	"encoding/json"
	"time"
)

type StepKind string

const (
	StepObjective   StepKind = "objective"
	StepAudience    StepKind = "audience"
	StepStrategy    StepKind = "strategy"
	StepCalendar    StepKind = "calendar"
	StepContent     StepKind = "content"
	StepSchedule    StepKind = "schedule"
	StepMeasurement StepKind = "measurement"
)

const (
	FirstStep = 1
	LastStep  = 7
)

var stepKinds = [LastStep]StepKind{
	StepObjective,
	StepAudience,
	StepStrategy,
	StepCalendar,
	StepContent,
	StepSchedule,
	StepMeasurement,
}

func KindForStep(step int) (StepKind, bool) {
	if step < FirstStep || step > LastStep {
		return "", false
	}
	return stepKinds[step-1], true
}

func StepForKind(kind StepKind) (int, bool) {
	for index, candidate := range stepKinds {
		if candidate == kind {
			return index + 1, true
		}
	}
	return 0, false
}

// StepPayload is the tagged union a step emits on completion. Exactly the
// slot matching Kind is expected to be populated; CompleteStep dispatches on
// Kind rather than on the numeric step index.
type StepPayload struct {
	Kind        StepKind
	Objective   *ObjectivePatch
	Audience    *AudienceSelection
	Strategy    *Strategy
	Calendar    *Calendar
	Content     []ContentItem
	Schedule    []ScheduledPost
	Measurement *Measurements
}

type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
)

// SaveWarning records a best-effort persistence call that failed without
// blocking step completion.
type SaveWarning struct {
	Operation  string
	Message    string
	OccurredAt time.Time
}

// StepPreview mirrors a step's in-progress edits for display. It is distinct
// from the committed aggregate and is only flushed into the draft snapshot
// when the user navigates backwards.
type StepPreview struct {
	Step int
	Data json.RawMessage
}

// WizardSession owns the wizard's position, the gate state and the aggregate.
// All mutation goes through the command use cases; steps never write the
// aggregate directly.
type WizardSession struct {
	SessionID       string
	CompanyID       string
	CurrentStep     int
	CompletedSteps  []int
	DraftID         string
	StrategyID      string
	CalendarID      string
	Aggregate       CampaignData
	PendingCalendar *Calendar
	Preview         *StepPreview
	SaveWarnings    []SaveWarning
	Status          SessionStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (s WizardSession) StepCompleted(step int) bool {
	for _, completed := range s.CompletedSteps {
		if completed == step {
			return true
		}
	}
	return false
}

func (s *WizardSession) MarkCompleted(step int) {
	if s.StepCompleted(step) {
		return
	}
	s.CompletedSteps = append(s.CompletedSteps, step)
}

// CanProceed gates direct navigation: a step is reachable once its
// predecessor has been completed at least once. Step 1 is always reachable.
func (s WizardSession) CanProceed(step int) bool {
	if step < FirstStep || step > LastStep {
		return false
	}
	if step == FirstStep {
		return true
	}
	return s.StepCompleted(step - 1)
}

func (s *WizardSession) RecordWarning(operation string, err error, now time.Time) {
	s.SaveWarnings = append(s.SaveWarnings, SaveWarning{
		Operation:  operation,
		Message:    err.Error(),
		OccurredAt: now.UTC(),
	})
}
