package commands

import (
	"context"
	"log/slog"
	"time"

	application "brandpilot/contexts/campaign-planning/campaign-wizard/application"
	"brandpilot/contexts/campaign-planning/campaign-wizard/domain/entities"
	domainerrors "brandpilot/contexts/campaign-planning/campaign-wizard/domain/errors"
	"brandpilot/contexts/campaign-planning/campaign-wizard/ports"
)

type CompleteStepCommand struct {
	SessionID string
	Payload   entities.StepPayload
}

// CompleteStepUseCase is the wizard controller's commit path: it routes a
// step's payload to its slot in the aggregate, marks the step completed,
// saves a draft snapshot and advances the step index. The draft save and the
// secondary store calls are best-effort; their failures become SaveWarnings
// on the session instead of blocking the merge.
type CompleteStepUseCase struct {
	Sessions   ports.SessionRepository
	Drafts     ports.DraftRepository
	Audiences  ports.AudienceStore
	Strategies ports.StrategyStore
	Calendars  ports.CalendarStore
	Outbox     ports.OutboxWriter
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

type CompleteStepResult struct {
	Session entities.WizardSession
}

func (uc CompleteStepUseCase) Execute(ctx context.Context, cmd CompleteStepCommand) (CompleteStepResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	session, err := uc.Sessions.GetSession(ctx, cmd.SessionID)
	if err != nil {
		return CompleteStepResult{}, err
	}
	if session.Status == entities.SessionStatusCompleted {
		return CompleteStepResult{}, domainerrors.ErrSessionCompleted
	}

	expectedKind, ok := entities.KindForStep(session.CurrentStep)
	if !ok {
		return CompleteStepResult{}, domainerrors.ErrStepNotReachable
	}
	if cmd.Payload.Kind != expectedKind {
		return CompleteStepResult{}, domainerrors.ErrStepKindMismatch
	}

	if err := mergePayload(&session, cmd.Payload); err != nil {
		return CompleteStepResult{}, err
	}

	now := uc.Clock.Now().UTC()
	completedStep := session.CurrentStep
	session.MarkCompleted(completedStep)
	if session.Preview != nil && session.Preview.Step == completedStep {
		session.Preview = nil
	}

	uc.runSideEffects(ctx, &session, cmd.Payload, now)
	uc.saveDraft(ctx, &session, string(expectedKind), now)

	if completedStep < entities.LastStep {
		session.CurrentStep = completedStep + 1
	} else {
		session.Status = entities.SessionStatusCompleted
		if err := uc.appendCompletionEvent(ctx, session, now); err != nil {
			return CompleteStepResult{}, err
		}
	}
	session.UpdatedAt = now

	if err := uc.Sessions.UpdateSession(ctx, session); err != nil {
		return CompleteStepResult{}, err
	}

	if completedStep == entities.LastStep {
		// The draft closes only after the session and its completion event
		// are durable, so an earlier failure never leaves a completed draft
		// behind an active session.
		warningsBefore := len(session.SaveWarnings)
		uc.finishDraft(ctx, &session, now)
		if len(session.SaveWarnings) > warningsBefore {
			if err := uc.Sessions.UpdateSession(ctx, session); err != nil {
				logger.Warn("draft completion warning not persisted",
					"event", "wizard_warning_dropped",
					"module", "campaign-planning/campaign-wizard",
					"layer", "application",
					"session_id", session.SessionID,
					"error", err.Error(),
				)
			}
		}
	}

	logger.Info("wizard step completed",
		"event", "wizard_step_completed",
		"module", "campaign-planning/campaign-wizard",
		"layer", "application",
		"session_id", session.SessionID,
		"step", completedStep,
		"step_kind", string(expectedKind),
		"current_step", session.CurrentStep,
		"session_status", string(session.Status),
	)
	return CompleteStepResult{Session: session}, nil
}

// mergePayload writes the payload into the aggregate slot owned by its kind.
// The objective slot merges over the previous value; every other slot is a
// full replacement.
func mergePayload(session *entities.WizardSession, payload entities.StepPayload) error {
	switch payload.Kind {
	case entities.StepObjective:
		if payload.Objective == nil {
			return domainerrors.ErrInvalidStepPayload
		}
		if !payload.Objective.HasRequiredFields() {
			return domainerrors.ErrMissingObjective
		}
		session.Aggregate.Objective = session.Aggregate.Objective.Apply(*payload.Objective)
	case entities.StepAudience:
		if payload.Audience == nil {
			return domainerrors.ErrInvalidStepPayload
		}
		if len(payload.Audience.Normalized()) == 0 {
			return domainerrors.ErrNoAudienceSelected
		}
		session.Aggregate.Audience = *payload.Audience
	case entities.StepStrategy:
		if payload.Strategy == nil {
			return domainerrors.ErrInvalidStepPayload
		}
		session.Aggregate.Strategy = *payload.Strategy
	case entities.StepCalendar:
		calendar := payload.Calendar
		if calendar == nil {
			// Confirming the edited working copy produced by the calendar step.
			calendar = session.PendingCalendar
		}
		if calendar == nil {
			return domainerrors.ErrInvalidStepPayload
		}
		session.Aggregate.Calendar = *calendar
		session.PendingCalendar = nil
	case entities.StepContent:
		if payload.Content == nil {
			return domainerrors.ErrInvalidStepPayload
		}
		session.Aggregate.Content = payload.Content
	case entities.StepSchedule:
		if payload.Schedule == nil {
			return domainerrors.ErrInvalidStepPayload
		}
		session.Aggregate.Schedule = payload.Schedule
	case entities.StepMeasurement:
		if payload.Measurement == nil {
			return domainerrors.ErrInvalidStepPayload
		}
		session.Aggregate.Measurements = *payload.Measurement
	default:
		return domainerrors.ErrStepKindMismatch
	}
	return nil
}

// runSideEffects stores the audience, strategy and calendar rows the later
// steps reference by id. Every call here is best-effort: a failure lands in
// SaveWarnings and never rolls back the in-memory merge.
func (uc CompleteStepUseCase) runSideEffects(
	ctx context.Context,
	session *entities.WizardSession,
	payload entities.StepPayload,
	now time.Time,
) {
	switch payload.Kind {
	case entities.StepAudience:
		if uc.Audiences == nil || payload.Audience == nil || payload.Audience.Analysis == "" {
			return
		}
		if _, err := uc.Audiences.StoreAudience(ctx, session.Aggregate.Company, *payload.Audience); err != nil {
			session.RecordWarning("store_target_audience", err, now)
		}
	case entities.StepStrategy:
		if uc.Strategies == nil || payload.Strategy == nil {
			return
		}
		strategyID, err := uc.Strategies.StoreStrategy(ctx, session.Aggregate.Company, *payload.Strategy)
		if err != nil {
			session.RecordWarning("store_marketing_strategy", err, now)
			return
		}
		session.StrategyID = strategyID
	case entities.StepCalendar:
		if uc.Calendars == nil || len(session.Aggregate.Calendar.Items) == 0 || session.StrategyID == "" {
			return
		}
		calendarID, err := uc.Calendars.StoreCalendar(ctx, session.StrategyID, session.Aggregate.Calendar)
		if err != nil {
			session.RecordWarning("store_content_calendar", err, now)
			return
		}
		session.CalendarID = calendarID
	}
}

func (uc CompleteStepUseCase) saveDraft(
	ctx context.Context,
	session *entities.WizardSession,
	stepName string,
	now time.Time,
) {
	if uc.Drafts == nil {
		return
	}
	draftID, err := uc.Drafts.UpsertDraft(ctx, session.DraftID, session.CompanyID, session.Aggregate, stepName)
	if err != nil {
		session.RecordWarning("save_campaign_draft", err, now)
		return
	}
	session.DraftID = draftID
}

func (uc CompleteStepUseCase) finishDraft(ctx context.Context, session *entities.WizardSession, now time.Time) {
	if uc.Drafts == nil || session.DraftID == "" {
		return
	}
	if err := uc.Drafts.CompleteDraft(ctx, session.DraftID, now); err != nil {
		session.RecordWarning("complete_campaign_draft", err, now)
	}
}

func (uc CompleteStepUseCase) appendCompletionEvent(
	ctx context.Context,
	session entities.WizardSession,
	now time.Time,
) error {
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := newWizardEnvelope(
		eventID,
		"campaign.wizard_completed",
		session.SessionID,
		now,
		map[string]any{
			"session_id":    session.SessionID,
			"company_id":    session.CompanyID,
			"draft_id":      session.DraftID,
			"campaign_name": session.Aggregate.Objective.Name,
		},
	)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}
