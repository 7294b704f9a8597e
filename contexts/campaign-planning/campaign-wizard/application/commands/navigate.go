package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "brandpilot/contexts/campaign-planning/campaign-wizard/application"
	"brandpilot/contexts/campaign-planning/campaign-wizard/domain/entities"
	domainerrors "brandpilot/contexts/campaign-planning/campaign-wizard/domain/errors"
	"brandpilot/contexts/campaign-planning/campaign-wizard/ports"
)

type NavigateAction string

const (
	NavigateActionGoTo NavigateAction = "goto"
	NavigateActionNext NavigateAction = "next"
	NavigateActionPrev NavigateAction = "prev"
)

type NavigateCommand struct {
	SessionID  string
	Action     NavigateAction
	TargetStep int
}

// NavigateUseCase moves the step index. Forward moves and direct jumps are
// gated on the predecessor being completed; backward moves are unconditional
// but flush the live preview into the draft first so in-progress edits
// survive leaving the step.
type NavigateUseCase struct {
	Sessions ports.SessionRepository
	Drafts   ports.DraftRepository
	Clock    ports.Clock
	Logger   *slog.Logger
}

type NavigateResult struct {
	Session entities.WizardSession
}

func (uc NavigateUseCase) Execute(ctx context.Context, cmd NavigateCommand) (NavigateResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	session, err := uc.Sessions.GetSession(ctx, cmd.SessionID)
	if err != nil {
		return NavigateResult{}, err
	}

	now := uc.Clock.Now().UTC()
	previous := session.CurrentStep

	switch cmd.Action {
	case NavigateActionGoTo:
		if !session.CanProceed(cmd.TargetStep) {
			return NavigateResult{}, domainerrors.ErrStepNotReachable
		}
		session.CurrentStep = cmd.TargetStep
	case NavigateActionNext:
		target := session.CurrentStep + 1
		if target > entities.LastStep {
			target = entities.LastStep
		}
		if !session.CanProceed(target) {
			return NavigateResult{}, domainerrors.ErrStepNotReachable
		}
		session.CurrentStep = target
	case NavigateActionPrev:
		uc.flushPreview(ctx, &session, now)
		if session.CurrentStep > entities.FirstStep {
			session.CurrentStep--
		}
	default:
		return NavigateResult{}, domainerrors.ErrStepNotReachable
	}

	session.UpdatedAt = now
	if err := uc.Sessions.UpdateSession(ctx, session); err != nil {
		return NavigateResult{}, err
	}

	logger.Info("wizard navigation",
		"event", "wizard_navigated",
		"module", "campaign-planning/campaign-wizard",
		"layer", "application",
		"session_id", session.SessionID,
		"action", string(cmd.Action),
		"from_step", previous,
		"to_step", session.CurrentStep,
	)
	return NavigateResult{Session: session}, nil
}

func (uc NavigateUseCase) flushPreview(ctx context.Context, session *entities.WizardSession, now time.Time) {
	if uc.Drafts == nil || session.Preview == nil {
		return
	}
	kind, ok := entities.KindForStep(session.Preview.Step)
	if !ok {
		return
	}
	draftID, err := uc.Drafts.UpsertDraft(ctx, session.DraftID, session.CompanyID, session.Aggregate, string(kind))
	if err != nil {
		session.RecordWarning("flush_step_preview", err, now)
		return
	}
	session.DraftID = draftID
}

type UpdatePreviewCommand struct {
	SessionID string
	Data      json.RawMessage
}

// UpdatePreviewUseCase records the live display mirror for the mounted step.
// Preview data never touches the committed aggregate.
type UpdatePreviewUseCase struct {
	Sessions ports.SessionRepository
	Clock    ports.Clock
}

func (uc UpdatePreviewUseCase) Execute(ctx context.Context, cmd UpdatePreviewCommand) error {
	session, err := uc.Sessions.GetSession(ctx, cmd.SessionID)
	if err != nil {
		return err
	}
	if session.Status == entities.SessionStatusCompleted {
		return domainerrors.ErrSessionCompleted
	}
	session.Preview = &entities.StepPreview{
		Step: session.CurrentStep,
		Data: append(json.RawMessage(nil), cmd.Data...),
	}
	session.UpdatedAt = uc.Clock.Now().UTC()
	return uc.Sessions.UpdateSession(ctx, session)
}
