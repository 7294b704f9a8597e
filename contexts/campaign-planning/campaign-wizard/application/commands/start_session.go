package commands

import (
	"context"
	"log/slog"
	"strings"

	application "brandpilot/contexts/campaign-planning/campaign-wizard/application"
	"brandpilot/contexts/campaign-planning/campaign-wizard/domain/entities"
	domainerrors "brandpilot/contexts/campaign-planning/campaign-wizard/domain/errors"
	"brandpilot/contexts/campaign-planning/campaign-wizard/ports"
)

type StartSessionCommand struct {
	CompanyID   string
	DraftID     string
	InitialStep int
}

type StartSessionUseCase struct {
	Sessions    ports.SessionRepository
	Drafts      ports.DraftRepository
	Profiles    ports.CompanyProfiles
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

type StartSessionResult struct {
	Session entities.WizardSession
}

// Execute creates a fresh session at step 1, or rehydrates one from an
// existing draft. When a draft supplies an initial step, every step before it
// is pre-marked completed so the gate state matches the persisted progress.
func (uc StartSessionUseCase) Execute(ctx context.Context, cmd StartSessionCommand) (StartSessionResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	now := uc.Clock.Now().UTC()

	sessionID, err := uc.IDGenerator.NewID(ctx)
	if err != nil {
		return StartSessionResult{}, err
	}

	session := entities.WizardSession{
		SessionID:   sessionID,
		CompanyID:   strings.TrimSpace(cmd.CompanyID),
		CurrentStep: entities.FirstStep,
		Status:      entities.SessionStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if draftID := strings.TrimSpace(cmd.DraftID); draftID != "" {
		draft, err := uc.Drafts.GetDraft(ctx, draftID)
		if err != nil {
			return StartSessionResult{}, err
		}
		session.DraftID = draft.DraftID
		session.CompanyID = draft.CompanyID
		session.Aggregate = draft.Data
	}

	if session.Aggregate.Company.Name == "" && uc.Profiles != nil {
		profile, err := uc.Profiles.GetProfile(ctx, session.CompanyID)
		if err != nil {
			return StartSessionResult{}, err
		}
		session.Aggregate.Company = profile
	}

	if cmd.InitialStep > entities.FirstStep {
		initial := cmd.InitialStep
		if initial > entities.LastStep {
			initial = entities.LastStep
		}
		if session.DraftID == "" {
			return StartSessionResult{}, domainerrors.ErrStepNotReachable
		}
		for step := entities.FirstStep; step < initial; step++ {
			session.MarkCompleted(step)
		}
		session.CurrentStep = initial
	}

	if err := uc.Sessions.CreateSession(ctx, session); err != nil {
		return StartSessionResult{}, err
	}

	logger.Info("wizard session started",
		"event", "wizard_session_started",
		"module", "campaign-planning/campaign-wizard",
		"layer", "application",
		"session_id", session.SessionID,
		"company_id", session.CompanyID,
		"current_step", session.CurrentStep,
		"hydrated_from_draft", session.DraftID != "",
	)
	return StartSessionResult{Session: session}, nil
}
