package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	application "brandpilot/contexts/campaign-planning/campaign-wizard/application"
	"brandpilot/contexts/campaign-planning/campaign-wizard/domain/entities"
	domainerrors "brandpilot/contexts/campaign-planning/campaign-wizard/domain/errors"
	"brandpilot/contexts/campaign-planning/campaign-wizard/ports"
)

type GenerateStrategyCommand struct {
	SessionID string
}

// GenerateStrategyUseCase is the strategy step's generation path. It checks
// the company-profile preconditions, normalizes the audience shapes into one
// array form and invokes the remote generator. The session is never mutated
// here; the result only enters the aggregate through CompleteStep.
type GenerateStrategyUseCase struct {
	Sessions  ports.SessionRepository
	Generator ports.StrategyGenerator
	Logger    *slog.Logger
}

type GenerateStrategyResult struct {
	Strategy entities.Strategy
}

func (uc GenerateStrategyUseCase) Execute(ctx context.Context, cmd GenerateStrategyCommand) (GenerateStrategyResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	session, err := uc.Sessions.GetSession(ctx, cmd.SessionID)
	if err != nil {
		return GenerateStrategyResult{}, err
	}

	if !session.Aggregate.Company.HasStrategyEssentials() {
		return GenerateStrategyResult{}, domainerrors.ErrMissingCompanyProfile
	}
	audiences := session.Aggregate.Audience.Normalized()
	if len(audiences) == 0 {
		return GenerateStrategyResult{}, domainerrors.ErrNoAudienceSelected
	}

	strategy, err := uc.Generator.GenerateStrategy(ctx, ports.StrategyInput{
		Company:   session.Aggregate.Company,
		Objective: session.Aggregate.Objective,
		Audiences: audiences,
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrRateLimited) {
			return GenerateStrategyResult{}, err
		}
		return GenerateStrategyResult{}, fmt.Errorf("%w: %v", domainerrors.ErrGenerationFailed, err)
	}

	logger.Info("marketing strategy generated",
		"event", "wizard_strategy_generated",
		"module", "campaign-planning/campaign-wizard",
		"layer", "application",
		"session_id", session.SessionID,
		"audience_count", len(audiences),
	)
	return GenerateStrategyResult{Strategy: strategy}, nil
}
