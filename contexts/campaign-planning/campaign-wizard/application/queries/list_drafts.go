package queries

import (
	"context"
	"log/slog"
	"strings"

	"brandpilot/contexts/campaign-planning/campaign-wizard/ports"
)

type ListDraftsQuery struct {
	CompanyID string
	Completed *bool
}

type ListDraftsUseCase struct {
	Drafts ports.DraftRepository
	Logger *slog.Logger
}

func (uc ListDraftsUseCase) Execute(ctx context.Context, query ListDraftsQuery) ([]ports.DraftRecord, error) {
	return uc.Drafts.ListDrafts(ctx, ports.DraftFilter{
		CompanyID: strings.TrimSpace(query.CompanyID),
		Completed: query.Completed,
	})
}
