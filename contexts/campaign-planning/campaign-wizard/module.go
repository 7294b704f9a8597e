package campaignwizard

import (
	"log/slog"
	"time"

	httpadapter "brandpilot/contexts/campaign-planning/campaign-wizard/adapters/http"
	"brandpilot/contexts/campaign-planning/campaign-wizard/adapters/memory"
	"brandpilot/contexts/campaign-planning/campaign-wizard/application/commands"
	"brandpilot/contexts/campaign-planning/campaign-wizard/application/queries"
	"brandpilot/contexts/campaign-planning/campaign-wizard/domain/entities"
	"brandpilot/contexts/campaign-planning/campaign-wizard/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Sessions        ports.SessionRepository
	Drafts          ports.DraftRepository
	Audiences       ports.AudienceStore
	Strategies      ports.StrategyStore
	Calendars       ports.CalendarStore
	Profiles        ports.CompanyProfiles
	StrategyGen     ports.StrategyGenerator
	CalendarGen     ports.CalendarGenerator
	ContentGen      ports.ContentGenerator
	Scheduler       ports.PostScheduler
	Analytics       ports.Analytics
	Outbox          ports.OutboxWriter
	Clock           ports.Clock
	IDGenerator     ports.IDGenerator
	GenerationPause time.Duration
	SchedulingPause time.Duration
	Logger          *slog.Logger
}

func NewModule(deps Dependencies) Module {
	startSession := commands.StartSessionUseCase{
		Sessions:    deps.Sessions,
		Drafts:      deps.Drafts,
		Profiles:    deps.Profiles,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	completeStep := commands.CompleteStepUseCase{
		Sessions:   deps.Sessions,
		Drafts:     deps.Drafts,
		Audiences:  deps.Audiences,
		Strategies: deps.Strategies,
		Calendars:  deps.Calendars,
		Outbox:     deps.Outbox,
		Clock:      deps.Clock,
		IDGen:      deps.IDGenerator,
		Logger:     deps.Logger,
	}
	navigate := commands.NavigateUseCase{
		Sessions: deps.Sessions,
		Drafts:   deps.Drafts,
		Clock:    deps.Clock,
		Logger:   deps.Logger,
	}
	updatePreview := commands.UpdatePreviewUseCase{
		Sessions: deps.Sessions,
		Clock:    deps.Clock,
	}
	generateStrategy := commands.GenerateStrategyUseCase{
		Sessions:  deps.Sessions,
		Generator: deps.StrategyGen,
		Logger:    deps.Logger,
	}
	generateCalendar := commands.GenerateCalendarUseCase{
		Sessions:  deps.Sessions,
		Generator: deps.CalendarGen,
		IDGen:     deps.IDGenerator,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	editCalendarItem := commands.EditCalendarItemUseCase{
		Sessions: deps.Sessions,
		Clock:    deps.Clock,
		Logger:   deps.Logger,
	}
	createContent := commands.CreateContentUseCase{
		Sessions:  deps.Sessions,
		Generator: deps.ContentGen,
		Throttle:  deps.GenerationPause,
		Logger:    deps.Logger,
	}
	schedulePosts := commands.SchedulePostsUseCase{
		Sessions:  deps.Sessions,
		Scheduler: deps.Scheduler,
		Clock:     deps.Clock,
		Throttle:  deps.SchedulingPause,
		Logger:    deps.Logger,
	}
	retrySchedule := commands.RetryScheduledPostUseCase{
		Sessions:  deps.Sessions,
		Scheduler: deps.Scheduler,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	removeSchedule := commands.RemoveScheduledPostUseCase{
		Sessions: deps.Sessions,
		Clock:    deps.Clock,
		Logger:   deps.Logger,
	}
	captureMeasurements := commands.CaptureMeasurementsUseCase{
		Sessions:  deps.Sessions,
		Analytics: deps.Analytics,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}

	getSession := queries.GetSessionUseCase{
		Sessions: deps.Sessions,
		Logger:   deps.Logger,
	}
	funnelDistribution := queries.FunnelDistributionUseCase{
		Sessions: deps.Sessions,
		Logger:   deps.Logger,
	}
	listDrafts := queries.ListDraftsUseCase{
		Drafts: deps.Drafts,
		Logger: deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			StartSession:        startSession,
			CompleteStep:        completeStep,
			Navigate:            navigate,
			UpdatePreview:       updatePreview,
			GenerateStrategy:    generateStrategy,
			GenerateCalendar:    generateCalendar,
			EditCalendarItem:    editCalendarItem,
			CreateContent:       createContent,
			SchedulePosts:       schedulePosts,
			RetrySchedule:       retrySchedule,
			RemoveSchedule:      removeSchedule,
			CaptureMeasurements: captureMeasurements,
			GetSession:          getSession,
			FunnelDistribution:  funnelDistribution,
			ListDrafts:          listDrafts,
			Logger:              deps.Logger,
		},
	}
}

// NewInMemoryModule wires the module against the memory store; used by tests
// and local development.
func NewInMemoryModule(profiles []entities.CompanySnapshot, logger *slog.Logger) Module {
	store := memory.NewStore(profiles)
	module := NewModule(Dependencies{
		Sessions:    store,
		Drafts:      store,
		Audiences:   store,
		Strategies:  store,
		Calendars:   store,
		Profiles:    store,
		StrategyGen: store,
		CalendarGen: store,
		ContentGen:  store,
		Scheduler:   store,
		Analytics:   store,
		Outbox:      store,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
