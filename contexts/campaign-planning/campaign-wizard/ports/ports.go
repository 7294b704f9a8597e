package ports

import (
	"context"
	"time"

	"brandpilot/contexts/campaign-planning/campaign-wizard/domain/entities"
	contractsv1 "brandpilot/contracts/gen/events/v1"
)

type SessionRepository interface {
	CreateSession(ctx context.Context, session entities.WizardSession) error
	GetSession(ctx context.Context, sessionID string) (entities.WizardSession, error)
	UpdateSession(ctx context.Context, session entities.WizardSession) error
}

type DraftRecord struct {
	DraftID   string
	CompanyID string
	StepName  string
	Data      entities.CampaignData
	Completed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type DraftFilter struct {
	CompanyID string
	Completed *bool
}

// DraftRepository persists campaign snapshots. UpsertDraft creates a row when
// draftID is empty and returns the identifier to reuse on later saves.
type DraftRepository interface {
	UpsertDraft(ctx context.Context, draftID string, companyID string, data entities.CampaignData, stepName string) (string, error)
	CompleteDraft(ctx context.Context, draftID string, completedAt time.Time) error
	GetDraft(ctx context.Context, draftID string) (DraftRecord, error)
	ListDrafts(ctx context.Context, filter DraftFilter) ([]DraftRecord, error)
}

// Stores for the secondary persistence rows written as step side effects.
// Each returns an opaque identifier consumed as a foreign key by later steps.
type AudienceStore interface {
	StoreAudience(ctx context.Context, company entities.CompanySnapshot, selection entities.AudienceSelection) (string, error)
}

type StrategyStore interface {
	StoreStrategy(ctx context.Context, company entities.CompanySnapshot, strategy entities.Strategy) (string, error)
}

type CalendarStore interface {
	StoreCalendar(ctx context.Context, strategyID string, calendar entities.Calendar) (string, error)
}

type CompanyProfiles interface {
	GetProfile(ctx context.Context, companyID string) (entities.CompanySnapshot, error)
}

type StrategyInput struct {
	Company   entities.CompanySnapshot
	Objective entities.Objective
	Audiences []entities.Persona
}

type StrategyGenerator interface {
	GenerateStrategy(ctx context.Context, input StrategyInput) (entities.Strategy, error)
}

type CalendarInput struct {
	Company      entities.CompanySnapshot
	Strategy     entities.Strategy
	Platforms    []string
	StartDate    string
	DurationDays int
}

type CalendarGenerator interface {
	GenerateCalendar(ctx context.Context, input CalendarInput) (entities.Calendar, error)
}

type ContentInput struct {
	BrandTone string
	Persona   entities.Persona
	Item      entities.CalendarItem
}

type ContentResult struct {
	Text     string
	MediaURL string
}

type ContentGenerator interface {
	GenerateText(ctx context.Context, input ContentInput) (ContentResult, error)
	GenerateImage(ctx context.Context, input ContentInput) (ContentResult, error)
	GenerateVideo(ctx context.Context, input ContentInput) (ContentResult, error)
}

type PostRequest struct {
	CompanyUsername string
	Platforms       []string
	Title           string
	Content         string
	MediaURLs       []string
	PostType        string
	ScheduledAt     time.Time
	AsyncUpload     bool
}

type PostScheduler interface {
	SchedulePost(ctx context.Context, request PostRequest) (string, error)
}

type Analytics interface {
	Snapshot(ctx context.Context, companyID string) (entities.Measurements, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type EventEnvelope = contractsv1.Envelope

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, EventEnvelope) error,
	) error
}
