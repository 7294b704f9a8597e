package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"brandpilot/contexts/campaign-planning/campaign-wizard/domain/entities"
	domainerrors "brandpilot/contexts/campaign-planning/campaign-wizard/domain/errors"
	"brandpilot/contexts/campaign-planning/campaign-wizard/ports"

	"github.com/google/uuid"
)

// Store implements every wizard port in memory. It backs the in-memory
// module used by tests and local development; the generator methods return
// deterministic canned artifacts derived from their inputs.
type Store struct {
	mu sync.RWMutex

	sessions   map[string]entities.WizardSession
	drafts     map[string]ports.DraftRecord
	profiles   map[string]entities.CompanySnapshot
	audiences  map[string]entities.AudienceSelection
	strategies map[string]entities.Strategy
	calendars  map[string]entities.Calendar
	outbox     []ports.OutboxMessage
	published  map[string]time.Time

	scheduledJobs int
}

func NewStore(profiles []entities.CompanySnapshot) *Store {
	indexed := make(map[string]entities.CompanySnapshot, len(profiles))
	for _, profile := range profiles {
		indexed[profile.CompanyID] = profile
	}
	return &Store{
		sessions:   make(map[string]entities.WizardSession),
		drafts:     make(map[string]ports.DraftRecord),
		profiles:   indexed,
		audiences:  make(map[string]entities.AudienceSelection),
		strategies: make(map[string]entities.Strategy),
		calendars:  make(map[string]entities.Calendar),
		published:  make(map[string]time.Time),
	}
}

func (s *Store) CreateSession(_ context.Context, session entities.WizardSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.SessionID]; exists {
		return domainerrors.ErrInvalidStepPayload
	}
	s.sessions[session.SessionID] = cloneSession(session)
	return nil
}

func (s *Store) GetSession(_ context.Context, sessionID string) (entities.WizardSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, exists := s.sessions[strings.TrimSpace(sessionID)]
	if !exists {
		return entities.WizardSession{}, domainerrors.ErrSessionNotFound
	}
	return cloneSession(session), nil
}

func (s *Store) UpdateSession(_ context.Context, session entities.WizardSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.SessionID]; !exists {
		return domainerrors.ErrSessionNotFound
	}
	s.sessions[session.SessionID] = cloneSession(session)
	return nil
}

func (s *Store) UpsertDraft(
	_ context.Context,
	draftID string,
	companyID string,
	data entities.CampaignData,
	stepName string,
) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	draftID = strings.TrimSpace(draftID)
	if draftID == "" {
		draftID = uuid.NewString()
		s.drafts[draftID] = ports.DraftRecord{
			DraftID:   draftID,
			CompanyID: strings.TrimSpace(companyID),
			StepName:  stepName,
			Data:      data,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return draftID, nil
	}

	record, exists := s.drafts[draftID]
	if !exists {
		return "", domainerrors.ErrDraftNotFound
	}
	record.Data = data
	record.StepName = stepName
	record.UpdatedAt = now
	s.drafts[draftID] = record
	return draftID, nil
}

func (s *Store) CompleteDraft(_ context.Context, draftID string, completedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.drafts[strings.TrimSpace(draftID)]
	if !exists {
		return domainerrors.ErrDraftNotFound
	}
	record.Completed = true
	record.UpdatedAt = completedAt.UTC()
	s.drafts[record.DraftID] = record
	return nil
}

func (s *Store) GetDraft(_ context.Context, draftID string) (ports.DraftRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, exists := s.drafts[strings.TrimSpace(draftID)]
	if !exists {
		return ports.DraftRecord{}, domainerrors.ErrDraftNotFound
	}
	return record, nil
}

func (s *Store) ListDrafts(_ context.Context, filter ports.DraftFilter) ([]ports.DraftRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]ports.DraftRecord, 0, len(s.drafts))
	for _, record := range s.drafts {
		if filter.CompanyID != "" && record.CompanyID != filter.CompanyID {
			continue
		}
		if filter.Completed != nil && record.Completed != *filter.Completed {
			continue
		}
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].UpdatedAt.After(records[j].UpdatedAt)
	})
	return records, nil
}

func (s *Store) GetProfile(_ context.Context, companyID string) (entities.CompanySnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, exists := s.profiles[strings.TrimSpace(companyID)]
	if !exists {
		return entities.CompanySnapshot{}, domainerrors.ErrMissingCompanyProfile
	}
	return profile, nil
}

func (s *Store) StoreAudience(_ context.Context, _ entities.CompanySnapshot, selection entities.AudienceSelection) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	audienceID := uuid.NewString()
	s.audiences[audienceID] = selection
	return audienceID, nil
}

func (s *Store) StoreStrategy(_ context.Context, _ entities.CompanySnapshot, strategy entities.Strategy) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	strategyID := uuid.NewString()
	s.strategies[strategyID] = strategy
	return strategyID, nil
}

func (s *Store) StoreCalendar(_ context.Context, _ string, calendar entities.Calendar) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	calendarID := uuid.NewString()
	s.calendars[calendarID] = calendar
	return calendarID, nil
}

func (s *Store) GenerateStrategy(_ context.Context, input ports.StrategyInput) (entities.Strategy, error) {
	pillars := []string{"education", "social proof"}
	if persona := firstPersona(input.Audiences); persona != "" {
		pillars = append(pillars, "stories for "+persona)
	}
	return entities.Strategy{
		Positioning:    fmt.Sprintf("%s, positioned on %s", input.Company.Name, input.Company.ValueProposition),
		ToneOfVoice:    "confident",
		ContentPillars: pillars,
		PlatformFocus:  []string{"instagram", "linkedin"},
		KeyMessages:    []string{input.Company.BusinessObjective},
	}, nil
}

func (s *Store) GenerateCalendar(_ context.Context, input ports.CalendarInput) (entities.Calendar, error) {
	startDate, err := time.Parse("2006-01-02", input.StartDate)
	if err != nil {
		startDate = time.Now().UTC().AddDate(0, 0, 2)
	}
	duration := input.DurationDays
	if duration <= 0 {
		duration = 7
	}

	stages := []entities.FunnelStage{
		entities.FunnelStageAwareness,
		entities.FunnelStageConsideration,
		entities.FunnelStageConversion,
		entities.FunnelStageLoyalty,
	}
	types := []entities.ContentType{
		entities.ContentTypeText,
		entities.ContentTypeImage,
		entities.ContentTypeVideo,
	}

	items := make([]entities.CalendarItem, 0, duration*len(input.Platforms))
	for day := 0; day < duration; day++ {
		for pi, platform := range input.Platforms {
			contentType := types[(day+pi)%len(types)]
			if !entities.PlatformAcceptsContentType(platform, contentType) {
				contentType = entities.ContentTypeVideo
			}
			items = append(items, entities.CalendarItem{
				ItemID:      uuid.NewString(),
				Platform:    platform,
				Date:        startDate.AddDate(0, 0, day).Format("2006-01-02"),
				Time:        "10:00",
				ContentType: contentType,
				FunnelStage: stages[day%len(stages)],
				Hook:        fmt.Sprintf("Day %d on %s", day+1, platform),
				Copy:        "Draft copy pending generation",
			})
		}
	}
	return entities.Calendar{
		Items:             items,
		SelectedPlatforms: append([]string(nil), input.Platforms...),
		DurationDays:      duration,
		StartDate:         startDate.Format("2006-01-02"),
	}, nil
}

func (s *Store) GenerateText(_ context.Context, input ports.ContentInput) (ports.ContentResult, error) {
	return ports.ContentResult{
		Text: fmt.Sprintf("%s: %s", input.Item.Hook, input.Item.Copy),
	}, nil
}

func (s *Store) GenerateImage(_ context.Context, input ports.ContentInput) (ports.ContentResult, error) {
	return ports.ContentResult{
		Text:     input.Item.Copy,
		MediaURL: "https://cdn.example.com/generated/" + input.Item.ItemID + ".png",
	}, nil
}

func (s *Store) GenerateVideo(_ context.Context, input ports.ContentInput) (ports.ContentResult, error) {
	return ports.ContentResult{
		Text:     input.Item.Copy,
		MediaURL: "https://cdn.example.com/generated/" + input.Item.ItemID + ".mp4",
	}, nil
}

func (s *Store) SchedulePost(_ context.Context, _ ports.PostRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scheduledJobs++
	return fmt.Sprintf("job-%d", s.scheduledJobs), nil
}

func (s *Store) Snapshot(_ context.Context, _ string) (entities.Measurements, error) {
	return entities.Measurements{
		TotalReach:     12500,
		Engagements:    640,
		EngagementRate: 5.12,
		FollowersDelta: 85,
		ByPlatform: []entities.PlatformMetrics{
			{Platform: "instagram", Reach: 8000, Engagements: 420},
			{Platform: "linkedin", Reach: 4500, Engagements: 220},
		},
		CapturedAt: time.Now().UTC(),
	}, nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	s.outbox = append(s.outbox, ports.OutboxMessage{
		OutboxID:     envelope.EventID,
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		CreatedAt:    envelope.OccurredAt.UTC(),
	})
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pending := make([]ports.OutboxMessage, 0, limit)
	for _, message := range s.outbox {
		if _, done := s.published[message.OutboxID]; done {
			continue
		}
		pending = append(pending, message)
		if len(pending) == limit {
			break
		}
	}
	return pending, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.published[outboxID] = publishedAt.UTC()
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// cloneSession copies the slices and maps reachable from a session so callers
// never alias stored state through a returned value.
func cloneSession(session entities.WizardSession) entities.WizardSession {
	cloned := session
	cloned.CompletedSteps = append([]int(nil), session.CompletedSteps...)
	cloned.SaveWarnings = append([]entities.SaveWarning(nil), session.SaveWarnings...)
	cloned.Aggregate = cloneAggregate(session.Aggregate)
	if session.PendingCalendar != nil {
		pending := cloneCalendar(*session.PendingCalendar)
		cloned.PendingCalendar = &pending
	}
	if session.Preview != nil {
		preview := entities.StepPreview{
			Step: session.Preview.Step,
			Data: append(json.RawMessage(nil), session.Preview.Data...),
		}
		cloned.Preview = &preview
	}
	return cloned
}

func cloneAggregate(data entities.CampaignData) entities.CampaignData {
	cloned := data
	if data.Objective.TargetMetrics != nil {
		metrics := make(map[string]float64, len(data.Objective.TargetMetrics))
		for key, value := range data.Objective.TargetMetrics {
			metrics[key] = value
		}
		cloned.Objective.TargetMetrics = metrics
	}
	if data.Objective.Budget != nil {
		budget := *data.Objective.Budget
		cloned.Objective.Budget = &budget
	}
	cloned.Company.ActiveAccounts = append([]entities.SocialAccount(nil), data.Company.ActiveAccounts...)
	cloned.Audience.Personas = append([]entities.Persona(nil), data.Audience.Personas...)
	if data.Audience.Primary != nil {
		primary := *data.Audience.Primary
		cloned.Audience.Primary = &primary
	}
	cloned.Strategy.ContentPillars = append([]string(nil), data.Strategy.ContentPillars...)
	cloned.Strategy.PlatformFocus = append([]string(nil), data.Strategy.PlatformFocus...)
	cloned.Strategy.KeyMessages = append([]string(nil), data.Strategy.KeyMessages...)
	cloned.Calendar = cloneCalendar(data.Calendar)
	cloned.Content = append([]entities.ContentItem(nil), data.Content...)
	cloned.Schedule = append([]entities.ScheduledPost(nil), data.Schedule...)
	cloned.Measurements.ByPlatform = append([]entities.PlatformMetrics(nil), data.Measurements.ByPlatform...)
	return cloned
}

func cloneCalendar(calendar entities.Calendar) entities.Calendar {
	cloned := calendar
	cloned.Items = append([]entities.CalendarItem(nil), calendar.Items...)
	cloned.SelectedPlatforms = append([]string(nil), calendar.SelectedPlatforms...)
	return cloned
}

func firstPersona(personas []entities.Persona) string {
	if len(personas) == 0 {
		return ""
	}
	return personas[0].Name
}
