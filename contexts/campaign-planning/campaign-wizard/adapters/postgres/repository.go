package postgresadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"brandpilot/contexts/campaign-planning/campaign-wizard/domain/entities"
	domainerrors "brandpilot/contexts/campaign-planning/campaign-wizard/domain/errors"
	"brandpilot/contexts/campaign-planning/campaign-wizard/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateSession(ctx context.Context, session entities.WizardSession) error {
	row, err := sessionModelFromEntity(session)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidStepPayload
		}
		return err
	}
	return nil
}

func (r *Repository) GetSession(ctx context.Context, sessionID string) (entities.WizardSession, error) {
	var row sessionModel
	err := r.db.WithContext(ctx).
		Where("session_id = ?", strings.TrimSpace(sessionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.WizardSession{}, domainerrors.ErrSessionNotFound
		}
		return entities.WizardSession{}, err
	}
	return row.toEntity()
}

func (r *Repository) UpdateSession(ctx context.Context, session entities.WizardSession) error {
	row, err := sessionModelFromEntity(session)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&sessionModel{}).
		Where("session_id = ?", row.SessionID).
		Updates(map[string]any{
			"company_id":       row.CompanyID,
			"current_step":     row.CurrentStep,
			"completed_steps":  row.CompletedSteps,
			"draft_id":         row.DraftID,
			"strategy_id":      row.StrategyID,
			"calendar_id":      row.CalendarID,
			"aggregate":        row.Aggregate,
			"pending_calendar": row.PendingCalendar,
			"preview":          row.Preview,
			"save_warnings":    row.SaveWarnings,
			"status":           row.Status,
			"updated_at":       row.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrSessionNotFound
	}
	return nil
}

func (r *Repository) UpsertDraft(
	ctx context.Context,
	draftID string,
	companyID string,
	data entities.CampaignData,
	stepName string,
) (string, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	id := strings.TrimSpace(draftID)
	if id == "" {
		id = uuid.NewString()
	}

	row := draftModel{
		DraftID:   id,
		CompanyID: strings.TrimSpace(companyID),
		StepName:  strings.TrimSpace(stepName),
		Data:      payload,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "draft_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"step_name":  row.StepName,
				"data":       row.Data,
				"updated_at": now,
			}),
		}).
		Create(&row).
		Error
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *Repository) CompleteDraft(ctx context.Context, draftID string, completedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&draftModel{}).
		Where("draft_id = ?", strings.TrimSpace(draftID)).
		Updates(map[string]any{
			"completed":  true,
			"updated_at": completedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrDraftNotFound
	}
	return nil
}

func (r *Repository) GetDraft(ctx context.Context, draftID string) (ports.DraftRecord, error) {
	var row draftModel
	err := r.db.WithContext(ctx).
		Where("draft_id = ?", strings.TrimSpace(draftID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.DraftRecord{}, domainerrors.ErrDraftNotFound
		}
		return ports.DraftRecord{}, err
	}
	return row.toRecord()
}

func (r *Repository) ListDrafts(ctx context.Context, filter ports.DraftFilter) ([]ports.DraftRecord, error) {
	tx := r.db.WithContext(ctx).Model(&draftModel{})
	if strings.TrimSpace(filter.CompanyID) != "" {
		tx = tx.Where("company_id = ?", strings.TrimSpace(filter.CompanyID))
	}
	if filter.Completed != nil {
		tx = tx.Where("completed = ?", *filter.Completed)
	}

	var rows []draftModel
	if err := tx.Order("updated_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]ports.DraftRecord, 0, len(rows))
	for _, row := range rows {
		record, err := row.toRecord()
		if err != nil {
			return nil, err
		}
		items = append(items, record)
	}
	return items, nil
}

func (r *Repository) StoreAudience(
	ctx context.Context,
	company entities.CompanySnapshot,
	selection entities.AudienceSelection,
) (string, error) {
	payload, err := json.Marshal(selection)
	if err != nil {
		return "", err
	}
	row := audienceModel{
		AudienceID: uuid.NewString(),
		CompanyID:  strings.TrimSpace(company.CompanyID),
		Payload:    payload,
		CreatedAt:  time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", err
	}
	return row.AudienceID, nil
}

func (r *Repository) StoreStrategy(
	ctx context.Context,
	company entities.CompanySnapshot,
	strategy entities.Strategy,
) (string, error) {
	payload, err := json.Marshal(strategy)
	if err != nil {
		return "", err
	}
	row := strategyModel{
		StrategyID: uuid.NewString(),
		CompanyID:  strings.TrimSpace(company.CompanyID),
		Payload:    payload,
		CreatedAt:  time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", err
	}
	return row.StrategyID, nil
}

func (r *Repository) StoreCalendar(
	ctx context.Context,
	strategyID string,
	calendar entities.Calendar,
) (string, error) {
	payload, err := json.Marshal(calendar)
	if err != nil {
		return "", err
	}
	row := calendarModel{
		CalendarID: uuid.NewString(),
		StrategyID: strings.TrimSpace(strategyID),
		Payload:    payload,
		CreatedAt:  time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", err
	}
	return row.CalendarID, nil
}

func (r *Repository) GetProfile(ctx context.Context, companyID string) (entities.CompanySnapshot, error) {
	var row companyProfileModel
	err := r.db.WithContext(ctx).
		Where("company_id = ?", strings.TrimSpace(companyID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.CompanySnapshot{}, domainerrors.ErrMissingCompanyProfile
		}
		return entities.CompanySnapshot{}, err
	}
	return row.toEntity()
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	createResult := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "outbox_id"}},
			DoNothing: true,
		}).
		Create(&row)
	if createResult.Error != nil {
		return createResult.Error
	}
	if createResult.RowsAffected > 0 {
		return nil
	}

	var existing outboxModel
	if err := r.db.WithContext(ctx).
		Select("payload").
		Where("outbox_id = ?", row.OutboxID).
		First(&existing).
		Error; err != nil {
		return err
	}
	if !bytes.Equal(existing.Payload, row.Payload) {
		return domainerrors.ErrInvalidStepPayload
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrInvalidStepPayload
	}
	return nil
}

type sessionModel struct {
	SessionID       string    `gorm:"column:session_id;primaryKey"`
	CompanyID       string    `gorm:"column:company_id"`
	CurrentStep     int       `gorm:"column:current_step"`
	CompletedSteps  []byte    `gorm:"column:completed_steps;type:jsonb"`
	DraftID         string    `gorm:"column:draft_id"`
	StrategyID      string    `gorm:"column:strategy_id"`
	CalendarID      string    `gorm:"column:calendar_id"`
	Aggregate       []byte    `gorm:"column:aggregate;type:jsonb"`
	PendingCalendar []byte    `gorm:"column:pending_calendar;type:jsonb"`
	Preview         []byte    `gorm:"column:preview;type:jsonb"`
	SaveWarnings    []byte    `gorm:"column:save_warnings;type:jsonb"`
	Status          string    `gorm:"column:status"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (sessionModel) TableName() string {
	return "wizard_sessions"
}

func sessionModelFromEntity(session entities.WizardSession) (sessionModel, error) {
	completed, err := json.Marshal(session.CompletedSteps)
	if err != nil {
		return sessionModel{}, err
	}
	aggregate, err := json.Marshal(session.Aggregate)
	if err != nil {
		return sessionModel{}, err
	}

	row := sessionModel{
		SessionID:      strings.TrimSpace(session.SessionID),
		CompanyID:      strings.TrimSpace(session.CompanyID),
		CurrentStep:    session.CurrentStep,
		CompletedSteps: completed,
		DraftID:        strings.TrimSpace(session.DraftID),
		StrategyID:     strings.TrimSpace(session.StrategyID),
		CalendarID:     strings.TrimSpace(session.CalendarID),
		Aggregate:      aggregate,
		Status:         string(session.Status),
		CreatedAt:      session.CreatedAt.UTC(),
		UpdatedAt:      session.UpdatedAt.UTC(),
	}
	if session.PendingCalendar != nil {
		pending, err := json.Marshal(session.PendingCalendar)
		if err != nil {
			return sessionModel{}, err
		}
		row.PendingCalendar = pending
	}
	if session.Preview != nil {
		preview, err := json.Marshal(session.Preview)
		if err != nil {
			return sessionModel{}, err
		}
		row.Preview = preview
	}
	if len(session.SaveWarnings) > 0 {
		warnings, err := json.Marshal(session.SaveWarnings)
		if err != nil {
			return sessionModel{}, err
		}
		row.SaveWarnings = warnings
	}
	return row, nil
}

func (m sessionModel) toEntity() (entities.WizardSession, error) {
	session := entities.WizardSession{
		SessionID:   m.SessionID,
		CompanyID:   m.CompanyID,
		CurrentStep: m.CurrentStep,
		DraftID:     m.DraftID,
		StrategyID:  m.StrategyID,
		CalendarID:  m.CalendarID,
		Status:      entities.SessionStatus(m.Status),
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
	if len(m.CompletedSteps) > 0 {
		if err := json.Unmarshal(m.CompletedSteps, &session.CompletedSteps); err != nil {
			return entities.WizardSession{}, err
		}
	}
	if len(m.Aggregate) > 0 {
		if err := json.Unmarshal(m.Aggregate, &session.Aggregate); err != nil {
			return entities.WizardSession{}, err
		}
	}
	if len(m.PendingCalendar) > 0 {
		var pending entities.Calendar
		if err := json.Unmarshal(m.PendingCalendar, &pending); err != nil {
			return entities.WizardSession{}, err
		}
		session.PendingCalendar = &pending
	}
	if len(m.Preview) > 0 {
		var preview entities.StepPreview
		if err := json.Unmarshal(m.Preview, &preview); err != nil {
			return entities.WizardSession{}, err
		}
		session.Preview = &preview
	}
	if len(m.SaveWarnings) > 0 {
		if err := json.Unmarshal(m.SaveWarnings, &session.SaveWarnings); err != nil {
			return entities.WizardSession{}, err
		}
	}
	return session, nil
}

type draftModel struct {
	DraftID   string    `gorm:"column:draft_id;primaryKey"`
	CompanyID string    `gorm:"column:company_id"`
	StepName  string    `gorm:"column:step_name"`
	Data      []byte    `gorm:"column:data;type:jsonb"`
	Completed bool      `gorm:"column:completed"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (draftModel) TableName() string {
	return "campaign_drafts"
}

func (m draftModel) toRecord() (ports.DraftRecord, error) {
	record := ports.DraftRecord{
		DraftID:   m.DraftID,
		CompanyID: m.CompanyID,
		StepName:  m.StepName,
		Completed: m.Completed,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
	if len(m.Data) > 0 {
		if err := json.Unmarshal(m.Data, &record.Data); err != nil {
			return ports.DraftRecord{}, err
		}
	}
	return record, nil
}

type audienceModel struct {
	AudienceID string    `gorm:"column:audience_id;primaryKey"`
	CompanyID  string    `gorm:"column:company_id"`
	Payload    []byte    `gorm:"column:payload;type:jsonb"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (audienceModel) TableName() string {
	return "campaign_audiences"
}

type strategyModel struct {
	StrategyID string    `gorm:"column:strategy_id;primaryKey"`
	CompanyID  string    `gorm:"column:company_id"`
	Payload    []byte    `gorm:"column:payload;type:jsonb"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (strategyModel) TableName() string {
	return "campaign_strategies"
}

type calendarModel struct {
	CalendarID string    `gorm:"column:calendar_id;primaryKey"`
	StrategyID string    `gorm:"column:strategy_id"`
	Payload    []byte    `gorm:"column:payload;type:jsonb"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (calendarModel) TableName() string {
	return "campaign_calendars"
}

type companyProfileModel struct {
	CompanyID         string `gorm:"column:company_id;primaryKey"`
	Name              string `gorm:"column:name"`
	Country           string `gorm:"column:country"`
	BusinessObjective string `gorm:"column:business_objective"`
	ValueProposition  string `gorm:"column:value_proposition"`
	Website           string `gorm:"column:website"`
	ActiveAccounts    []byte `gorm:"column:active_accounts;type:jsonb"`
}

func (companyProfileModel) TableName() string {
	return "company_profiles"
}

func (m companyProfileModel) toEntity() (entities.CompanySnapshot, error) {
	company := entities.CompanySnapshot{
		CompanyID:         m.CompanyID,
		Name:              m.Name,
		Country:           m.Country,
		BusinessObjective: m.BusinessObjective,
		ValueProposition:  m.ValueProposition,
		Website:           m.Website,
	}
	if len(m.ActiveAccounts) > 0 {
		if err := json.Unmarshal(m.ActiveAccounts, &company.ActiveAccounts); err != nil {
			return entities.CompanySnapshot{}, err
		}
	}
	return company, nil
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload;type:jsonb"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "wizard_outbox"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
