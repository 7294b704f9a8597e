package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	application "brandpilot/contexts/campaign-planning/campaign-wizard/application"
	"brandpilot/contexts/campaign-planning/campaign-wizard/domain/entities"
	domainerrors "brandpilot/contexts/campaign-planning/campaign-wizard/domain/errors"
	"brandpilot/contexts/campaign-planning/campaign-wizard/ports"
)

type SchedulePostsCommand struct {
	SessionID string
}

// SchedulePostsUseCase turns every successfully created content item into a
// scheduled post. Timestamps come from the calendar entry's date and time
// with the 25-hour lead correction applied; the platform capability table is
// checked before any remote call. Items fail individually and stay
// retryable.
type SchedulePostsUseCase struct {
	Sessions  ports.SessionRepository
	Scheduler ports.PostScheduler
	Clock     ports.Clock
	Throttle  time.Duration
	Logger    *slog.Logger
}

type SchedulePostsResult struct {
	Posts     []entities.ScheduledPost
	Succeeded int
	Total     int
}

func (uc SchedulePostsUseCase) Execute(ctx context.Context, cmd SchedulePostsCommand) (SchedulePostsResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	session, err := uc.Sessions.GetSession(ctx, cmd.SessionID)
	if err != nil {
		return SchedulePostsResult{}, err
	}

	created := entities.CompletedContent(session.Aggregate.Content)
	if len(created) == 0 {
		return SchedulePostsResult{}, domainerrors.ErrNoContentCreated
	}

	now := uc.Clock.Now().UTC()
	posts := make([]entities.ScheduledPost, 0, len(created))
	succeeded := 0
	for index, content := range created {
		if index > 0 {
			if err := pause(ctx, uc.Throttle); err != nil {
				return SchedulePostsResult{}, err
			}
		}
		post := uc.scheduleOne(ctx, session, content, now)
		if post.Status == entities.ScheduleStatusScheduled {
			succeeded++
		} else {
			logger.Warn("post scheduling failed",
				"event", "wizard_schedule_item_failed",
				"module", "campaign-planning/campaign-wizard",
				"layer", "application",
				"session_id", session.SessionID,
				"item_id", post.ItemID,
				"platform", post.Platform,
				"error", post.Error,
			)
		}
		posts = append(posts, post)
	}

	logger.Info("scheduling batch finished",
		"event", "wizard_posts_scheduled",
		"module", "campaign-planning/campaign-wizard",
		"layer", "application",
		"session_id", session.SessionID,
		"succeeded", succeeded,
		"total", len(created),
	)
	return SchedulePostsResult{
		Posts:     posts,
		Succeeded: succeeded,
		Total:     len(created),
	}, nil
}

func (uc SchedulePostsUseCase) scheduleOne(
	ctx context.Context,
	session entities.WizardSession,
	content entities.ContentItem,
	now time.Time,
) entities.ScheduledPost {
	post := entities.ScheduledPost{
		ItemID:      content.ItemID,
		Platform:    content.Platform,
		ContentType: content.ContentType,
		Status:      entities.ScheduleStatusFailed,
	}

	entry, found := session.Aggregate.Calendar.ItemByID(content.ItemID)
	if !found {
		post.Error = domainerrors.ErrCalendarItemNotFound.Error()
		return post
	}
	if !entities.PlatformAcceptsContentType(entry.Platform, content.ContentType) {
		post.Error = fmt.Sprintf("%s: %s does not accept %s posts",
			domainerrors.ErrUnsupportedContentType.Error(), entry.Platform, content.ContentType)
		return post
	}

	scheduledAt, err := entities.ScheduleTimeFor(entry.Date, entry.Time, now)
	if err != nil {
		post.Error = err.Error()
		return post
	}
	post.ScheduledAt = scheduledAt

	jobID, err := uc.Scheduler.SchedulePost(ctx, ports.PostRequest{
		CompanyUsername: session.Aggregate.Company.PrimaryUsername(),
		Platforms:       []string{entry.Platform},
		Title:           entry.Hook,
		Content:         content.Text,
		MediaURLs:       mediaURLs(content),
		PostType:        string(content.ContentType),
		ScheduledAt:     scheduledAt,
		AsyncUpload:     content.ContentType == entities.ContentTypeVideo,
	})
	if err != nil {
		post.Error = fmt.Sprintf("%s: %v", domainerrors.ErrSchedulingFailed.Error(), err)
		return post
	}

	post.JobID = jobID
	post.Status = entities.ScheduleStatusScheduled
	post.Error = ""
	return post
}

type RetryScheduledPostCommand struct {
	SessionID string
	ItemID    string
}

// RetryScheduledPostUseCase re-attempts one failed scheduled post. Success
// flips the entry to scheduled in place; no second entry is ever created for
// the same calendar item.
type RetryScheduledPostUseCase struct {
	Sessions  ports.SessionRepository
	Scheduler ports.PostScheduler
	Clock     ports.Clock
	Logger    *slog.Logger
}

type RetryScheduledPostResult struct {
	Post entities.ScheduledPost
}

func (uc RetryScheduledPostUseCase) Execute(ctx context.Context, cmd RetryScheduledPostCommand) (RetryScheduledPostResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	session, err := uc.Sessions.GetSession(ctx, cmd.SessionID)
	if err != nil {
		return RetryScheduledPostResult{}, err
	}

	index, found := entities.FindScheduledPost(session.Aggregate.Schedule, cmd.ItemID)
	if !found {
		return RetryScheduledPostResult{}, domainerrors.ErrScheduleItemNotFound
	}
	if session.Aggregate.Schedule[index].Status != entities.ScheduleStatusFailed {
		return RetryScheduledPostResult{}, domainerrors.ErrRetryNotFailed
	}

	var content entities.ContentItem
	contentFound := false
	for _, item := range session.Aggregate.Content {
		if item.ItemID == cmd.ItemID {
			content = item
			contentFound = true
			break
		}
	}
	if !contentFound {
		return RetryScheduledPostResult{}, domainerrors.ErrScheduleItemNotFound
	}

	now := uc.Clock.Now().UTC()
	retried := uc.retryDelegate().scheduleOne(ctx, session, content, now)
	retried.RetryCount = session.Aggregate.Schedule[index].RetryCount + 1
	if retried.Status == entities.ScheduleStatusFailed && retried.Error == "" {
		retried.Error = session.Aggregate.Schedule[index].Error
	}
	session.Aggregate.Schedule[index] = retried
	session.UpdatedAt = now

	if err := uc.Sessions.UpdateSession(ctx, session); err != nil {
		return RetryScheduledPostResult{}, err
	}

	logger.Info("scheduled post retried",
		"event", "wizard_schedule_retried",
		"module", "campaign-planning/campaign-wizard",
		"layer", "application",
		"session_id", session.SessionID,
		"item_id", cmd.ItemID,
		"status", string(retried.Status),
		"retry_count", retried.RetryCount,
	)
	return RetryScheduledPostResult{Post: retried}, nil
}

func (uc RetryScheduledPostUseCase) retryDelegate() SchedulePostsUseCase {
	return SchedulePostsUseCase{
		Sessions:  uc.Sessions,
		Scheduler: uc.Scheduler,
		Clock:     uc.Clock,
		Logger:    uc.Logger,
	}
}

type RemoveScheduledPostCommand struct {
	SessionID string
	ItemID    string
}

type RemoveScheduledPostUseCase struct {
	Sessions ports.SessionRepository
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (uc RemoveScheduledPostUseCase) Execute(ctx context.Context, cmd RemoveScheduledPostCommand) error {
	session, err := uc.Sessions.GetSession(ctx, cmd.SessionID)
	if err != nil {
		return err
	}

	index, found := entities.FindScheduledPost(session.Aggregate.Schedule, cmd.ItemID)
	if !found {
		return domainerrors.ErrScheduleItemNotFound
	}
	session.Aggregate.Schedule = append(
		session.Aggregate.Schedule[:index],
		session.Aggregate.Schedule[index+1:]...,
	)
	session.UpdatedAt = uc.Clock.Now().UTC()
	return uc.Sessions.UpdateSession(ctx, session)
}

func mediaURLs(content entities.ContentItem) []string {
	if content.MediaURL == "" {
		return nil
	}
	return []string{content.MediaURL}
}
