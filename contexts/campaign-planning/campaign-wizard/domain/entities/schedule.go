package entities

import (
	"fmt"
	"strings"
	"time"
)

type ScheduleStatus string

const (
	ScheduleStatusScheduled ScheduleStatus = "scheduled"
	ScheduleStatusFailed    ScheduleStatus = "failed"
)

// minScheduleLead is the shortest distance from "now" a post may be scheduled
// at. Entries closer than this are pushed forward whole days, preserving the
// original time of day.
const minScheduleLead = 25 * time.Hour

type ScheduledPost struct {
	ItemID      string
	Platform    string
	ContentType ContentType
	ScheduledAt time.Time
	JobID       string
	Status      ScheduleStatus
	Error       string
	RetryCount  int
}

func IsSupportedPlatform(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "tiktok", "instagram", "youtube", "twitter", "facebook", "snapchat", "linkedin":
		return true
	default:
		return false
	}
}

// PlatformAcceptsContentType is the static capability table used to gate
// scheduling before any remote call is made.
func PlatformAcceptsContentType(platform string, contentType ContentType) bool {
	switch strings.ToLower(strings.TrimSpace(platform)) {
	case "tiktok", "youtube":
		return contentType == ContentTypeVideo
	case "instagram", "snapchat":
		return contentType == ContentTypeImage || contentType == ContentTypeVideo
	case "twitter", "facebook", "linkedin":
		return IsSupportedContentType(contentType)
	default:
		return false
	}
}

// ScheduleTimeFor computes the UTC timestamp for a calendar entry's date and
// time. Entries closer than 25 hours out are shifted to the next day at the
// same time, repeatedly if needed, so the result is always at least a full
// day in the future.
func ScheduleTimeFor(date string, timeOfDay string, now time.Time) (time.Time, error) {
	scheduled, err := time.Parse("2006-01-02 15:04", fmt.Sprintf("%s %s", strings.TrimSpace(date), strings.TrimSpace(timeOfDay)))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse schedule time: %w", err)
	}
	scheduled = scheduled.UTC()
	cutoff := now.UTC().Add(minScheduleLead)
	for scheduled.Before(cutoff) {
		scheduled = scheduled.AddDate(0, 0, 1)
	}
	return scheduled, nil
}

func FindScheduledPost(posts []ScheduledPost, itemID string) (int, bool) {
	for index, post := range posts {
		if post.ItemID == strings.TrimSpace(itemID) {
			return index, true
		}
	}
	return -1, false
}
