package entities

import (
	"testing"
	"time"
)

func TestScheduleTimeForRollsForwardUntilLeadSatisfied(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	scheduled, err := ScheduleTimeFor("2026-09-01", "10:00", now)
	if err != nil {
		t.Fatalf("schedule time failed: %v", err)
	}

	want := time.Date(2026, 9, 3, 10, 0, 0, 0, time.UTC)
	if !scheduled.Equal(want) {
		t.Fatalf("expected %s, got %s", want, scheduled)
	}
}

func TestScheduleTimeForKeepsFarFutureDate(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	scheduled, err := ScheduleTimeFor("2026-12-01", "18:30", now)
	if err != nil {
		t.Fatalf("schedule time failed: %v", err)
	}

	want := time.Date(2026, 12, 1, 18, 30, 0, 0, time.UTC)
	if !scheduled.Equal(want) {
		t.Fatalf("expected %s, got %s", want, scheduled)
	}
}

func TestScheduleTimeForRejectsMalformedDate(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	if _, err := ScheduleTimeFor("01/09/2026", "10:00", now); err == nil {
		t.Fatalf("expected parse error for malformed date")
	}
}

func TestPlatformCapabilityTable(t *testing.T) {
	cases := []struct {
		platform    string
		contentType ContentType
		accepted    bool
	}{
		{"tiktok", ContentTypeVideo, true},
		{"tiktok", ContentTypeText, false},
		{"tiktok", ContentTypeImage, false},
		{"youtube", ContentTypeVideo, true},
		{"youtube", ContentTypeText, false},
		{"instagram", ContentTypeImage, true},
		{"instagram", ContentTypeVideo, true},
		{"instagram", ContentTypeText, false},
		{"snapchat", ContentTypeImage, true},
		{"snapchat", ContentTypeText, false},
		{"twitter", ContentTypeText, true},
		{"facebook", ContentTypeImage, true},
		{"linkedin", ContentTypeText, true},
	}

	for _, tc := range cases {
		if got := PlatformAcceptsContentType(tc.platform, tc.contentType); got != tc.accepted {
			t.Fatalf("%s/%s: expected %v, got %v", tc.platform, tc.contentType, tc.accepted, got)
		}
	}
}

func TestIsSupportedPlatform(t *testing.T) {
	if !IsSupportedPlatform("tiktok") {
		t.Fatalf("tiktok should be supported")
	}
	if IsSupportedPlatform("myspace") {
		t.Fatalf("myspace should not be supported")
	}
}
