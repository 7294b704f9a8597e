package errors

import "errors"

var (
	ErrSessionNotFound        = errors.New("wizard session not found")
	ErrSessionCompleted       = errors.New("wizard session already completed")
	ErrDraftNotFound          = errors.New("campaign draft not found")
	ErrStepNotReachable       = errors.New("step not reachable before completing the previous step")
	ErrStepKindMismatch       = errors.New("step payload kind does not match the current step")
	ErrInvalidStepPayload     = errors.New("step payload is missing its slot for the declared kind")
	ErrMissingObjective       = errors.New("objective requires a goal type and a campaign name")
	ErrMissingCompanyProfile  = errors.New("company profile is missing name, business objective or value proposition")
	ErrNoAudienceSelected     = errors.New("at least one audience persona must be selected")
	ErrNoPlatformSelected     = errors.New("at least one platform must be selected before generating a calendar")
	ErrUnsupportedPlatform    = errors.New("platform is not supported")
	ErrCalendarItemNotFound   = errors.New("calendar item not found")
	ErrNoContentCreated       = errors.New("at least one content item must be created before scheduling")
	ErrUnsupportedContentType = errors.New("platform does not accept this content type")
	ErrScheduleItemNotFound   = errors.New("scheduled post not found")
	ErrRetryNotFailed         = errors.New("only failed scheduled posts can be retried")
	ErrGenerationFailed       = errors.New("content generation failed")
	ErrSchedulingFailed       = errors.New("post scheduling failed")
	ErrRateLimited            = errors.New("generation service rate limited, retry later")
)
