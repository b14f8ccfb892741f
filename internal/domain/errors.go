package domain

import "errors"

var (
	ErrFeedUnavailable       = errors.New("feed unavailable")
	ErrMalformedFeed         = errors.New("malformed feed")
	ErrInvalidSortKey        = errors.New("invalid sort key")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrManualEntriesDisabled = errors.New("manual entries disabled")
)
