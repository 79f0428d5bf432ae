package scraper

import "errors"

var (
	// ErrInvalidInput means the request failed local validation; no
	// network call was made.
	ErrInvalidInput = errors.New("invalid case request")
	// ErrNotFound means the court site reports no matching case.
	ErrNotFound = errors.New("case not found")
	// ErrSiteUnavailable means the site could not be reached or kept
	// returning unparseable pages.
	ErrSiteUnavailable = errors.New("court site unavailable")
	// ErrChallengeBlocked means an anti-automation challenge could not be
	// passed.
	ErrChallengeBlocked = errors.New("blocked by anti-automation challenge")

	errUnparseable = errors.New("unparseable case page")
)

// retryable reports whether a failed attempt may be repeated.
func retryable(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrChallengeBlocked):
		return false
	}
	return true
}
