package lookup

import (
	"errors"
	"fmt"

	"github.com/JustJay7/court-case-lookup/internal/database"
	"github.com/JustJay7/court-case-lookup/internal/scraper"
)

// Kind classifies a failed lookup for callers and for the audit row.
type Kind string

const (
	KindInvalidInput     Kind = "invalid_input"
	KindNotFound         Kind = "not_found"
	KindSiteUnavailable  Kind = "site_unavailable"
	KindChallengeBlocked Kind = "challenge_blocked"
	KindStorage          Kind = "storage_error"
	KindInternal         Kind = "internal_error"
)

// Message is the text shown to end users. It never includes the cause.
func (k Kind) Message() string {
	switch k {
	case KindInvalidInput:
		return "Please check the case type, case number and filing year."
	case KindNotFound:
		return "No case matches the given case type, number and year."
	case KindSiteUnavailable:
		return "The court website could not be reached. Please try again later."
	case KindChallengeBlocked:
		return "The court website asked for a CAPTCHA that could not be solved automatically."
	case KindStorage:
		return "The search could not be saved. Please try again."
	default:
		return "Something went wrong while processing the request."
	}
}

// Error is a classified lookup failure. QueryID names the search the
// failure belongs to, when there is one.
type Error struct {
	Kind    Kind
	QueryID uint
	Err     error
}

func (e *Error) Error() string {
	if e.QueryID != 0 {
		return fmt.Sprintf("%s (query %d): %v", e.Kind, e.QueryID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err, or "" for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return classify(err)
}

func classify(err error) Kind {
	switch {
	case errors.Is(err, scraper.ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, scraper.ErrNotFound), errors.Is(err, database.ErrNotFound):
		return KindNotFound
	case errors.Is(err, scraper.ErrChallengeBlocked):
		return KindChallengeBlocked
	case errors.Is(err, scraper.ErrSiteUnavailable):
		return KindSiteUnavailable
	case errors.Is(err, database.ErrStorage), errors.Is(err, database.ErrInvalidRecord):
		return KindStorage
	default:
		return KindInternal
	}
}

func newError(kind Kind, queryID uint, err error) *Error {
	return &Error{Kind: kind, QueryID: queryID, Err: err}
}
