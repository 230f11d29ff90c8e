package usecase

import crerr "github.com/cockroachdb/errors"

var (
	ErrInvalidInput          = crerr.New("invalid input")
	ErrNotFound              = crerr.New("resource not found")
	ErrUnauthorized          = crerr.New("unauthorized")
	ErrDependencyUnavailable = crerr.New("dependency unavailable")

	ErrInsufficientBalance = crerr.New("insufficient balance")
	ErrPredictionClosed    = crerr.New("prediction closed")
	ErrOutOfTurn           = crerr.New("member is not on the clock")
	ErrCastawayEliminated  = crerr.New("castaway is eliminated")
	ErrCastawayTaken       = crerr.New("castaway is held by another member")
	ErrSecondaryLockout    = crerr.New("secondary pick is locked out")

	ErrNoUpcomingEpisode = crerr.New("no upcoming episode")
	ErrLeagueInactive    = crerr.New("league is not active")
)

// markf builds a new error carrying kind. Callers match it with crerr.Is.
func markf(kind error, format string, args ...any) error {
	return crerr.Mark(crerr.Newf(format, args...), kind)
}

// mark wraps cause and tags it with kind, keeping cause matchable.
func mark(kind error, cause error, msg string) error {
	return crerr.Mark(crerr.Wrap(cause, msg), kind)
}
