package services

import "errors"

// Errors shared across services and mapped to HTTP statuses by the
// handlers package.
var (
	ErrNotFound = errors.New("requested resource not found")

	ErrValidationFailed   = errors.New("validation failed")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")

	ErrInvalidEventType  = errors.New("unknown score event type")
	ErrNegativeScore     = errors.New("scores must be non-negative")
	ErrNotReferee        = errors.New("only the assigned referee can run the scorecard")
	ErrInvalidTeamCount  = errors.New("schedule requires 3, 4 or 5 approved teams")
	ErrTournamentFull    = errors.New("tournament has reached its team limit")
	ErrAlreadyApplied    = errors.New("team has already applied for this tournament")
	ErrNotApplied        = errors.New("team has not applied for this tournament")
	ErrStandingsIncomplete = errors.New("tournament has unfinished games")

	ErrUsernameConflict = errors.New("username is already in use")
	ErrEmailConflict    = errors.New("email address is already in use")

	ErrTeamNotFound       = errors.New("team not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrGameNotFound       = errors.New("game not found")
	ErrScoreEventNotFound = errors.New("score event not found")
	ErrApplicationNotFound = errors.New("tournament application not found")

	ErrLogoUploadFailed  = errors.New("logo upload failed")
	ErrInvalidLogoFormat = errors.New("logo must be a PNG or JPEG image")
)
