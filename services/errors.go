package services

import "errors"

// Errors shared between services and the HTTP error mapping.
var (
	// Validation errors, correctable by the caller.
	ErrInvalidFormat       = errors.New("invalid tournament format")
	ErrInvalidCourtCount   = errors.New("court count must be at least 1")
	ErrNegativeScore       = errors.New("scores must not be negative")
	ErrDrawNotAllowed      = errors.New("a draw is not allowed in elimination formats")
	ErrMatchTeamsNotSet    = errors.New("match teams are not yet determined")
	ErrUnknownTeam         = errors.New("unknown team id")
	ErrNoParticipants      = errors.New("no participants available for team assignment")
	ErrNotSwissTournament  = errors.New("tournament is not in swiss format")
	ErrSwissRoundNotDone   = errors.New("current swiss round is not yet completed")
	ErrSwissRoundsExceeded = errors.New("all configured swiss rounds have been generated")
)
