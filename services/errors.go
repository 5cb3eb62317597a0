package services

import "errors"

// Validation failures: the referenced entity does not exist. Returned as
// errors so controllers can map them to 404s; precondition failures
// (gates not met, no tokens) are structured results instead.
var (
	ErrProgramNotFound  = errors.New("program not found")
	ErrPhaseNotFound    = errors.New("phase not found")
	ErrLessonNotFound   = errors.New("lesson not found")
	ErrTacticNotFound   = errors.New("tactic not found")
	ErrProtocolNotFound = errors.New("protocol not found")

	ErrNotEnrolled        = errors.New("user not enrolled in this program")
	ErrAlreadyEnrolled    = errors.New("user already enrolled in this program")
	ErrProtocolNotActive  = errors.New("protocol is not active")
	ErrProtocolTerminal   = errors.New("protocol is already completed or expired")
	ErrActiveProtocolOpen = errors.New("user already has an active protocol")
	ErrInvalidDayNumber   = errors.New("day number must be between 1 and 7")
	ErrNoSkipTokens       = errors.New("no skip tokens available")
)
