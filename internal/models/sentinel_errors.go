package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidBet        = errors.New("invalid bet")
	ErrIllegalTransition = errors.New("illegal transition")
	ErrDeckUnavailable   = errors.New("deck unavailable")
	ErrDrawFailed        = errors.New("draw failed")
	ErrOperationInFlight = errors.New("operation in flight")
	ErrSessionNotFound   = errors.New("session not found")
	ErrUnknownGame       = errors.New("unknown game")
	ErrWrongGame         = errors.New("session is playing a different game")
	ErrInvalidJSON       = errors.New("invalid json")
	ErrInvalidSelection  = errors.New("invalid selection")
	ErrInvalidDirection  = errors.New("invalid direction")
)

// ErrBetOutOfPhase is a bet placed while a round is live. It matches both ErrInvalidBet and
// ErrIllegalTransition.
var ErrBetOutOfPhase = fmt.Errorf("%w: round in progress (%w)", ErrInvalidBet, ErrIllegalTransition)
