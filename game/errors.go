package game

import "fmt"

// IllegalActionError is returned when a move inconsistent with the current
// phase or board is submitted to Play. It always indicates a caller bug.
type IllegalActionError struct {
	Move   Move
	Phase  Phase
	Reason string
}

func (e *IllegalActionError) Error() string {
	return fmt.Sprintf("illegal action %v during %s: %s", e.Move, e.Phase, e.Reason)
}

func illegal(move Move, phase Phase, format string, args ...any) error {
	return &IllegalActionError{Move: move, Phase: phase, Reason: fmt.Sprintf(format, args...)}
}

// NoLegalActionError is returned when a decision is requested from a state
// that offers no move, which means phase tracking went wrong somewhere.
type NoLegalActionError struct {
	Player Color
}

func (e *NoLegalActionError) Error() string {
	return fmt.Sprintf("no legal action for player %s", e.Player)
}

// ConfigurationError rejects out-of-range configuration at construction time.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Field, e.Reason)
}

func NewConfigurationError(field, format string, args ...any) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
