// State types are defined in the elev package so one cab's state is only
// mutated through Elevator methods.
package elev

import (
	"log/slog"
	"time"

	"liftbank/src/types"
)

// CommandSink receives the motor and door commands a cab issues.
type CommandSink interface {
	Send(cmd types.Command)
}

// Elevator owns the state of one cab. It is not safe for concurrent use; the
// reducer is its only mutator.
type Elevator struct {
	state  types.ElevState
	sink   CommandSink
	now    func() time.Time
	logger *slog.Logger
}

type Option func(*Elevator)

// WithClock sets the clock used to stamp door openings.
func WithClock(now func() time.Time) Option {
	return func(e *Elevator) { e.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Elevator) { e.logger = logger }
}

// WithFloor places the cab at floor instead of floor 0.
func WithFloor(floor int) Option {
	return func(e *Elevator) { e.state.Floor = floor }
}
