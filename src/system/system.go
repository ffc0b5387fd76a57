// Package system ties the core together: it owns the fleet, the floor panels
// and the event channel, accepts reports from producers, and runs the tick
// that drains events into the reducer.
package system

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"liftbank/src/config"
	"liftbank/src/driver"
	"liftbank/src/elev"
	"liftbank/src/events"
	"liftbank/src/executor"
	"liftbank/src/panel"
	"liftbank/src/timer"
	"liftbank/src/types"
)

var (
	ErrUnknownFloor     = errors.New("system: unknown floor")
	ErrInvalidDirection = errors.New("system: floor call needs Up, Down or Both")
)

type System struct {
	cfg       config.Config
	channel   *events.Channel
	elevators []*elev.Elevator
	panels    []*panel.Panel
	handler   *executor.Handler
	now       func() time.Time
	logger    *slog.Logger

	// tickMtx serializes ticks and fleet snapshots.
	tickMtx sync.Mutex
}

type Option func(*System)

func WithClock(now func() time.Time) Option {
	return func(s *System) { s.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *System) { s.logger = logger }
}

// New builds a bank of cfg.NumElevators cabs, ids 0..n-1, all idle at floor
// 0, and one panel per floor. Commands go to sink.
func New(cfg config.Config, sink driver.Sink, opts ...Option) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &System{
		cfg:     cfg,
		channel: events.NewChannel(),
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("bank", cfg.InstanceID)

	for id := range cfg.NumElevators {
		s.elevators = append(s.elevators, elev.New(id, sink, elev.WithClock(s.now), elev.WithLogger(s.logger)))
	}
	for floor := range cfg.NumFloors {
		s.panels = append(s.panels, panel.New(floor))
	}
	s.handler = executor.New(s.elevators, s.panels, s.logger)
	s.logger.Info("Elevator bank initialized", "floors", cfg.NumFloors, "elevators", cfg.NumElevators)
	return s, nil
}

// ReportFloorCall lights the floor's panel and queues one floor call per
// press. Repeat presses are queued too.
func (s *System) ReportFloorCall(floor int, dir types.PanelState) error {
	if floor < 0 || floor >= len(s.panels) {
		return fmt.Errorf("%w: %d", ErrUnknownFloor, floor)
	}
	if !dir.ValidCall() {
		return fmt.Errorf("%w: got %s", ErrInvalidDirection, dir)
	}
	if state, changed := s.panels[floor].Register(dir); !changed {
		s.logger.Debug("Floor call pressed again", "floor", floor, "panel", state)
	}
	s.channel.Publish(types.FloorCallPressed{Floor: floor, Dir: dir})
	return nil
}

func (s *System) ReportPosition(elevatorID, floor int) {
	s.channel.Publish(types.PositionReported{ElevatorID: elevatorID, Floor: floor})
}

func (s *System) ReportCabButton(elevatorID, floor int) {
	s.channel.Publish(types.CabButtonPressed{ElevatorID: elevatorID, Floor: floor})
}

// Tick polls door timers, drains the channel and reduces the batch. It
// returns the number of events handled.
func (s *System) Tick(now time.Time) int {
	s.tickMtx.Lock()
	defer s.tickMtx.Unlock()

	for _, e := range s.elevators {
		if e.DoorOpen() && timer.Expired(e.DoorOpenedAt(), now, s.cfg.DoorOpenDuration) {
			s.channel.Publish(types.DoorTimerElapsed{ElevatorID: e.ID(), OpenedAt: e.DoorOpenedAt()})
		}
	}

	batch := s.channel.DrainAll()
	if len(batch) == 0 {
		return 0
	}
	s.logger.Debug("Handling events", "count", len(batch), "events", batch)
	s.handler.HandleEvents(batch)
	return len(batch)
}

// Run ticks every cfg.TickInterval until ctx is done.
func (s *System) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()
	s.logger.Info("Control loop started", "tick", s.cfg.TickInterval, "dwell", s.cfg.DoorOpenDuration)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Control loop stopped")
			return ctx.Err()
		case <-ticker.C:
			s.Tick(s.now())
		}
	}
}

// Snapshot returns the state of every cab, ordered by id.
func (s *System) Snapshot() []types.ElevState {
	s.tickMtx.Lock()
	defer s.tickMtx.Unlock()
	return s.handler.Fleet()
}

// PanelStates returns the indicator of every floor, indexed by floor.
func (s *System) PanelStates() []types.PanelState {
	states := make([]types.PanelState, len(s.panels))
	for floor, p := range s.panels {
		states[floor] = p.State()
	}
	return states
}

// Pending is the number of events waiting for the next tick.
func (s *System) Pending() int {
	return s.channel.Len()
}
