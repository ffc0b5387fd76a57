package elev

import (
	"log/slog"
	"time"

	"github.com/tiendc/go-deepcopy"

	"liftbank/src/types"
	"liftbank/src/utils"
)

func New(id int, sink CommandSink, opts ...Option) *Elevator {
	e := &Elevator{
		state: types.ElevState{
			ID:           id,
			Dir:          types.MD_Stop,
			Destinations: make(map[int]bool),
		},
		sink:   sink,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("elevator", id)
	e.logger.Debug("Elevator initialized", "floor", e.state.Floor)
	return e
}

func (e *Elevator) ID() int                       { return e.state.ID }
func (e *Elevator) Floor() int                    { return e.state.Floor }
func (e *Elevator) Dir() types.MotorDirection     { return e.state.Dir }
func (e *Elevator) DoorOpen() bool                { return e.state.DoorOpen }
func (e *Elevator) DoorOpenedAt() time.Time       { return e.state.DoorOpenedAt }
func (e *Elevator) Idle() bool                    { return e.state.Dir == types.MD_Stop }
func (e *Elevator) HasDestination(floor int) bool { return e.state.Destinations[floor] }

// Destinations returns the pending floors in ascending order.
func (e *Elevator) Destinations() []int {
	return utils.SortedFloors(e.state.Destinations)
}

// Snapshot returns a copy of the cab state that shares nothing with it.
func (e *Elevator) Snapshot() types.ElevState {
	snap := new(types.ElevState)
	if err := deepcopy.Copy(snap, &e.state); err != nil {
		panic(err)
	}
	// time.Time has no exported fields to copy.
	snap.DoorOpenedAt = e.state.DoorOpenedAt
	if snap.Destinations == nil {
		snap.Destinations = make(map[int]bool)
	}
	return *snap
}

// AddDestination queues floor. An idle cab picks its direction from floor
// and starts its motor, unless the door is open: then the start waits for
// CloseDoor and ResolveDirection.
func (e *Elevator) AddDestination(floor int) {
	if e.state.Destinations[floor] {
		e.logger.Debug("Destination already queued", "floor", floor)
		return
	}
	e.state.Destinations[floor] = true
	e.logger.Debug("Destination added", "floor", floor, "destinations", utils.FormatFloors(e.state.Destinations))

	if e.state.Dir != types.MD_Stop {
		return
	}
	dir := types.MD_Down
	if floor > e.state.Floor {
		dir = types.MD_Up
	}
	e.state.Dir = dir
	if e.state.DoorOpen {
		e.logger.Debug("Door open, motor start deferred", "direction", dir)
		return
	}
	e.startMotor(dir)
}

// RemoveDestination drops floor and reports whether it was queued. Removing
// an absent floor is a no-op, since arrivals may be reported twice.
func (e *Elevator) RemoveDestination(floor int) bool {
	if !e.state.Destinations[floor] {
		e.logger.Debug("Destination not queued", "floor", floor)
		return false
	}
	delete(e.state.Destinations, floor)
	e.logger.Debug("Destination removed", "floor", floor, "destinations", utils.FormatFloors(e.state.Destinations))
	return true
}

func (e *Elevator) SetPosition(floor int) {
	e.state.Floor = floor
	e.logger.Debug("New position", "floor", floor)
}

// StopMotor halts the cab. Direction is kept so travel can resume the scan.
func (e *Elevator) StopMotor() {
	e.logger.Debug("Stopping motor", "floor", e.state.Floor)
	e.sink.Send(types.StopMotor(e.state.ID))
}

func (e *Elevator) OpenDoor() {
	e.state.DoorOpen = true
	e.state.DoorOpenedAt = e.now()
	e.logger.Debug("Opening door", "floor", e.state.Floor)
	e.sink.Send(types.OpenDoor(e.state.ID))
}

func (e *Elevator) CloseDoor() {
	e.state.DoorOpen = false
	e.state.DoorOpenedAt = time.Time{}
	e.logger.Debug("Closing door", "floor", e.state.Floor)
	e.sink.Send(types.CloseDoor(e.state.ID))
}

// ResolveDirection picks the direction after a floor has been served:
//  1. Keep going while destinations remain ahead.
//  2. Reverse when the only destinations are behind.
//  3. Go idle when none remain.
//
// Travel resumes with a motor start; going idle issues nothing.
func (e *Elevator) ResolveDirection() {
	if e.state.Dir == types.MD_Stop {
		return
	}
	switch {
	case e.ordersAhead(e.state.Dir):
	case e.ordersAhead(-e.state.Dir):
		e.state.Dir = -e.state.Dir
	default:
		e.state.Dir = types.MD_Stop
		e.logger.Info("Elevator idle", "floor", e.state.Floor)
		return
	}
	e.startMotor(e.state.Dir)
}

// HasDestinationAhead reports whether a queued floor lies beyond the cab in
// its direction of travel.
func (e *Elevator) HasDestinationAhead() bool {
	return e.state.Dir != types.MD_Stop && e.ordersAhead(e.state.Dir)
}

func (e *Elevator) ordersAhead(dir types.MotorDirection) bool {
	for floor := range e.state.Destinations {
		if (floor-e.state.Floor)*int(dir) > 0 {
			return true
		}
	}
	return false
}

func (e *Elevator) startMotor(dir types.MotorDirection) {
	e.logger.Debug("Starting motor", "direction", dir, "destinations", utils.FormatFloors(e.state.Destinations))
	e.sink.Send(types.StartMotor(e.state.ID, dir))
}
