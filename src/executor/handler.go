package executor

import (
	"log/slog"

	"liftbank/src/dispatcher"
	"liftbank/src/elev"
	"liftbank/src/panel"
	"liftbank/src/types"
)

// Handler applies drained events to the fleet and the floor panels. Events
// are handled one at a time, in batch order, on the control loop only.
// An event that names an unknown cab or floor is logged and skipped; it never
// stops the rest of the batch.
type Handler struct {
	elevators map[int]*elev.Elevator
	ids       []int
	panels    map[int]*panel.Panel
	logger    *slog.Logger
}

func New(elevators []*elev.Elevator, panels []*panel.Panel, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		elevators: make(map[int]*elev.Elevator, len(elevators)),
		panels:    make(map[int]*panel.Panel, len(panels)),
		logger:    logger,
	}
	for _, e := range elevators {
		h.elevators[e.ID()] = e
		h.ids = append(h.ids, e.ID())
	}
	for _, p := range panels {
		h.panels[p.Floor()] = p
	}
	return h
}

func (h *Handler) HandleEvents(batch []types.Event) {
	for _, event := range batch {
		h.HandleEvent(event)
	}
}

func (h *Handler) HandleEvent(event types.Event) {
	switch ev := event.(type) {
	case types.FloorCallPressed:
		h.handleFloorCall(ev)
	case types.PositionReported:
		h.handlePosition(ev)
	case types.DoorTimerElapsed:
		h.handleDoorTimer(ev)
	case types.CabButtonPressed:
		h.handleCabButton(ev)
	default:
		h.logger.Warn("Ignoring unknown event", "event", event)
	}
}

// Fleet returns snapshots of every cab in construction order.
func (h *Handler) Fleet() []types.ElevState {
	fleet := make([]types.ElevState, 0, len(h.ids))
	for _, id := range h.ids {
		fleet = append(fleet, h.elevators[id].Snapshot())
	}
	return fleet
}

func (h *Handler) handleFloorCall(ev types.FloorCallPressed) {
	if !h.knownFloor(ev.Floor, ev) {
		return
	}
	if !ev.Dir.ValidCall() {
		h.logger.Warn("Ignoring floor call without direction", "event", ev)
		return
	}
	id, err := dispatcher.ChooseElevator(ev, h.Fleet())
	if err != nil {
		h.logger.Error("No elevator for floor call", "event", ev, "error", err)
		return
	}
	h.logger.Info("Floor call assigned", "floor", ev.Floor, "direction", ev.Dir, "elevator", id)
	e := h.elevators[id]
	if standingAt(e, ev.Floor) && (!continuing(e) || ev.Dir.Serves(e.Dir())) {
		h.serveAtFloor(e, ev.Floor)
		return
	}
	// A cab leaving the other way comes back for the call later.
	e.AddDestination(ev.Floor)
}

func (h *Handler) handlePosition(ev types.PositionReported) {
	e, ok := h.elevator(ev.ElevatorID, ev)
	if !ok || !h.knownFloor(ev.Floor, ev) {
		return
	}
	e.SetPosition(ev.Floor)

	if e.HasDestination(ev.Floor) {
		h.logger.Info("Elevator arrived", "elevator", e.ID(), "floor", ev.Floor)
		e.RemoveDestination(ev.Floor)
		e.StopMotor()
		e.OpenDoor()
		h.clearPanel(ev.Floor)
		return
	}

	// A cab coasting with nothing left ahead turns around here.
	if !e.Idle() && !e.DoorOpen() && !e.HasDestinationAhead() {
		h.logger.Debug("Nothing ahead, resolving direction", "elevator", e.ID(), "floor", ev.Floor)
		e.StopMotor()
		e.ResolveDirection()
	}
}

func (h *Handler) handleDoorTimer(ev types.DoorTimerElapsed) {
	e, ok := h.elevator(ev.ElevatorID, ev)
	if !ok {
		return
	}
	if !e.DoorOpen() {
		h.logger.Debug("Door timeout ignored - door not open", "elevator", e.ID())
		return
	}
	if !ev.OpenedAt.IsZero() && !ev.OpenedAt.Equal(e.DoorOpenedAt()) {
		h.logger.Debug("Door timeout ignored - door reopened", "elevator", e.ID(), "openedAt", e.DoorOpenedAt())
		return
	}
	e.CloseDoor()
	e.ResolveDirection()
}

func (h *Handler) handleCabButton(ev types.CabButtonPressed) {
	e, ok := h.elevator(ev.ElevatorID, ev)
	if !ok || !h.knownFloor(ev.Floor, ev) {
		return
	}
	if standingAt(e, ev.Floor) {
		h.serveAtFloor(e, ev.Floor)
		return
	}
	e.AddDestination(ev.Floor)
}

// standingAt reports whether e is stopped at floor: idle there, or with its
// door open there.
func standingAt(e *elev.Elevator, floor int) bool {
	return e.Floor() == floor && (e.Idle() || e.DoorOpen())
}

// continuing reports whether e will leave in its current direction once its
// door closes.
func continuing(e *elev.Elevator) bool {
	return !e.Idle() && e.HasDestinationAhead()
}

// serveAtFloor reopens the door of a cab standing at floor. The panel keeps
// any call the cab will not carry.
func (h *Handler) serveAtFloor(e *elev.Elevator, floor int) {
	h.logger.Debug("Already at floor, opening door", "elevator", e.ID(), "floor", floor)
	e.OpenDoor()
	p, ok := h.panels[floor]
	if !ok {
		return
	}
	if !continuing(e) {
		p.SetState(types.PS_Off)
		return
	}
	switch state := p.State(); {
	case state == types.PS_Both && e.Dir() == types.MD_Up:
		p.SetState(types.PS_Down)
	case state == types.PS_Both && e.Dir() == types.MD_Down:
		p.SetState(types.PS_Up)
	case state.Serves(e.Dir()):
		p.SetState(types.PS_Off)
	}
}

func (h *Handler) clearPanel(floor int) {
	if p, ok := h.panels[floor]; ok {
		p.SetState(types.PS_Off)
	}
}

func (h *Handler) elevator(id int, ev types.Event) (*elev.Elevator, bool) {
	e, ok := h.elevators[id]
	if !ok {
		h.logger.Warn("Ignoring event for unknown elevator", "event", ev, "elevator", id)
	}
	return e, ok
}

func (h *Handler) knownFloor(floor int, ev types.Event) bool {
	if _, ok := h.panels[floor]; !ok {
		h.logger.Warn("Ignoring event for unknown floor", "event", ev, "floor", floor)
		return false
	}
	return true
}
