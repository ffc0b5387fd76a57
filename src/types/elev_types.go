package types

import "time"

type MotorDirection int

const (
	MD_Up   MotorDirection = 1
	MD_Down MotorDirection = -1
	MD_Stop MotorDirection = 0
)

func (d MotorDirection) String() string {
	switch d {
	case MD_Up:
		return "Up"
	case MD_Down:
		return "Down"
	case MD_Stop:
		return "Stop"
	}
	return "Unknown"
}

// PanelState is the call indicator of a floor panel. A floor call carries one
// of PS_Up, PS_Down or PS_Both as its requested direction.
type PanelState int

const (
	PS_Off PanelState = iota
	PS_Down
	PS_Up
	PS_Both
)

func (s PanelState) String() string {
	switch s {
	case PS_Off:
		return "Off"
	case PS_Down:
		return "Down"
	case PS_Up:
		return "Up"
	case PS_Both:
		return "Both"
	}
	return "Unknown"
}

// ValidCall reports whether s can be requested by a floor call.
func (s PanelState) ValidCall() bool {
	return s == PS_Up || s == PS_Down || s == PS_Both
}

// Serves reports whether a cab travelling in dir serves a call requesting s.
func (s PanelState) Serves(dir MotorDirection) bool {
	switch s {
	case PS_Both:
		return true
	case PS_Up:
		return dir == MD_Up
	case PS_Down:
		return dir == MD_Down
	}
	return false
}

// ElevState is a value snapshot of one cab.
type ElevState struct {
	ID           int
	Floor        int
	Dir          MotorDirection
	Destinations map[int]bool // set of floors, only true entries are stored
	DoorOpen     bool
	DoorOpenedAt time.Time
}

func (e ElevState) Idle() bool {
	return e.Dir == MD_Stop
}
