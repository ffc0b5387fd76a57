package types

import (
	"fmt"
	"time"
)

// Event is one of FloorCallPressed, PositionReported, DoorTimerElapsed or
// CabButtonPressed.
type Event interface {
	isEvent()
	fmt.Stringer
}

type FloorCallPressed struct {
	Floor int
	Dir   PanelState
}

type PositionReported struct {
	ElevatorID int
	Floor      int
}

// DoorTimerElapsed carries the door opening it was raised for. A zero
// OpenedAt closes whatever opening is current.
type DoorTimerElapsed struct {
	ElevatorID int
	OpenedAt   time.Time
}

type CabButtonPressed struct {
	ElevatorID int
	Floor      int
}

func (FloorCallPressed) isEvent() {}
func (PositionReported) isEvent() {}
func (DoorTimerElapsed) isEvent() {}
func (CabButtonPressed) isEvent() {}

func (e FloorCallPressed) String() string {
	return fmt.Sprintf("FloorCall(%d,%s)", e.Floor, e.Dir)
}

func (e PositionReported) String() string {
	return fmt.Sprintf("Position(%d,%d)", e.ElevatorID, e.Floor)
}

func (e DoorTimerElapsed) String() string {
	return fmt.Sprintf("DoorTimer(%d)", e.ElevatorID)
}

func (e CabButtonPressed) String() string {
	return fmt.Sprintf("CabButton(%d,%d)", e.ElevatorID, e.Floor)
}

type CommandKind int

const (
	CmdStartMotor CommandKind = iota
	CmdStopMotor
	CmdOpenDoor
	CmdCloseDoor
)

func (k CommandKind) String() string {
	switch k {
	case CmdStartMotor:
		return "StartMotor"
	case CmdStopMotor:
		return "StopMotor"
	case CmdOpenDoor:
		return "OpenDoor"
	case CmdCloseDoor:
		return "CloseDoor"
	}
	return "Unknown"
}

// Command is issued by the core to the motor/door adapter. Dir is only
// meaningful for CmdStartMotor.
type Command struct {
	Kind       CommandKind
	ElevatorID int
	Dir        MotorDirection
}

func StartMotor(id int, dir MotorDirection) Command {
	return Command{Kind: CmdStartMotor, ElevatorID: id, Dir: dir}
}

func StopMotor(id int) Command {
	return Command{Kind: CmdStopMotor, ElevatorID: id}
}

func OpenDoor(id int) Command {
	return Command{Kind: CmdOpenDoor, ElevatorID: id}
}

func CloseDoor(id int) Command {
	return Command{Kind: CmdCloseDoor, ElevatorID: id}
}

func (c Command) String() string {
	if c.Kind == CmdStartMotor {
		return fmt.Sprintf("%s(%d,%s)", c.Kind, c.ElevatorID, c.Dir)
	}
	return fmt.Sprintf("%s(%d)", c.Kind, c.ElevatorID)
}
