// Package driver carries commands issued by the core to the motor and door
// adapter.
package driver

import (
	"io"
	"log/slog"
	"sync"

	"liftbank/src/types"
)

// Sink accepts commands from the core. Send must not block the control loop.
type Sink interface {
	Send(cmd types.Command)
}

// LogSink logs every command. Used when no motor server is attached.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Send(cmd types.Command) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Command", "kind", cmd.Kind, "elevator", cmd.ElevatorID, "direction", cmd.Dir)
}

const (
	opMotorDirection byte = 1
	opDoorOpenLamp   byte = 4
)

// FrameSink writes each command as a 4-byte elevio frame to the motor server
// of one cab. Writes are serialized. Route commands to it with ByCab.
type FrameSink struct {
	mtx    sync.Mutex
	w      io.Writer
	logger *slog.Logger
	err    error
}

func NewFrameSink(w io.Writer, logger *slog.Logger) *FrameSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &FrameSink{w: w, logger: logger}
}

func (s *FrameSink) Send(cmd types.Command) {
	s.write(Encode(cmd))
}

// Err returns the first write error, after which frames are dropped.
func (s *FrameSink) Err() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.err
}

func (s *FrameSink) write(in [4]byte) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.err != nil {
		return
	}
	if _, err := s.w.Write(in[:]); err != nil {
		s.err = err
		s.logger.Error("Lost connection to motor server", "error", err)
	}
}

// Encode maps a command onto its elevio frame. The cab id is not part of the
// frame; each cab has its own server connection.
func Encode(cmd types.Command) [4]byte {
	switch cmd.Kind {
	case types.CmdStartMotor:
		return [4]byte{opMotorDirection, byte(cmd.Dir), 0, 0}
	case types.CmdStopMotor:
		return [4]byte{opMotorDirection, byte(types.MD_Stop), 0, 0}
	case types.CmdOpenDoor:
		return [4]byte{opDoorOpenLamp, toByte(true), 0, 0}
	case types.CmdCloseDoor:
		return [4]byte{opDoorOpenLamp, toByte(false), 0, 0}
	}
	return [4]byte{}
}

func toByte(a bool) byte {
	var b byte = 0
	if a {
		b = 1
	}
	return b
}

// Multi fans a command out to several sinks in order.
type Multi []Sink

func (m Multi) Send(cmd types.Command) {
	for _, s := range m {
		s.Send(cmd)
	}
}

// ByCab routes each command to the sink of its cab. Commands for a cab
// without a sink are dropped.
type ByCab map[int]Sink

func (r ByCab) Send(cmd types.Command) {
	if s, ok := r[cmd.ElevatorID]; ok {
		s.Send(cmd)
	}
}

// Recorder keeps every command in memory, for dry runs and tests.
type Recorder struct {
	mtx  sync.Mutex
	cmds []types.Command
}

func (r *Recorder) Send(cmd types.Command) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.cmds = append(r.cmds, cmd)
}

// Take returns the recorded commands and clears the record.
func (r *Recorder) Take() []types.Command {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	cmds := r.cmds
	r.cmds = nil
	return cmds
}
