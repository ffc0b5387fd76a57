// Package console turns text lines into reports for the elevator bank.
//
//	fb:<floor>,<dir>   floor call, dir 1=Down 2=Up 3=Both (or down/up/both)
//	pos:<cab>,<floor>  position report
//	eb:<cab>,<floor>   cab button
//	status             log a fleet snapshot
//
// Blank lines and lines starting with # are skipped.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"liftbank/src/types"
	"liftbank/src/utils"
)

var ErrMalformed = errors.New("console: malformed line")

type InputKind int

const (
	IK_None InputKind = iota
	IK_FloorCall
	IK_Position
	IK_CabButton
	IK_Status
)

type Input struct {
	Kind       InputKind
	ElevatorID int
	Floor      int
	Dir        types.PanelState
}

// Reporter is the inbound side of the bank.
type Reporter interface {
	ReportFloorCall(floor int, dir types.PanelState) error
	ReportPosition(elevatorID, floor int)
	ReportCabButton(elevatorID, floor int)
	Snapshot() []types.ElevState
}

func ParseLine(line string) (Input, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Input{Kind: IK_None}, nil
	}
	if strings.EqualFold(line, "status") {
		return Input{Kind: IK_Status}, nil
	}

	cmd, args, found := strings.Cut(line, ":")
	if !found {
		return Input{}, fmt.Errorf("%w: %q", ErrMalformed, line)
	}
	first, second, found := strings.Cut(args, ",")
	if !found {
		return Input{}, fmt.Errorf("%w: %q needs two arguments", ErrMalformed, line)
	}
	a, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil {
		return Input{}, fmt.Errorf("%w: %q: %v", ErrMalformed, line, err)
	}
	second = strings.TrimSpace(second)

	switch strings.ToLower(strings.TrimSpace(cmd)) {
	case "fb":
		dir, err := parseDir(second)
		if err != nil {
			return Input{}, fmt.Errorf("%w: %q: %v", ErrMalformed, line, err)
		}
		return Input{Kind: IK_FloorCall, Floor: a, Dir: dir}, nil
	case "pos", "eb":
		b, err := strconv.Atoi(second)
		if err != nil {
			return Input{}, fmt.Errorf("%w: %q: %v", ErrMalformed, line, err)
		}
		kind := IK_Position
		if strings.EqualFold(strings.TrimSpace(cmd), "eb") {
			kind = IK_CabButton
		}
		return Input{Kind: kind, ElevatorID: a, Floor: b}, nil
	}
	return Input{}, fmt.Errorf("%w: unknown command %q", ErrMalformed, cmd)
}

func parseDir(s string) (types.PanelState, error) {
	switch strings.ToLower(s) {
	case "down":
		return types.PS_Down, nil
	case "up":
		return types.PS_Up, nil
	case "both":
		return types.PS_Both, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return types.PS_Off, fmt.Errorf("direction %q", s)
	}
	dir := types.PanelState(n)
	if !dir.ValidCall() {
		return types.PS_Off, fmt.Errorf("direction %d out of range", n)
	}
	return dir, nil
}

// Apply hands one parsed input to rep.
func Apply(in Input, rep Reporter, logger *slog.Logger) error {
	switch in.Kind {
	case IK_FloorCall:
		return rep.ReportFloorCall(in.Floor, in.Dir)
	case IK_Position:
		rep.ReportPosition(in.ElevatorID, in.Floor)
	case IK_CabButton:
		rep.ReportCabButton(in.ElevatorID, in.Floor)
	case IK_Status:
		for _, e := range rep.Snapshot() {
			logger.Info("Status",
				"elevator", e.ID,
				"floor", e.Floor,
				"direction", e.Dir,
				"doorOpen", e.DoorOpen,
				"destinations", utils.FormatFloors(e.Destinations))
		}
	}
	return nil
}

// Run reads r line by line until EOF or ctx is done. Bad lines are logged and
// skipped. It returns nil at EOF.
func Run(ctx context.Context, r io.Reader, rep Reporter, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("read input: %w", err)
					}
				default:
				}
				logger.Info("Input closed")
				return nil
			}
			in, err := ParseLine(line)
			if err != nil {
				logger.Warn("Skipping input", "error", err)
				continue
			}
			if err := Apply(in, rep, logger); err != nil {
				logger.Warn("Input rejected", "line", line, "error", err)
			}
		}
	}
}
