package driver

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"liftbank/src/types"
)

type ButtonType int

const (
	BT_HallUp   ButtonType = 0
	BT_HallDown ButtonType = 1
	BT_Cab      ButtonType = 2
)

const (
	opGetButton      byte = 6
	opGetFloorSensor byte = 7
)

// Reporter receives the sensor and button edges seen by a Poller.
type Reporter interface {
	ReportFloorCall(floor int, dir types.PanelState) error
	ReportPosition(elevatorID, floor int)
	ReportCabButton(elevatorID, floor int)
}

// Poller queries the motor server of one cab with elevio frames and reports
// changes:
//
//	{6, button, floor, 0} -> {6, pressed, 0, 0}
//	{7, 0, 0, 0}          -> {7, atFloor, floor, 0}
//
// Hall buttons on any cab's server are floor calls for the bank.
type Poller struct {
	mtx       sync.Mutex
	rw        io.ReadWriter
	cab       int
	numFloors int
	rep       Reporter
	logger    *slog.Logger

	prevFloor   int
	prevButtons [][3]bool
}

func NewPoller(cab int, rw io.ReadWriter, numFloors int, rep Reporter, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		rw:          rw,
		cab:         cab,
		numFloors:   numFloors,
		rep:         rep,
		logger:      logger.With("elevator", cab),
		prevFloor:   -1,
		prevButtons: make([][3]bool, numFloors),
	}
}

// Run polls every interval until ctx is done or the connection fails.
func (p *Poller) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.Poll(); err != nil {
				return err
			}
		}
	}
}

// Poll reads every sensor once. A floor is reported when the cab reaches a
// new floor; buttons are reported on press only.
func (p *Poller) Poll() error {
	floor, err := p.getFloor()
	if err != nil {
		return err
	}
	if floor != p.prevFloor && floor != -1 {
		p.rep.ReportPosition(p.cab, floor)
	}
	p.prevFloor = floor

	for f := range p.numFloors {
		for b := BT_HallUp; b <= BT_Cab; b++ {
			v, err := p.getButton(b, f)
			if err != nil {
				return err
			}
			if v && !p.prevButtons[f][b] {
				p.report(b, f)
			}
			p.prevButtons[f][b] = v
		}
	}
	return nil
}

func (p *Poller) report(button ButtonType, floor int) {
	switch button {
	case BT_Cab:
		p.rep.ReportCabButton(p.cab, floor)
		return
	case BT_HallUp:
		if err := p.rep.ReportFloorCall(floor, types.PS_Up); err != nil {
			p.logger.Warn("Floor call rejected", "floor", floor, "error", err)
		}
	case BT_HallDown:
		if err := p.rep.ReportFloorCall(floor, types.PS_Down); err != nil {
			p.logger.Warn("Floor call rejected", "floor", floor, "error", err)
		}
	}
}

func (p *Poller) getButton(button ButtonType, floor int) (bool, error) {
	a, err := p.read([4]byte{opGetButton, byte(button), byte(floor), 0})
	if err != nil {
		return false, err
	}
	return toBool(a[1]), nil
}

func (p *Poller) getFloor() (int, error) {
	a, err := p.read([4]byte{opGetFloorSensor, 0, 0, 0})
	if err != nil {
		return -1, err
	}
	if a[1] != 0 {
		return int(a[2]), nil
	}
	return -1, nil
}

func (p *Poller) read(in [4]byte) ([4]byte, error) {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	var out [4]byte
	if _, err := p.rw.Write(in[:]); err != nil {
		return out, fmt.Errorf("lost connection to motor server: %w", err)
	}
	if _, err := io.ReadFull(p.rw, out[:]); err != nil {
		return out, fmt.Errorf("lost connection to motor server: %w", err)
	}
	return out, nil
}

func toBool(a byte) bool {
	var b bool = false
	if a != 0 {
		b = true
	}
	return b
}
