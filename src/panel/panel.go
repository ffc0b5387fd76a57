package panel

import (
	"sync"

	"liftbank/src/types"
)

// Panel is the call indicator of one floor. Producers register calls while
// the control loop clears them, so access is guarded.
type Panel struct {
	floor int
	mtx   sync.Mutex
	state types.PanelState
}

func New(floor int) *Panel {
	return &Panel{floor: floor, state: types.PS_Off}
}

func (p *Panel) Floor() int {
	return p.floor
}

func (p *Panel) State() types.PanelState {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.state
}

// SetState overwrites the indicator.
func (p *Panel) SetState(state types.PanelState) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	p.state = state
}

// Register merges a call for dir into the indicator and reports the new
// state and whether it changed. Up and Down together light Both.
func (p *Panel) Register(dir types.PanelState) (types.PanelState, bool) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	merged := merge(p.state, dir)
	if merged == p.state {
		return p.state, false
	}
	p.state = merged
	return merged, true
}

func merge(current, call types.PanelState) types.PanelState {
	switch {
	case current == call, call == types.PS_Off:
		return current
	case current == types.PS_Off:
		return call
	default:
		return types.PS_Both
	}
}
