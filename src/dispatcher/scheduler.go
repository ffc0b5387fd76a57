package dispatcher

import (
	"cmp"
	"errors"
	"slices"

	"liftbank/src/types"
	"liftbank/src/utils"
)

var ErrEmptyFleet = errors.New("dispatcher: no elevators to choose from")

// ChooseElevator picks the cab that answers call. Rules, in order:
//  1. The lowest-id idle cab.
//  2. The closest cab travelling the requested way that has not yet passed
//     the call floor. Ties go to the lowest id.
//  3. The cab with the fewest pending destinations, lowest id on ties.
//
// The fleet is only read. Cab ids are opaque keys and need not be contiguous.
func ChooseElevator(call types.FloorCallPressed, fleet []types.ElevState) (int, error) {
	if len(fleet) == 0 {
		return 0, ErrEmptyFleet
	}
	byID := slices.Clone(fleet)
	slices.SortFunc(byID, func(a, b types.ElevState) int { return cmp.Compare(a.ID, b.ID) })

	for _, elevator := range byID {
		if elevator.Idle() {
			return elevator.ID, nil
		}
	}

	if id, ok := closestEnRoute(call, byID); ok {
		return id, nil
	}

	return leastLoaded(byID), nil
}

// closestEnRoute expects fleet sorted by id.
func closestEnRoute(call types.FloorCallPressed, fleet []types.ElevState) (int, bool) {
	bestID, bestDistance := 0, -1
	for _, elevator := range fleet {
		if !call.Dir.Serves(elevator.Dir) || !ahead(elevator, call.Floor) {
			continue
		}
		distance := utils.Abs(elevator.Floor - call.Floor)
		if bestDistance < 0 || distance < bestDistance {
			bestID, bestDistance = elevator.ID, distance
		}
	}
	return bestID, bestDistance >= 0
}

// ahead reports whether floor is still in front of a moving cab.
func ahead(elevator types.ElevState, floor int) bool {
	switch elevator.Dir {
	case types.MD_Up:
		return elevator.Floor < floor
	case types.MD_Down:
		return elevator.Floor > floor
	}
	return false
}

// leastLoaded expects a non-empty fleet sorted by id.
func leastLoaded(fleet []types.ElevState) int {
	best := fleet[0]
	for _, elevator := range fleet[1:] {
		if len(elevator.Destinations) < len(best.Destinations) {
			best = elevator
		}
	}
	return best.ID
}
