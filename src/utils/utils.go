package utils

import (
	"fmt"
	"slices"
	"strings"
)

// SortedFloors returns the members of a floor set in ascending order.
func SortedFloors(set map[int]bool) []int {
	floors := make([]int, 0, len(set))
	for floor, ok := range set {
		if ok {
			floors = append(floors, floor)
		}
	}
	slices.Sort(floors)
	return floors
}

// ForEachFloor is a helper that reduces indentation when acting on all floors of a set in order
func ForEachFloor(set map[int]bool, action func(floor int)) {
	for _, floor := range SortedFloors(set) {
		action(floor)
	}
}

// FormatFloors renders a floor set as "[1 4 7]".
func FormatFloors(set map[int]bool) string {
	parts := make([]string, 0, len(set))
	ForEachFloor(set, func(floor int) {
		parts = append(parts, fmt.Sprint(floor))
	})
	return "[" + strings.Join(parts, " ") + "]"
}

func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
