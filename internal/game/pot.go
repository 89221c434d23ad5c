package game

import "slices"

// SplitPot divides pot evenly among the winning seats at a table of the given
// size. Odd chips go one at a time to winners in seat order starting from the
// button, so in heads-up the dealer gets the odd chip.
func SplitPot(pot int, winners []int, button, seats int) map[int]int {
	shares := make(map[int]int, len(winners))
	if len(winners) == 0 || pot <= 0 || seats <= 0 {
		return shares
	}

	order := slices.Clone(winners)
	slices.SortFunc(order, func(a, b int) int {
		return distance(button, a, seats) - distance(button, b, seats)
	})
	order = slices.Compact(order)

	share := pot / len(order)
	remainder := pot % len(order)
	for i, seat := range order {
		shares[seat] = share
		if i < remainder {
			shares[seat]++
		}
	}
	return shares
}

// distance counts seats clockwise from the button to seat.
func distance(button, seat, seats int) int {
	return ((seat-button)%seats + seats) % seats
}
