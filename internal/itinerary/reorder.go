package itinerary

import "github.com/pkordes/tripwit/internal/domain"

// ReorderStops moves the stop at index from so that it ends up at index to,
// shifting the stops in between, then sets every SortOrder to its new index.
//
// Out-of-range indices and from == to leave stops untouched and return false;
// invalid moves are ignored rather than reported. ReorderStops rearranges the
// caller's slice in place and must not run concurrently on the same slice.
func ReorderStops(stops []domain.Stop, from, to int) bool {
	n := len(stops)
	if from == to || from < 0 || from >= n || to < 0 || to >= n {
		return false
	}

	moved := stops[from]
	if from < to {
		copy(stops[from:to], stops[from+1:to+1])
	} else {
		copy(stops[to+1:from+1], stops[to:from])
	}
	stops[to] = moved

	for i := range stops {
		stops[i].SortOrder = i
	}
	return true
}
