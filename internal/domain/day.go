package domain

import (
	"bytes"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Day is one calendar day of a trip. Only the calendar date of Date matters
// for matching; its time-of-day is whatever the producer stored.
type Day struct {
	ID        uuid.UUID `json:"id"`
	TripID    uuid.UUID `json:"trip_id"`
	Date      time.Time `json:"date"`
	DayNumber int       `json:"day_number"`
	Notes     string    `json:"notes,omitempty"`
	Stops     []Stop    `json:"stops,omitempty"`
}

// DaySyncResult describes how to bring a trip's stored days in line with a
// new date range. Every existing day ID appears in exactly one of KeepDayIDs
// and RemoveDayIDs. DatesToAdd is in chronological order.
type DaySyncResult struct {
	KeepDayIDs   IDSet
	DatesToAdd   []time.Time
	RemoveDayIDs IDSet
}

// IDSet is an unordered set of IDs.
type IDSet map[uuid.UUID]struct{}

// NewIDSet returns a set holding ids.
func NewIDSet(ids ...uuid.UUID) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id into the set.
func (s IDSet) Add(id uuid.UUID) { s[id] = struct{}{} }

// Has reports whether id is in the set.
func (s IDSet) Has(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of IDs in the set.
func (s IDSet) Len() int { return len(s) }

// Sorted returns the IDs in byte order, for stable output and SQL arguments.
func (s IDSet) Sorted() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i][:], out[j][:]) < 0
	})
	return out
}
