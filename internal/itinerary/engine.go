// Package itinerary generates and reconciles the days of a trip, reorders
// stops within a day, and aggregates trip statistics.
//
// Nothing here performs I/O or keeps state between calls. Functions that take
// a slice treat it as read-only, except ReorderStops, which rearranges the
// slice it is given.
package itinerary

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/tripwit/internal/domain"
)

// Engine runs the date-dependent itinerary operations against one Calendar.
// An Engine is immutable and safe for concurrent use.
type Engine struct {
	cal Calendar
}

// New returns an Engine that resolves calendar days with cal.
// A nil cal means UTC.
func New(cal Calendar) *Engine {
	if cal == nil {
		cal = UTC
	}
	return &Engine{cal: cal}
}

// Calendar returns the calendar the engine was built with.
func (e *Engine) Calendar() Calendar { return e.cal }

// GenerateDays returns one Day per calendar day from trip.StartDate through
// trip.EndDate inclusive. DayNumber starts at 1 and Date is the start of the
// day. Each Day gets a fresh ID and no stops.
// A trip whose end day precedes its start day yields no days.
func (e *Engine) GenerateDays(trip domain.Trip) []domain.Day {
	dates := datesInRange(e.cal, trip.StartDate, trip.EndDate)
	days := make([]domain.Day, len(dates))
	for i, d := range dates {
		days[i] = domain.Day{
			ID:        uuid.New(),
			TripID:    trip.ID,
			Date:      d,
			DayNumber: i + 1,
		}
	}
	return days
}

// SyncDays works out which existing days survive a change of the trip's date
// range to [newStart, newEnd]. Days are matched on calendar date alone, so a
// surviving day keeps its ID, notes and stops whatever time-of-day it stored.
// Dates in the new range that no existing day covers are returned in
// chronological order.
func (e *Engine) SyncDays(newStart, newEnd time.Time, existing []domain.Day) domain.DaySyncResult {
	dates := datesInRange(e.cal, newStart, newEnd)
	inRange := make(map[dateKey]struct{}, len(dates))
	for _, d := range dates {
		inRange[keyOf(e.cal, d)] = struct{}{}
	}

	result := domain.DaySyncResult{
		KeepDayIDs:   domain.NewIDSet(),
		DatesToAdd:   []time.Time{},
		RemoveDayIDs: domain.NewIDSet(),
	}
	covered := make(map[dateKey]struct{}, len(existing))

	for _, day := range existing {
		k := keyOf(e.cal, day.Date)
		if _, ok := inRange[k]; ok {
			result.KeepDayIDs.Add(day.ID)
			covered[k] = struct{}{}
		} else {
			result.RemoveDayIDs.Add(day.ID)
		}
	}

	for _, d := range dates {
		if _, ok := covered[keyOf(e.cal, d)]; !ok {
			result.DatesToAdd = append(result.DatesToAdd, d)
		}
	}
	return result
}

// DurationInDays returns the number of calendar days the trip spans, counting
// both ends. It is zero when the end day precedes the start day.
func (e *Engine) DurationInDays(trip domain.Trip) int {
	return len(datesInRange(e.cal, trip.StartDate, trip.EndDate))
}

// StatusAt classifies the trip relative to now: planning before its first
// day starts, active until its last day ends, completed afterwards.
func (e *Engine) StatusAt(trip domain.Trip, now time.Time) domain.TripStatus {
	start := e.cal.StartOfDay(trip.StartDate)
	endExclusive := e.cal.AddDays(trip.EndDate, 1)
	switch {
	case now.Before(start):
		return domain.TripStatusPlanning
	case now.Before(endExclusive):
		return domain.TripStatusActive
	default:
		return domain.TripStatusCompleted
	}
}

// Localize reinterprets the wall-clock date of t, read in t's own zone, as a
// date on the engine's calendar. Dates that come back from storage or from a
// request as UTC midnight keep their year, month and day.
func (e *Engine) Localize(t time.Time) time.Time {
	y, m, d := t.Date()
	return e.cal.Date(y, m, d)
}

// LocalizeTrip applies Localize to the trip's date range and to every day.
func (e *Engine) LocalizeTrip(trip *domain.Trip) {
	trip.StartDate = e.Localize(trip.StartDate)
	trip.EndDate = e.Localize(trip.EndDate)
	for i := range trip.Days {
		trip.Days[i].Date = e.Localize(trip.Days[i].Date)
	}
}

// RenumberDays sorts days by calendar date and sets DayNumber to 1..n.
// Days sharing a date keep their relative order. The slice is modified in place.
func (e *Engine) RenumberDays(days []domain.Day) {
	sort.SliceStable(days, func(i, j int) bool {
		return e.cal.StartOfDay(days[i].Date).Before(e.cal.StartOfDay(days[j].Date))
	})
	for i := range days {
		days[i].DayNumber = i + 1
	}
}
