package domain

import "time"

// EventTiming is the authoritative start/end of an event.
// Every denormalized copy (feed memberships, grouped feed entries) is derived
// through this type so there is a single place that defines the stored format.
type EventTiming struct {
	Start time.Time
	End   time.Time
}

// NewEventTiming normalizes start and end to UTC
func NewEventTiming(start, end time.Time) EventTiming {
	return EventTiming{
		Start: start.UTC(),
		End:   end.UTC(),
	}
}

// EventTimingFromMillis rebuilds a timing from denormalized epoch millis
func EventTimingFromMillis(startMillis, endMillis int64) EventTiming {
	return EventTiming{
		Start: time.UnixMilli(startMillis).UTC(),
		End:   time.UnixMilli(endMillis).UTC(),
	}
}

// StartMillis returns the denormalized start time
func (t EventTiming) StartMillis() int64 {
	return t.Start.UnixMilli()
}

// EndMillis returns the denormalized end time
func (t EventTiming) EndMillis() int64 {
	return t.End.UnixMilli()
}

// HasEnded reports whether the event is in the past relative to the given instant.
// An event ending exactly at the instant is still upcoming.
func HasEnded(endMillis int64, at time.Time) bool {
	return endMillis < at.UnixMilli()
}

// HasEnded reports whether the event is in the past relative to the given instant
func (t EventTiming) HasEnded(at time.Time) bool {
	return HasEnded(t.EndMillis(), at)
}

// Valid reports whether both instants are set and the event does not end before it starts
func (t EventTiming) Valid() bool {
	return !t.Start.IsZero() && !t.End.IsZero() && !t.End.Before(t.Start)
}

// YearRange is a half-open [From, To) range of calendar years
type YearRange struct {
	From int
	To   int
}

// MillisBounds returns the epoch millis bounds [from, to) of the year range in UTC
func (r YearRange) MillisBounds() (int64, int64) {
	from := time.Date(r.From, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(r.To, time.January, 1, 0, 0, 0, 0, time.UTC)
	return from.UnixMilli(), to.UnixMilli()
}

// ContainsMillis reports whether an epoch millis value falls into the year range
func (r YearRange) ContainsMillis(ms int64) bool {
	from, to := r.MillisBounds()
	return ms >= from && ms < to
}
