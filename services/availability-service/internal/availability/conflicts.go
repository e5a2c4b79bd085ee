package availability

import (
	"time"

	"github.com/md-rashed-zaman/interviewbook/services/availability-service/internal/model"
)

type Interval struct {
	Start time.Time
	End   time.Time
}

// SlotBounds anchors a slot's start to date as a wall-clock instant in date's location.
// The end is the start plus the slot length in elapsed time, so a slot keeps its duration
// across a daylight-saving change.
func SlotBounds(date time.Time, slot TimeSlot) Interval {
	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, slot.StartMinute, 0, 0, date.Location())
	return Interval{
		Start: start,
		End:   start.Add(time.Duration(slot.EndMinute-slot.StartMinute) * time.Minute),
	}
}

// Resolve drops slots that already started when date is today and marks the rest unavailable
// when they overlap a blocking session. Booked slots stay in the result.
func Resolve(date time.Time, slots []TimeSlot, sessions []model.BookedSession, now time.Time) []TimeSlot {
	busy := busyIntervals(sessions)
	today := SameDay(date, now)
	nowMinute := 0
	if today {
		local := now.In(date.Location())
		nowMinute = local.Hour()*60 + local.Minute()
	}

	out := make([]TimeSlot, 0, len(slots))
	for _, s := range slots {
		if today && s.StartMinute <= nowMinute {
			continue
		}
		bounds := SlotBounds(date, s)
		s.Available = !overlapsAny(bounds.Start, bounds.End, busy)
		out = append(out, s)
	}
	return out
}

func busyIntervals(sessions []model.BookedSession) []Interval {
	busy := make([]Interval, 0, len(sessions))
	for _, s := range sessions {
		if !s.Blocks() {
			continue
		}
		busy = append(busy, Interval{Start: s.StartTime, End: s.EndTime})
	}
	return busy
}

func overlapsAny(start, end time.Time, busy []Interval) bool {
	for _, b := range busy {
		// Half-open intervals: [start,end) overlaps [b.Start,b.End) iff start < b.End && b.Start < end.
		if start.Before(b.End) && b.Start.Before(end) {
			return true
		}
	}
	return false
}
