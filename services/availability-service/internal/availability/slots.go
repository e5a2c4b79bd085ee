package availability

import (
	"time"

	"github.com/md-rashed-zaman/interviewbook/services/availability-service/internal/model"
)

// GetAvailableSlots returns the bookable slots for date, ordered by start time.
//
// The result is empty (never nil) when profile or its weekly map is missing, when date is a
// break date, or when date's weekday has no ranges. now decides which of today's slots are past.
func GetAvailableSlots(date time.Time, profile *model.ProfileAvailability, sessions []model.BookedSession, now time.Time) []TimeSlot {
	if profile == nil || len(profile.Weekly) == 0 {
		return []TimeSlot{}
	}
	if IsBreakDate(date, profile.BreakDates) {
		return []TimeSlot{}
	}
	candidates := Generate(date, profile.Weekly, profile.Duration())
	if len(candidates) == 0 {
		return []TimeSlot{}
	}
	slots := Resolve(date, candidates, sessions, now)
	sortByStart(slots)
	return slots
}

func CountAvailable(slots []TimeSlot) int {
	n := 0
	for _, s := range slots {
		if s.Available {
			n++
		}
	}
	return n
}

type Day struct {
	Date  time.Time
	Slots []TimeSlot
}

// Calendar computes each date independently and returns the total of available slots.
func Calendar(dates []time.Time, profile *model.ProfileAvailability, sessions []model.BookedSession, now time.Time) ([]Day, int) {
	days := make([]Day, 0, len(dates))
	total := 0
	for _, d := range dates {
		slots := GetAvailableSlots(d, profile, sessions, now)
		total += CountAvailable(slots)
		days = append(days, Day{Date: d, Slots: slots})
	}
	return days, total
}
