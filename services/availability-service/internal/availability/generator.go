package availability

import (
	"sort"
	"strings"
	"time"

	"github.com/md-rashed-zaman/interviewbook/services/availability-service/internal/model"
)

// TimeSlot is one fixed-length window on a calendar date. StartMinute and EndMinute are offsets
// from that date's midnight and exceed 1440 for slots from a range that crosses midnight.
type TimeSlot struct {
	Time        string `json:"time"`
	Available   bool   `json:"available"`
	StartMinute int    `json:"-"`
	EndMinute   int    `json:"-"`
}

// DayKey is the weekly-availability key for date ("mon".."sun").
func DayKey(date time.Time) string {
	return strings.ToLower(date.Weekday().String()[:3])
}

// Generate expands the weekly ranges for date's weekday into durationMinutes slots, all available.
// A trailing remainder shorter than durationMinutes is dropped. Ranges that fail to parse are
// skipped without affecting the others.
func Generate(date time.Time, weekly model.WeeklyAvailability, durationMinutes int) []TimeSlot {
	if durationMinutes <= 0 {
		durationMinutes = model.DefaultSessionDuration
	}
	ranges := weekly[DayKey(date)]
	if len(ranges) == 0 {
		return nil
	}

	var slots []TimeSlot
	for _, r := range ranges {
		start, err := ToMinutes(r.From)
		if err != nil {
			continue
		}
		end, err := ToMinutes(r.To)
		if err != nil {
			continue
		}
		if end < start {
			end += minutesPerDay
		}
		for cursor := start; cursor+durationMinutes <= end; cursor += durationMinutes {
			slots = append(slots, TimeSlot{
				Time:        Label(cursor, cursor+durationMinutes),
				Available:   true,
				StartMinute: cursor,
				EndMinute:   cursor + durationMinutes,
			})
		}
	}
	sortByStart(slots)
	return slots
}

func sortByStart(slots []TimeSlot) {
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].StartMinute < slots[j].StartMinute
	})
}
