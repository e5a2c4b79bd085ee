package model

import "time"

// DefaultSessionDuration applies when a profile carries no positive session length.
const DefaultSessionDuration = 60

// StatusCancelled is the only session status that never blocks a slot.
const StatusCancelled = "cancelled"

// TimeRange is a wall-clock window in the expert's local time. To may be earlier than From,
// in which case the range ends on the following day.
type TimeRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// WeeklyAvailability is keyed by lowercase three-letter weekday ("mon".."sun").
type WeeklyAvailability map[string][]TimeRange

// BreakDate blacks out the whole calendar day written in Start. Only the leading
// YYYY-MM-DD of Start is significant.
type BreakDate struct {
	Start string `json:"start"`
}

type ProfileAvailability struct {
	Weekly          WeeklyAvailability `json:"weekly"`
	BreakDates      []BreakDate        `json:"breakDates"`
	SessionDuration int                `json:"sessionDuration"`
	MaxPerDay       int                `json:"maxPerDay,omitempty"`
}

// Duration returns the session length in minutes, falling back to DefaultSessionDuration.
func (p ProfileAvailability) Duration() int {
	if p.SessionDuration <= 0 {
		return DefaultSessionDuration
	}
	return p.SessionDuration
}

type BookedSession struct {
	ID        string    `json:"id,omitempty"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Status    string    `json:"status"`
}
