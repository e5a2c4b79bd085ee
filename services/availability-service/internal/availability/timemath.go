package availability

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

var ErrInvalidClock = errors.New("invalid clock time")

// ToMinutes converts "HH:MM" (or "H:MM") to minutes since midnight.
// "24:00" is accepted as the end of the day.
func ToMinutes(hhmm string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(hhmm), ":")
	if !ok || len(mm) != 2 || len(hh) == 0 || len(hh) > 2 || !allDigits(hh) || !allDigits(mm) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, hhmm)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, hhmm)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, hhmm)
	}
	if h == 24 && m == 0 {
		return minutesPerDay, nil
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, hhmm)
	}
	return h*60 + m, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ToDisplay renders a minute offset as a 12-hour clock ("09:00 AM"). Offsets past midnight
// wrap onto the next day's clock face.
func ToDisplay(minutes int) string {
	minutes %= minutesPerDay
	if minutes < 0 {
		minutes += minutesPerDay
	}
	h, m := minutes/60, minutes%60
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h %= 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%02d:%02d %s", h, m, suffix)
}

// Label is the slot text shown in the picker.
func Label(start, end int) string {
	return ToDisplay(start) + " - " + ToDisplay(end)
}
