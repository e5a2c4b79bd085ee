package availability

import (
	"time"

	"github.com/md-rashed-zaman/interviewbook/services/availability-service/internal/model"
)

// IsBreakDate reports whether date's calendar day is blacked out by any break.
// The leading YYYY-MM-DD of each break start is compared as written, with no zone shift.
func IsBreakDate(date time.Time, breaks []model.BreakDate) bool {
	if len(breaks) == 0 {
		return false
	}
	day := date.Format("2006-01-02")
	for _, b := range breaks {
		if len(b.Start) < len("2006-01-02") {
			continue
		}
		prefix := b.Start[:10]
		if _, err := time.Parse("2006-01-02", prefix); err != nil {
			continue
		}
		if prefix == day {
			return true
		}
	}
	return false
}
