package availability

import (
	"testing"
	"time"

	"github.com/md-rashed-zaman/interviewbook/services/availability-service/internal/model"
)

func TestIsBreakDate(t *testing.T) {
	date := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name   string
		breaks []model.BreakDate
		want   bool
	}{
		{"none", nil, false},
		{"date only", []model.BreakDate{{Start: "2026-10-20"}}, true},
		{"iso datetime", []model.BreakDate{{Start: "2026-10-20T23:30:00.000Z"}}, true},
		{"other day", []model.BreakDate{{Start: "2026-10-21"}}, false},
		{"malformed ignored", []model.BreakDate{{Start: "soon"}, {Start: "2026-13-40"}, {Start: "2026-10-20"}}, true},
	}
	for _, tc := range cases {
		if got := IsBreakDate(date, tc.breaks); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestIsBreakDate_IgnoresTimeOfDayOnDate(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	date := time.Date(2026, 10, 20, 23, 45, 0, 0, loc)
	if !IsBreakDate(date, []model.BreakDate{{Start: "2026-10-20"}}) {
		t.Fatal("expected break regardless of the date's time of day")
	}
}
