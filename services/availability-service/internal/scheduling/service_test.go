package scheduling

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/md-rashed-zaman/interviewbook/services/availability-service/internal/model"
	"github.com/md-rashed-zaman/interviewbook/services/availability-service/internal/policy"
	"github.com/md-rashed-zaman/interviewbook/services/availability-service/internal/profiles"
)

type fakeProfiles struct {
	profile model.ProfileAvailability
	err     error
}

func (f fakeProfiles) GetAvailability(context.Context, string) (model.ProfileAvailability, error) {
	return f.profile, f.err
}

type fakeSessions struct {
	sessions []model.BookedSession
	err      error
	from, to time.Time
	calls    int
}

func (f *fakeSessions) ListSessions(_ context.Context, _ string, from, to time.Time) ([]model.BookedSession, error) {
	f.calls++
	f.from, f.to = from, to
	return f.sessions, f.err
}

var (
	testNow = time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)
	monday  = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
)

func mondayMorning() model.ProfileAvailability {
	return model.ProfileAvailability{
		Weekly:          model.WeeklyAvailability{"mon": {{From: "09:00", To: "12:00"}}},
		SessionDuration: 60,
		MaxPerDay:       2,
	}
}

func newTestService(p ProfileSource, s SessionSource, fp policy.FetchFailure) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(p, s, logger, Config{
		FetchFailure: fp,
		Location:     time.UTC,
		RollingDays:  7,
		Now:          func() time.Time { return testNow },
	})
}

func TestDaySlots_MarksBookedSlot(t *testing.T) {
	sessions := &fakeSessions{sessions: []model.BookedSession{{
		StartTime: monday.Add(10 * time.Hour),
		EndTime:   monday.Add(11 * time.Hour),
		Status:    "confirmed",
	}}}
	svc := newTestService(fakeProfiles{profile: mondayMorning()}, sessions, policy.Block)

	day, err := svc.DaySlots(context.Background(), "e1", monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(day.Slots) != 3 || day.AvailableCount != 2 {
		t.Fatalf("expected 3 slots with 2 available, got %d/%d", len(day.Slots), day.AvailableCount)
	}
	if day.Slots[1].Available {
		t.Fatalf("expected 10:00 slot to be booked")
	}
	if !day.Slots[0].StartTime.Equal(monday.Add(9*time.Hour)) || !day.Slots[0].EndTime.Equal(monday.Add(10*time.Hour)) {
		t.Fatalf("unexpected bounds %v-%v", day.Slots[0].StartTime, day.Slots[0].EndTime)
	}
	if day.MaxPerDay != 2 || day.Degraded {
		t.Fatalf("unexpected day metadata %+v", day)
	}
	if !sessions.from.Equal(monday) || !sessions.to.Equal(monday.AddDate(0, 0, 2)) {
		t.Fatalf("unexpected fetch window %v-%v", sessions.from, sessions.to)
	}
}

func TestDaySlots_BlockPolicyFailsOnSessionError(t *testing.T) {
	sessions := &fakeSessions{err: errors.New("db down")}
	svc := newTestService(fakeProfiles{profile: mondayMorning()}, sessions, policy.Block)

	_, err := svc.DaySlots(context.Background(), "e1", monday)
	if !errors.Is(err, ErrSessionsUnavailable) {
		t.Fatalf("expected ErrSessionsUnavailable, got %v", err)
	}
}

func TestDaySlots_AssumeFreeDegrades(t *testing.T) {
	sessions := &fakeSessions{err: errors.New("db down")}
	svc := newTestService(fakeProfiles{profile: mondayMorning()}, sessions, policy.AssumeFree)

	day, err := svc.DaySlots(context.Background(), "e1", monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !day.Degraded || day.AvailableCount != 3 {
		t.Fatalf("expected degraded day with 3 free slots, got %+v", day)
	}
}

func TestDaySlots_UnknownExpertIsEmpty(t *testing.T) {
	sessions := &fakeSessions{}
	svc := newTestService(fakeProfiles{err: profiles.ErrNotFound}, sessions, policy.Block)

	day, err := svc.DaySlots(context.Background(), "missing", monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if day.Slots == nil || len(day.Slots) != 0 {
		t.Fatalf("expected empty non-nil slots, got %#v", day.Slots)
	}
	if sessions.calls != 0 {
		t.Fatalf("expected no session lookup, got %d", sessions.calls)
	}
}

func TestDaySlots_ProfileError(t *testing.T) {
	svc := newTestService(fakeProfiles{err: errors.New("timeout")}, &fakeSessions{}, policy.AssumeFree)

	_, err := svc.DaySlots(context.Background(), "e1", monday)
	if !errors.Is(err, ErrProfileUnavailable) {
		t.Fatalf("expected ErrProfileUnavailable, got %v", err)
	}
}

func TestDaySlots_PastDayIsEmpty(t *testing.T) {
	sessions := &fakeSessions{}
	svc := newTestService(fakeProfiles{profile: mondayMorning()}, sessions, policy.Block)

	// 2026-10-12 is the Monday before testNow.
	day, err := svc.DaySlots(context.Background(), "e1", time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if day.Slots == nil || len(day.Slots) != 0 || day.AvailableCount != 0 {
		t.Fatalf("expected empty past day, got %+v", day)
	}
	if sessions.calls != 0 {
		t.Fatalf("expected no session lookup, got %d", sessions.calls)
	}
}

func TestCalendar_MonthSkipsPastDays(t *testing.T) {
	sessions := &fakeSessions{}
	svc := newTestService(fakeProfiles{profile: mondayMorning()}, sessions, policy.Block)

	res, err := svc.Calendar(context.Background(), "e1", Window{Mode: WindowMonth})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// October 15 through 31.
	if len(res.Days) != 17 {
		t.Fatalf("expected 17 days, got %d", len(res.Days))
	}
	if !res.Days[0].Date.Equal(time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected first day %v", res.Days[0].Date)
	}
	// Mondays 19 and 26.
	if res.TotalAvailable != 6 {
		t.Fatalf("expected 6 available, got %d", res.TotalAvailable)
	}
	if sessions.calls != 1 {
		t.Fatalf("expected one session lookup, got %d", sessions.calls)
	}
	if !sessions.to.Equal(time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected fetch end %v", sessions.to)
	}
}

func TestCalendar_RollingDefaultsToConfiguredDays(t *testing.T) {
	svc := newTestService(fakeProfiles{profile: mondayMorning()}, &fakeSessions{}, policy.Block)

	res, err := svc.Calendar(context.Background(), "e1", Window{Mode: WindowRolling})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Days) != 7 || res.TotalAvailable != 3 {
		t.Fatalf("expected 7 days with 3 slots, got %d/%d", len(res.Days), res.TotalAvailable)
	}
	if res.MaxPerDay != 2 {
		t.Fatalf("expected max per day 2, got %d", res.MaxPerDay)
	}
}

func TestParseDate_UsesServiceLocation(t *testing.T) {
	loc := time.FixedZone("UTC+6", 6*60*60)
	svc := NewService(fakeProfiles{}, &fakeSessions{}, slog.New(slog.NewTextHandler(io.Discard, nil)), Config{Location: loc})

	d, err := svc.ParseDate("2026-10-19")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Location() != loc || d.Hour() != 0 {
		t.Fatalf("unexpected date %v", d)
	}
	if _, err := svc.ParseDate("19/10/2026"); err == nil {
		t.Fatalf("expected parse error")
	}
}
