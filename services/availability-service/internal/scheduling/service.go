package scheduling

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	otelx "github.com/md-rashed-zaman/interviewbook/libs/otel"
	"github.com/md-rashed-zaman/interviewbook/services/availability-service/internal/availability"
	"github.com/md-rashed-zaman/interviewbook/services/availability-service/internal/model"
	"github.com/md-rashed-zaman/interviewbook/services/availability-service/internal/policy"
	"github.com/md-rashed-zaman/interviewbook/services/availability-service/internal/profiles"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrProfileUnavailable  = errors.New("expert profile unavailable")
	ErrSessionsUnavailable = errors.New("booked sessions unavailable")
)

type ProfileSource interface {
	GetAvailability(ctx context.Context, expertID string) (model.ProfileAvailability, error)
}

type SessionSource interface {
	ListSessions(ctx context.Context, expertID string, from, to time.Time) ([]model.BookedSession, error)
}

type Slot struct {
	Time      string
	Available bool
	StartTime time.Time
	EndTime   time.Time
}

type DayResult struct {
	Date           time.Time
	Slots          []Slot
	AvailableCount int
	MaxPerDay      int
	Degraded       bool
}

type CalendarResult struct {
	Days           []DayResult
	TotalAvailable int
	MaxPerDay      int
	Degraded       bool
}

type WindowMode string

const (
	WindowMonth   WindowMode = "month"
	WindowRolling WindowMode = "rolling"
)

type Window struct {
	Mode WindowMode
	Days int
}

type Config struct {
	FetchFailure policy.FetchFailure
	Location     *time.Location
	RollingDays  int
	Now          func() time.Time
}

type Service struct {
	profiles ProfileSource
	sessions SessionSource
	logger   *slog.Logger
	policy   policy.FetchFailure
	loc      *time.Location
	rolling  int
	now      func() time.Time
	tracer   trace.Tracer
}

func NewService(profileSource ProfileSource, sessions SessionSource, logger *slog.Logger, cfg Config) *Service {
	if cfg.FetchFailure == "" {
		cfg.FetchFailure = policy.Block
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.RollingDays <= 0 {
		cfg.RollingDays = 14
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service{
		profiles: profileSource,
		sessions: sessions,
		logger:   logger,
		policy:   cfg.FetchFailure,
		loc:      cfg.Location,
		rolling:  cfg.RollingDays,
		now:      cfg.Now,
		tracer:   otelx.Tracer("availability"),
	}
}

// Location is where calendar dates and weekly ranges are interpreted.
func (s *Service) Location() *time.Location {
	return s.loc
}

// ParseDate reads YYYY-MM-DD as midnight in the service location.
func (s *Service) ParseDate(raw string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", raw, s.loc)
}

func (s *Service) DaySlots(ctx context.Context, expertID string, date time.Time) (DayResult, error) {
	ctx, span := s.tracer.Start(ctx, "availability.day_slots", trace.WithAttributes(
		attribute.String("expert.id", expertID),
		attribute.String("date", date.Format("2006-01-02")),
	))
	defer span.End()

	date = availability.Midnight(date.In(s.loc))
	now := s.now().In(s.loc)
	// Past days are not bookable; the calendar drops them the same way.
	if date.Before(availability.Midnight(now)) {
		return DayResult{Date: date, Slots: []Slot{}}, nil
	}

	profile, found, err := s.loadProfile(ctx, expertID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return DayResult{}, err
	}
	if !found {
		return DayResult{Date: date, Slots: []Slot{}}, nil
	}

	sessions, degraded, err := s.loadSessions(ctx, expertID, date, date)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return DayResult{}, err
	}

	day := toDayResult(date, availability.GetAvailableSlots(date, &profile, sessions, now))
	day.MaxPerDay = profile.MaxPerDay
	day.Degraded = degraded
	span.SetAttributes(attribute.Int("slots.available", day.AvailableCount))
	return day, nil
}

func (s *Service) Calendar(ctx context.Context, expertID string, w Window) (CalendarResult, error) {
	ctx, span := s.tracer.Start(ctx, "availability.calendar", trace.WithAttributes(
		attribute.String("expert.id", expertID),
		attribute.String("window.mode", string(w.Mode)),
	))
	defer span.End()

	now := s.now().In(s.loc)
	dates := s.windowDates(now, w)
	if len(dates) == 0 {
		return CalendarResult{Days: []DayResult{}}, nil
	}

	profile, found, err := s.loadProfile(ctx, expertID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return CalendarResult{}, err
	}
	if !found {
		days := make([]DayResult, 0, len(dates))
		for _, d := range dates {
			days = append(days, DayResult{Date: d, Slots: []Slot{}})
		}
		return CalendarResult{Days: days}, nil
	}

	sessions, degraded, err := s.loadSessions(ctx, expertID, dates[0], dates[len(dates)-1])
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return CalendarResult{}, err
	}

	computed, total := availability.Calendar(dates, &profile, sessions, now)
	res := CalendarResult{
		Days:           make([]DayResult, 0, len(computed)),
		TotalAvailable: total,
		MaxPerDay:      profile.MaxPerDay,
		Degraded:       degraded,
	}
	for _, d := range computed {
		day := toDayResult(d.Date, d.Slots)
		day.MaxPerDay = profile.MaxPerDay
		day.Degraded = degraded
		res.Days = append(res.Days, day)
	}
	span.SetAttributes(attribute.Int("slots.available", total))
	return res, nil
}

// windowDates enumerates the window and drops days before today; past days are not bookable.
func (s *Service) windowDates(now time.Time, w Window) []time.Time {
	var dates []time.Time
	switch w.Mode {
	case WindowMonth:
		dates = availability.MonthDates(now)
	default:
		days := w.Days
		if days <= 0 {
			days = s.rolling
		}
		dates = availability.RollingDates(now, days)
	}
	today := availability.Midnight(now)
	out := dates[:0]
	for _, d := range dates {
		if !d.Before(today) {
			out = append(out, d)
		}
	}
	return out
}

func (s *Service) loadProfile(ctx context.Context, expertID string) (model.ProfileAvailability, bool, error) {
	p, err := s.profiles.GetAvailability(ctx, expertID)
	if err != nil {
		if errors.Is(err, profiles.ErrNotFound) {
			return model.ProfileAvailability{}, false, nil
		}
		return model.ProfileAvailability{}, false, fmt.Errorf("%w: %v", ErrProfileUnavailable, err)
	}
	return p, true, nil
}

// loadSessions covers first..last plus one extra day, since midnight-crossing slots end tomorrow.
func (s *Service) loadSessions(ctx context.Context, expertID string, first, last time.Time) ([]model.BookedSession, bool, error) {
	from := availability.Midnight(first)
	to := availability.Midnight(last).AddDate(0, 0, 2)

	sessions, err := s.sessions.ListSessions(ctx, expertID, from, to)
	if err == nil {
		return sessions, false, nil
	}
	if s.policy == policy.AssumeFree {
		s.logger.Warn("booked sessions fetch failed; computing slots as if nothing is booked",
			"expert_id", expertID, "err", err)
		return nil, true, nil
	}
	return nil, false, fmt.Errorf("%w: %v", ErrSessionsUnavailable, err)
}

func toDayResult(date time.Time, slots []availability.TimeSlot) DayResult {
	out := make([]Slot, 0, len(slots))
	for _, ts := range slots {
		b := availability.SlotBounds(date, ts)
		out = append(out, Slot{Time: ts.Time, Available: ts.Available, StartTime: b.Start, EndTime: b.End})
	}
	return DayResult{Date: date, Slots: out, AvailableCount: availability.CountAvailable(slots)}
}
