package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/md-rashed-zaman/interviewbook/services/availability-service/internal/scheduling"
)

const maxCalendarDays = 62

type Scheduler interface {
	ParseDate(raw string) (time.Time, error)
	DaySlots(ctx context.Context, expertID string, date time.Time) (scheduling.DayResult, error)
	Calendar(ctx context.Context, expertID string, w scheduling.Window) (scheduling.CalendarResult, error)
}

type SlotsHandler struct {
	scheduler Scheduler
	logger    *slog.Logger
}

func NewSlotsHandler(scheduler Scheduler, logger *slog.Logger) *SlotsHandler {
	return &SlotsHandler{scheduler: scheduler, logger: logger}
}

type slotItem struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type dayResponse struct {
	Date           string     `json:"date"`
	Slots          []slotItem `json:"slots"`
	AvailableCount int        `json:"available_count"`
	MaxPerDay      int        `json:"max_per_day"`
	Degraded       bool       `json:"degraded"`
}

type calendarResponse struct {
	Days           []dayResponse `json:"days"`
	TotalAvailable int           `json:"total_available"`
	MaxPerDay      int           `json:"max_per_day"`
	Degraded       bool          `json:"degraded"`
}

func (h *SlotsHandler) Slots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	expertID, ok := expertIDParam(w, r)
	if !ok {
		return
	}
	dateStr := strings.TrimSpace(r.URL.Query().Get("date"))
	if dateStr == "" {
		http.Error(w, "date is required", http.StatusBadRequest)
		return
	}
	date, err := h.scheduler.ParseDate(dateStr)
	if err != nil {
		http.Error(w, "invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	day, err := h.scheduler.DaySlots(r.Context(), expertID, date)
	if err != nil {
		h.writeSchedulingError(w, expertID, err)
		return
	}
	writeJSON(w, toDayResponse(day))
}

func (h *SlotsHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	expertID, ok := expertIDParam(w, r)
	if !ok {
		return
	}

	window := scheduling.Window{Mode: scheduling.WindowRolling}
	switch mode := strings.TrimSpace(r.URL.Query().Get("mode")); mode {
	case "", string(scheduling.WindowRolling):
	case string(scheduling.WindowMonth):
		window.Mode = scheduling.WindowMonth
	default:
		http.Error(w, "mode must be month or rolling", http.StatusBadRequest)
		return
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("days")); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days <= 0 || days > maxCalendarDays {
			http.Error(w, "days must be between 1 and 62", http.StatusBadRequest)
			return
		}
		window.Days = days
	}

	cal, err := h.scheduler.Calendar(r.Context(), expertID, window)
	if err != nil {
		h.writeSchedulingError(w, expertID, err)
		return
	}

	resp := calendarResponse{
		Days:           make([]dayResponse, 0, len(cal.Days)),
		TotalAvailable: cal.TotalAvailable,
		MaxPerDay:      cal.MaxPerDay,
		Degraded:       cal.Degraded,
	}
	for _, d := range cal.Days {
		resp.Days = append(resp.Days, toDayResponse(d))
	}
	writeJSON(w, resp)
}

func (h *SlotsHandler) writeSchedulingError(w http.ResponseWriter, expertID string, err error) {
	switch {
	case errors.Is(err, scheduling.ErrSessionsUnavailable), errors.Is(err, scheduling.ErrProfileUnavailable):
		h.logger.Error("availability lookup failed", "expert_id", expertID, "err", err)
		http.Error(w, "availability temporarily unavailable", http.StatusServiceUnavailable)
	default:
		h.logger.Error("availability computation failed", "expert_id", expertID, "err", err)
		http.Error(w, "failed to compute availability", http.StatusInternalServerError)
	}
}

func expertIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("expert_id"))
	if raw == "" {
		http.Error(w, "expert_id is required", http.StatusBadRequest)
		return "", false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		http.Error(w, "invalid expert_id", http.StatusBadRequest)
		return "", false
	}
	return id.String(), true
}

func toDayResponse(day scheduling.DayResult) dayResponse {
	items := make([]slotItem, 0, len(day.Slots))
	for _, s := range day.Slots {
		items = append(items, slotItem{
			Time:      s.Time,
			Available: s.Available,
			StartTime: s.StartTime.Format(time.RFC3339),
			EndTime:   s.EndTime.Format(time.RFC3339),
		})
	}
	return dayResponse{
		Date:           day.Date.Format("2006-01-02"),
		Slots:          items,
		AvailableCount: day.AvailableCount,
		MaxPerDay:      day.MaxPerDay,
		Degraded:       day.Degraded,
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to build response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
