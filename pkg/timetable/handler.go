package timetable

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/edt-iut/timetable/internal/rest"
	"github.com/edt-iut/timetable/pkg/calendar"
	"github.com/edt-iut/timetable/pkg/ical"
	"github.com/edt-iut/timetable/pkg/stats"
	"github.com/edt-iut/timetable/pkg/week"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type WeekDTO struct {
	Week  string    `json:"week"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Dates []string  `json:"dates"`
}

type TotalDTO struct {
	Total   string `json:"total"`
	Minutes int    `json:"minutes"`
	HasData bool   `json:"hasData"`
}

type DailySummaryDTO struct {
	Date     string `json:"date"`
	Sessions int    `json:"sessions"`
	Excluded int    `json:"excluded"`
	Minutes  int    `json:"minutes"`
	Total    string `json:"total"`
}

type SummaryDTO struct {
	Week    string            `json:"week"`
	Days    []DailySummaryDTO `json:"days"`
	Minutes int               `json:"minutes"`
	Total   string            `json:"total"`
	HasData bool              `json:"hasData"`
}

type CalendarStatusDTO struct {
	Weeks    int    `json:"weeks"`
	Events   int    `json:"events"`
	Degraded bool   `json:"degraded"`
	Error    string `json:"error,omitempty"`
}

type SelectionRequestDTO struct {
	Id string `json:"id"`
}

type Handler struct {
	session     *Session
	csvRenderer *stats.CsvStatsRenderer
}

func NewHandler(session *Session, csvRenderer *stats.CsvStatsRenderer) *Handler {
	return &Handler{
		session:     session,
		csvRenderer: csvRenderer,
	}
}

func weekToDTO(interval week.Interval) WeekDTO {
	return WeekDTO{
		Week:  interval.Number().String(),
		Start: interval.Start,
		End:   interval.End,
		Dates: week.Dates(interval),
	}
}

// GetWeek godoc
// @Summary Get the displayed week
// @Tags Week
// @Produce json
// @Success 200 {object} WeekDTO
// @Router /api/week [get]
func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, weekToDTO(h.session.WeekInterval()))
}

// Today godoc
// @Summary Show the current week
// @Tags Week
// @Produce json
// @Success 200 {object} WeekDTO
// @Router /api/week/today [post]
func (h *Handler) Today(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, weekToDTO(h.session.ResetToToday(r.Context())))
}

// Previous godoc
// @Summary Show the previous week
// @Tags Week
// @Produce json
// @Success 200 {object} WeekDTO
// @Router /api/week/previous [post]
func (h *Handler) Previous(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, weekToDTO(h.session.PreviousWeek(r.Context())))
}

// Next godoc
// @Summary Show the next week
// @Tags Week
// @Produce json
// @Success 200 {object} WeekDTO
// @Router /api/week/next [post]
func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, weekToDTO(h.session.NextWeek(r.Context())))
}

// GoToWeek godoc
// @Summary Show a given ISO week
// @Tags Week
// @Produce json
// @Param week query string true "ISO week, e.g. 2025-W03"
// @Success 200 {object} WeekDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid week"
// @Router /api/week [put]
func (h *Handler) GoToWeek(w http.ResponseWriter, r *http.Request) {
	n, err := week.NumberFromString(r.URL.Query().Get("week"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid week format", "Week must be an ISO week such as 2025-W03")
		return
	}
	rest.WriteJSON(w, http.StatusOK, weekToDTO(h.session.GoToWeek(r.Context(), n)))
}

func (h *Handler) GetDates(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, h.session.DatesInWeek())
}

// GetFormattedEvents godoc
// @Summary Get the displayed week, one entry per day, adjacent sessions merged
// @Tags Week
// @Produce json
// @Success 200 {array} calendar.Day
// @Router /api/week/events [get]
func (h *Handler) GetFormattedEvents(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, h.session.FormattedEvents())
}

// GetRawWeek godoc
// @Summary Get the calendar week matching the displayed week, unmerged
// @Tags Week
// @Produce json
// @Success 200 {object} calendar.Week
// @Failure 404 {object} rest.ErrorResponse "No data for week"
// @Router /api/week/raw [get]
func (h *Handler) GetRawWeek(w http.ResponseWriter, r *http.Request) {
	resolved, ok := h.session.EventsForWeek()
	if !ok {
		interval := h.session.WeekInterval()
		rest.WriteError(w, http.StatusNotFound, ErrNoDataForWeek.Error(), interval.Number().String())
		return
	}
	rest.WriteJSON(w, http.StatusOK, resolved)
}

// GetTotal godoc
// @Summary Get the number of hours of the displayed week
// @Tags Week
// @Produce json
// @Success 200 {object} TotalDTO
// @Router /api/week/total [get]
func (h *Handler) GetTotal(w http.ResponseWriter, r *http.Request) {
	total, found := h.session.TotalForWeek()
	rest.WriteJSON(w, http.StatusOK, TotalDTO{
		Total:   stats.FormatHours(total),
		Minutes: int(total.Minutes()),
		HasData: found,
	})
}

// GetSummary godoc
// @Summary Get the per-day breakdown of the displayed week
// @Tags Week
// @Produce json
// @Produce text/csv
// @Param format query string false "csv for a CSV export"
// @Success 200 {object} SummaryDTO
// @Router /api/week/summary [get]
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary := h.session.Summary()
	weekNumber := week.NumberFromDate(summary.StartDate).String()

	if r.URL.Query().Get("format") == "csv" {
		csv, err := h.csvRenderer.RenderStats(summary)
		if err != nil {
			rest.WriteError(w, http.StatusInternalServerError, "Failed to render summary", err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"edt-%s.csv\"", weekNumber))
		if _, err := w.Write([]byte(csv)); err != nil {
			log.Errorf("failed to write csv summary: %v", err)
		}
		return
	}

	days := make([]DailySummaryDTO, 0, len(summary.Days))
	for _, d := range summary.Days {
		days = append(days, DailySummaryDTO{
			Date:     d.Date,
			Sessions: d.Sessions,
			Excluded: d.Excluded,
			Minutes:  int(d.TotalTime.Minutes()),
			Total:    stats.FormatHours(d.TotalTime),
		})
	}
	rest.WriteJSON(w, http.StatusOK, SummaryDTO{
		Week:    weekNumber,
		Days:    days,
		Minutes: int(summary.TotalTime.Minutes()),
		Total:   stats.FormatHours(summary.TotalTime),
		HasData: summary.HasData,
	})
}

// GetWeekCalendar exports the displayed week, merged as on screen, as an iCalendar feed.
func (h *Handler) GetWeekCalendar(w http.ResponseWriter, r *http.Request) {
	name := "EDT " + h.session.WeekInterval().Number().String()
	writeCalendar(w, name, ical.Render(name, h.session.FormattedEvents(), h.session.now()))
}

func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, h.session.Calendar())
}

// ReloadCalendar godoc
// @Summary Reload the calendar snapshot
// @Description A snapshot that cannot be read leaves an empty calendar and is reported as degraded
// @Tags Calendar
// @Produce json
// @Success 200 {object} CalendarStatusDTO
// @Router /api/calendar/reload [post]
func (h *Handler) ReloadCalendar(w http.ResponseWriter, r *http.Request) {
	err := h.session.LoadSnapshot(r.Context())
	cal := h.session.Calendar()
	status := CalendarStatusDTO{
		Weeks:  len(cal),
		Events: cal.EventCount(),
	}
	if err != nil {
		status.Degraded = true
		status.Error = err.Error()
	}
	rest.WriteJSON(w, http.StatusOK, status)
}

func (h *Handler) GetHours(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, h.session.Hours())
}

// GetEvent godoc
// @Summary Get an event by id
// @Tags Event
// @Produce json
// @Param id path string true "Event id"
// @Success 200 {object} calendar.Event
// @Failure 404 {object} rest.ErrorResponse "Event not found"
// @Router /api/event/{id} [get]
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	event, ok := h.session.EventByID(id)
	if !ok {
		rest.WriteError(w, http.StatusNotFound, calendar.ErrNotFound.Error(), id)
		return
	}
	rest.WriteJSON(w, http.StatusOK, event)
}

// GetFollowing godoc
// @Summary List the upcoming sessions of the same course
// @Tags Event
// @Produce json
// @Produce text/calendar
// @Param id path string true "Event id"
// @Param format query string false "ics for an iCalendar export"
// @Success 200 {array} calendar.Event
// @Router /api/event/{id}/following [get]
func (h *Handler) GetFollowing(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	following := h.session.FollowingEvents(id)

	if r.URL.Query().Get("format") == "ics" {
		name := "EDT"
		if reference, ok := h.session.EventByID(id); ok {
			name = reference.Title
		}
		writeCalendar(w, name, ical.RenderEvents(name, following, h.session.now()))
		return
	}
	rest.WriteJSON(w, http.StatusOK, following)
}

// GetSelection answers 204 when no event is selected.
func (h *Handler) GetSelection(w http.ResponseWriter, r *http.Request) {
	event, ok := h.session.SelectedEvent()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	rest.WriteJSON(w, http.StatusOK, event)
}

// SelectEvent godoc
// @Summary Select an event
// @Description Ids unknown to the calendar are accepted and select an event holding only that id
// @Tags Selection
// @Accept json
// @Produce json
// @Param selection body SelectionRequestDTO true "Event to select"
// @Success 200 {object} calendar.Event
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Router /api/selection [put]
func (h *Handler) SelectEvent(w http.ResponseWriter, r *http.Request) {
	var request SelectionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	if request.Id == "" {
		rest.WriteError(w, http.StatusBadRequest, "Id must be provided", "")
		return
	}

	event, ok := h.session.EventByID(request.Id)
	if !ok {
		log.Debugf("Selecting event %s which is not in the calendar", request.Id)
		event = calendar.Event{Id: request.Id}
	}
	h.session.Select(r.Context(), &event)
	rest.WriteJSON(w, http.StatusOK, event)
}

func (h *Handler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	h.session.Select(r.Context(), nil)
	w.WriteHeader(http.StatusNoContent)
}

func writeCalendar(w http.ResponseWriter, name string, body string) {
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".ics"))
	if _, err := w.Write([]byte(body)); err != nil {
		log.Errorf("failed to write calendar %s: %v", name, err)
	}
}
