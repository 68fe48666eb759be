package app

import (
	"net/http"

	"github.com/edt-iut/timetable/internal/rest"
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {
	h := deps.TimetableHandler

	// Week navigation
	r.HandleFunc("/api/week", h.GetWeek).Methods("GET")
	r.HandleFunc("/api/week", h.GoToWeek).Methods("PUT")
	r.HandleFunc("/api/week/today", h.Today).Methods("POST")
	r.HandleFunc("/api/week/previous", h.Previous).Methods("POST")
	r.HandleFunc("/api/week/next", h.Next).Methods("POST")

	// Displayed week
	r.HandleFunc("/api/week/dates", h.GetDates).Methods("GET")
	r.HandleFunc("/api/week/events", h.GetFormattedEvents).Methods("GET")
	r.HandleFunc("/api/week/raw", h.GetRawWeek).Methods("GET")
	r.HandleFunc("/api/week/total", h.GetTotal).Methods("GET")
	r.HandleFunc("/api/week/summary", h.GetSummary).Methods("GET")
	r.HandleFunc("/api/week/calendar.ics", h.GetWeekCalendar).Methods("GET")

	// Calendar
	r.HandleFunc("/api/calendar", h.GetCalendar).Methods("GET")
	r.HandleFunc("/api/calendar/reload", h.ReloadCalendar).Methods("POST")
	r.HandleFunc("/api/hours", h.GetHours).Methods("GET")

	// Events
	r.HandleFunc("/api/event/{id}", h.GetEvent).Methods("GET")
	r.HandleFunc("/api/event/{id}/following", h.GetFollowing).Methods("GET")

	// Selection
	r.HandleFunc("/api/selection", h.GetSelection).Methods("GET")
	r.HandleFunc("/api/selection", h.SelectEvent).Methods("PUT")
	r.HandleFunc("/api/selection", h.ClearSelection).Methods("DELETE")

	r.HandleFunc("/health", health(deps)).Methods("GET")
}

func health(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cal := deps.Session.Calendar()
		rest.WriteJSON(w, http.StatusOK, map[string]any{
			"status": "ok",
			"weeks":  len(cal),
			"events": cal.EventCount(),
		})
	}
}
