package ical

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/edt-iut/timetable/pkg/calendar"
)

const productId = "-//edt-iut//timetable//FR"

// Render serialises the events of days as an iCalendar feed named name.
// stamp is written as DTSTAMP of every event.
func Render(name string, days []calendar.Day, stamp time.Time) string {
	var events []calendar.Event
	for _, d := range days {
		events = append(events, d.Events...)
	}
	return RenderEvents(name, events, stamp)
}

// RenderEvents serialises events as an iCalendar feed named name.
func RenderEvents(name string, events []calendar.Event, stamp time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productId)
	cal.SetXWRCalName(name)

	for _, e := range events {
		addEvent(cal, e, stamp)
	}
	return cal.Serialize()
}

func addEvent(cal *ics.Calendar, e calendar.Event, stamp time.Time) {
	vevent := cal.AddEvent(e.Id)
	vevent.SetDtStampTime(stamp.UTC())
	vevent.SetSummary(e.Title)

	if e.AllDay {
		end := e.End
		if !end.After(e.Start) {
			end = e.Start.AddDate(0, 0, 1)
		}
		vevent.SetAllDayStartAt(e.Start)
		vevent.SetAllDayEndAt(end)
	} else {
		vevent.SetStartAt(e.Start.UTC())
		vevent.SetEndAt(e.End.UTC())
	}

	if e.ExtendedProps.Location != "" {
		vevent.SetLocation(e.ExtendedProps.Location)
	}
	if description := describe(e.ExtendedProps); description != "" {
		vevent.SetDescription(description)
	}
}

func describe(props calendar.ExtendedProps) string {
	var lines []string
	if props.Teacher != "" {
		lines = append(lines, fmt.Sprintf("Enseignant : %s", props.Teacher))
	}
	if props.Group != "" {
		lines = append(lines, fmt.Sprintf("Groupe : %s", props.Group))
	}
	if props.Description != "" {
		lines = append(lines, props.Description)
	}
	return strings.Join(lines, "\n")
}
