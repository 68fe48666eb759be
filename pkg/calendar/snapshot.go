package calendar

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported snapshot format")
	ErrMissingData       = errors.New("snapshot has no data key")
)

// timestampLayouts are tried in order. Zone-less layouts are read in the calendar location.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	DateLayout,
}

type snapshotEvent struct {
	Id            string        `json:"id" yaml:"id"`
	Title         string        `json:"title" yaml:"title"`
	Start         string        `json:"start" yaml:"start"`
	End           string        `json:"end" yaml:"end"`
	AllDay        bool          `json:"allDay" yaml:"allDay"`
	ExtendedProps ExtendedProps `json:"extendedProps" yaml:"extendedProps"`
}

type snapshotDay struct {
	Date   string          `json:"date" yaml:"date"`
	Events []snapshotEvent `json:"events" yaml:"events"`
}

type snapshotWeek struct {
	FirstDayOfWeek string        `json:"firstDayOfWeek" yaml:"firstDayOfWeek"`
	Days           []snapshotDay `json:"days" yaml:"days"`
}

// envelope is the shape of the calendar export: {"data": [...weeks]}. Data stays nil
// when the key is absent or null.
type envelope struct {
	Data *[]snapshotWeek `json:"data" yaml:"data"`
}

func (e envelope) weeks() ([]snapshotWeek, error) {
	if e.Data == nil {
		return nil, ErrMissingData
	}
	return *e.Data, nil
}

// FormatFromPath picks the snapshot format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// LoadFile reads and decodes the snapshot stored at path.
func LoadFile(path string, loc *time.Location) (Calendar, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	return Decode(f, format, loc)
}

// Decode reads a snapshot: either a bare list of weeks or an object holding them under "data".
func Decode(r io.Reader, format Format, loc *time.Location) (Calendar, error) {
	if loc == nil {
		loc = time.Local
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var weeks []snapshotWeek
	switch format {
	case FormatJSON:
		weeks, err = decodeJSON(raw)
	case FormatYAML:
		weeks, err = decodeYAML(raw)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	return buildCalendar(weeks, loc)
}

func decodeJSON(raw []byte) ([]snapshotWeek, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New("empty snapshot")
	}
	if trimmed[0] == '[' {
		var weeks []snapshotWeek
		if err := json.Unmarshal(trimmed, &weeks); err != nil {
			return nil, fmt.Errorf("failed to decode JSON snapshot: %w", err)
		}
		return weeks, nil
	}
	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("failed to decode JSON snapshot: %w", err)
	}
	return env.weeks()
}

func decodeYAML(raw []byte) ([]snapshotWeek, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("failed to decode YAML snapshot: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, errors.New("empty snapshot")
	}
	doc := root.Content[0]

	switch doc.Kind {
	case yaml.SequenceNode:
		var weeks []snapshotWeek
		if err := doc.Decode(&weeks); err != nil {
			return nil, fmt.Errorf("failed to decode YAML snapshot: %w", err)
		}
		return weeks, nil
	case yaml.MappingNode:
		var env envelope
		if err := doc.Decode(&env); err != nil {
			return nil, fmt.Errorf("failed to decode YAML snapshot: %w", err)
		}
		return env.weeks()
	default:
		return nil, errors.New("YAML snapshot must be a list of weeks or a mapping with a data key")
	}
}

func buildCalendar(weeks []snapshotWeek, loc *time.Location) (Calendar, error) {
	cal := make(Calendar, 0, len(weeks))

	for _, sw := range weeks {
		if _, err := ParseDate(sw.FirstDayOfWeek, loc); err != nil {
			return nil, fmt.Errorf("invalid firstDayOfWeek %q: %w", sw.FirstDayOfWeek, err)
		}
		week := Week{FirstDayOfWeek: sw.FirstDayOfWeek, Days: make([]Day, 0, len(sw.Days))}

		for _, sd := range sw.Days {
			if _, err := ParseDate(sd.Date, loc); err != nil {
				return nil, fmt.Errorf("invalid day date %q: %w", sd.Date, err)
			}
			day := Day{Date: sd.Date, Events: make([]Event, 0, len(sd.Events))}

			for _, se := range sd.Events {
				event, err := toEvent(se, loc)
				if err != nil {
					return nil, fmt.Errorf("invalid event %q on %s: %w", se.Id, sd.Date, err)
				}
				day.Events = append(day.Events, event)
			}
			week.Days = append(week.Days, day)
		}
		cal = append(cal, week)
	}

	return Normalize(cal), nil
}

func toEvent(se snapshotEvent, loc *time.Location) (Event, error) {
	start, err := parseTimestamp(se.Start, loc)
	if err != nil {
		return Event{}, fmt.Errorf("invalid start: %w", err)
	}
	end, err := parseTimestamp(se.End, loc)
	if err != nil {
		return Event{}, fmt.Errorf("invalid end: %w", err)
	}
	return Event{
		Id:            se.Id,
		Title:         se.Title,
		Start:         start,
		End:           end,
		AllDay:        se.AllDay,
		ExtendedProps: se.ExtendedProps,
	}, nil
}

func parseTimestamp(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", value)
}
