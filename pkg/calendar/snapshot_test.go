package calendar

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var location, _ = time.LoadLocation("Europe/Paris")

const jsonEnvelope = `{
  "data": [
    {
      "firstDayOfWeek": "2022-09-05",
      "days": [
        {
          "date": "2022-09-05",
          "events": [
            {
              "id": "e1",
              "title": "R1.01 Initiation au développement",
              "start": "2022-09-05T06:00:00.000Z",
              "end": "2022-09-05T08:00:00.000Z",
              "allDay": false,
              "extendedProps": {"location": "Amphi A", "teacher": "M. Dupont", "group": "G1"}
            },
            {
              "id": "e2",
              "title": "R1.02 Développement web",
              "start": "2022-09-05T10:00:00",
              "end": "2022-09-05T12:00:00",
              "allDay": false,
              "extendedProps": {}
            }
          ]
        },
        {"date": "2022-09-06", "events": []}
      ]
    }
  ]
}`

func TestDecode_JSONEnvelope(t *testing.T) {
	cal, err := Decode(strings.NewReader(jsonEnvelope), FormatJSON, location)

	require.NoError(t, err)
	require.Len(t, cal, 1)
	assert.Equal(t, "2022-09-05", cal[0].FirstDayOfWeek)
	require.Len(t, cal[0].Days, 2)
	require.Len(t, cal[0].Days[0].Events, 2)

	first := cal[0].Days[0].Events[0]
	assert.Equal(t, "e1", first.Id)
	assert.Equal(t, "Amphi A", first.ExtendedProps.Location)
	assert.Equal(t, "M. Dupont", first.ExtendedProps.Teacher)
	assert.True(t, first.Start.Equal(time.Date(2022, 9, 5, 6, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2*time.Hour, first.Duration())

	// zone-less timestamps are read in the calendar location
	second := cal[0].Days[0].Events[1]
	assert.Equal(t, time.Date(2022, 9, 5, 10, 0, 0, 0, location), second.Start)
	assert.Empty(t, cal[0].Days[1].Events)
}

func TestDecode_JSONBareArray(t *testing.T) {
	input := `[{"firstDayOfWeek": "2022-09-12", "days": [{"date": "2022-09-12", "events": [
		{"id": "a", "title": "Math", "start": "2022-09-12T08:00:00+02:00", "end": "2022-09-12T10:00:00+02:00"}
	]}]}]`

	cal, err := Decode(strings.NewReader(input), FormatJSON, location)

	require.NoError(t, err)
	require.Len(t, cal, 1)
	assert.Equal(t, 1, cal.EventCount())
}

func TestDecode_YAML(t *testing.T) {
	input := `
data:
  - firstDayOfWeek: "2022-09-12"
    days:
      - date: "2022-09-12"
        events:
          - id: "y1"
            title: "Anglais"
            start: "2022-09-12T08:00:00+02:00"
            end: "2022-09-12T09:30:00+02:00"
            extendedProps:
              location: "B204"
`

	cal, err := Decode(strings.NewReader(input), FormatYAML, location)

	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "Anglais", events[0].Title)
	assert.Equal(t, "B204", events[0].ExtendedProps.Location)
	assert.Equal(t, 90*time.Minute, events[0].Duration())
}

func TestDecode_YAMLBareList(t *testing.T) {
	input := `
- firstDayOfWeek: "2022-09-12"
  days: []
- firstDayOfWeek: "2022-09-19"
  days: []
`
	cal, err := Decode(strings.NewReader(input), FormatYAML, location)

	require.NoError(t, err)
	assert.Len(t, cal, 2)
}

func TestDecode_Normalisation(t *testing.T) {
	input := `[{"firstDayOfWeek": "2022-09-12", "days": [{"date": "2022-09-12", "events": [
		{"id": "", "title": "No id", "start": "2022-09-12T08:00:00Z", "end": "2022-09-12T09:00:00Z"},
		{"id": "dup", "title": "First", "start": "2022-09-12T09:00:00Z", "end": "2022-09-12T10:00:00Z"},
		{"id": "dup", "title": "Second", "start": "2022-09-12T10:00:00Z", "end": "2022-09-12T11:00:00Z"},
		{"id": "backwards", "title": "Backwards", "start": "2022-09-12T12:00:00Z", "end": "2022-09-12T11:00:00Z"}
	]}]}]`

	cal, err := Decode(strings.NewReader(input), FormatJSON, location)

	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 2)
	_, err = uuid.Parse(events[0].Id)
	assert.NoError(t, err, "missing ids are replaced by generated UUIDs")
	assert.Equal(t, "dup", events[1].Id)
	assert.Equal(t, "First", events[1].Title)
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format Format
	}{
		{"empty", "", FormatJSON},
		{"not json", "{not json", FormatJSON},
		{"bad week date", `[{"firstDayOfWeek": "05/09/2022", "days": []}]`, FormatJSON},
		{"bad day date", `[{"firstDayOfWeek": "2022-09-05", "days": [{"date": "tomorrow", "events": []}]}]`, FormatJSON},
		{"bad timestamp", `[{"firstDayOfWeek": "2022-09-05", "days": [{"date": "2022-09-05", "events": [{"id": "x", "title": "x", "start": "later", "end": "2022-09-05T10:00:00Z"}]}]}]`, FormatJSON},
		{"json null", "null", FormatJSON},
		{"json empty object", "{}", FormatJSON},
		{"json data null", `{"data": null}`, FormatJSON},
		{"json renamed envelope key", `{"weeks": [{"firstDayOfWeek": "2023-01-02", "days": []}]}`, FormatJSON},
		{"yaml scalar", "just a string", FormatYAML},
		{"yaml null", "null", FormatYAML},
		{"yaml renamed envelope key", "weeks:\n  - firstDayOfWeek: \"2023-01-02\"\n    days: []\n", FormatYAML},
		{"unknown format", "[]", Format("toml")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input), tt.format, location)
			assert.Error(t, err)
		})
	}
}

func TestDecode_MissingData(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format Format
	}{
		{"json", `{"calendar": []}`, FormatJSON},
		{"json null", "null", FormatJSON},
		{"yaml", "calendar: []", FormatYAML},
		{"yaml data without value", "data:", FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input), tt.format, location)
			assert.ErrorIs(t, err, ErrMissingData)
		})
	}
}

func TestDecode_EmptyData(t *testing.T) {
	cal, err := Decode(strings.NewReader(`{"data": []}`), FormatJSON, location)
	require.NoError(t, err)
	assert.Empty(t, cal)

	cal, err = Decode(strings.NewReader("data: []"), FormatYAML, location)
	require.NoError(t, err)
	assert.Empty(t, cal)
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("/data/apicalendar.json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = FormatFromPath("calendar.YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = FormatFromPath("calendar.ics")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apicalendar.json")
	require.NoError(t, os.WriteFile(path, []byte(jsonEnvelope), 0o600))

	cal, err := LoadFile(path, location)

	require.NoError(t, err)
	assert.Equal(t, 2, cal.EventCount())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"), location)
	assert.Error(t, err)
}
