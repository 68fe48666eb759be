package stats

import (
	"testing"
	"time"

	"github.com/edt-iut/timetable/pkg/calendar"
	"github.com/edt-iut/timetable/pkg/week"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var location, _ = time.LoadLocation("Europe/Paris")
var monday = time.Date(2023, time.January, 2, 0, 0, 0, 0, location)
var blacklist = []string{"Vacances", "Férié"}

func session(title string, start time.Time, d time.Duration) calendar.Event {
	return calendar.Event{Id: uuid.NewString(), Title: title, Start: start, End: start.Add(d)}
}

func weekWith(days ...calendar.Day) calendar.Calendar {
	return calendar.Calendar{{FirstDayOfWeek: "2023-01-02", Days: days}}
}

func TestAggregator_TotalHoursForWeek(t *testing.T) {
	interval := week.Current(monday)
	tests := []struct {
		name string
		cal  calendar.Calendar
		want string
	}{
		{
			name: "no week resolves",
			cal:  nil,
			want: "0h",
		},
		{
			name: "empty week",
			cal:  weekWith(),
			want: "0h",
		},
		{
			name: "one six and a half hour session",
			cal: weekWith(calendar.Day{Date: "2023-01-02", Events: []calendar.Event{
				session("Projet tutoré", monday.Add(8*time.Hour), 6*time.Hour+30*time.Minute),
			}}),
			want: "6h30",
		},
		{
			name: "blacklisted word contributes nothing",
			cal: weekWith(calendar.Day{Date: "2023-01-02", Events: []calendar.Event{
				session("Vacances", monday, 24*time.Hour),
			}}),
			want: "0h",
		},
		{
			name: "blacklisted substring and case sensitivity",
			cal: weekWith(
				calendar.Day{Date: "2023-01-02", Events: []calendar.Event{
					session("Lundi Férié", monday, 8*time.Hour),
					session("Math", monday.Add(8*time.Hour), 2*time.Hour),
				}},
				calendar.Day{Date: "2023-01-03", Events: []calendar.Event{
					session("vacances de Noël (rattrapage)", monday.AddDate(0, 0, 1).Add(8*time.Hour), 45*time.Minute),
				}},
			),
			want: "2h45",
		},
		{
			name: "adjacent sessions are counted unmerged",
			cal: weekWith(calendar.Day{Date: "2023-01-02", Events: []calendar.Event{
				session("Math", monday.Add(8*time.Hour), time.Hour),
				session("Math", monday.Add(9*time.Hour+30*time.Minute), time.Hour),
			}}),
			want: "2h0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewAggregator(blacklist).TotalHoursForWeek(tt.cal, interval)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAggregator_Total(t *testing.T) {
	aggregator := NewAggregator(blacklist)
	cal := weekWith(calendar.Day{Date: "2023-01-02", Events: []calendar.Event{
		session("Math", monday.Add(8*time.Hour), 90*time.Minute),
	}})

	total, found := aggregator.Total(cal, week.Current(monday))
	require.True(t, found)
	assert.Equal(t, 90*time.Minute, total)

	total, found = aggregator.Total(cal, week.Shift(week.Next, week.Current(monday)))
	assert.False(t, found)
	assert.Zero(t, total)
}

func TestAggregator_EmptyWordIgnored(t *testing.T) {
	aggregator := NewAggregator([]string{"", "Férié"})

	assert.False(t, aggregator.IsExcluded(calendar.Event{Title: "Math"}))
	assert.True(t, aggregator.IsExcluded(calendar.Event{Title: "Férié"}))
}

func TestAggregator_Summary(t *testing.T) {
	tuesday := monday.AddDate(0, 0, 1)
	cal := weekWith(
		calendar.Day{Date: "2023-01-02", Events: []calendar.Event{
			session("Math", monday.Add(8*time.Hour), 2*time.Hour),
			session("Anglais", monday.Add(10*time.Hour), time.Hour),
		}},
		calendar.Day{Date: "2023-01-03", Events: []calendar.Event{
			session("Férié", tuesday, 8*time.Hour),
			session("Math", tuesday.Add(14*time.Hour), 30*time.Minute),
		}},
	)

	summary := NewAggregator(blacklist).Summary(cal, week.Current(monday))

	assert.True(t, summary.HasData)
	assert.Equal(t, monday, summary.StartDate)
	require.Len(t, summary.Days, 7)
	assert.Equal(t, DailyStats{Date: "2023-01-02", TotalTime: 3 * time.Hour, Sessions: 2}, summary.Days[0])
	assert.Equal(t, DailyStats{Date: "2023-01-03", TotalTime: 30 * time.Minute, Sessions: 2, Excluded: 1}, summary.Days[1])
	assert.Equal(t, DailyStats{Date: "2023-01-04"}, summary.Days[2])
	assert.Equal(t, 3*time.Hour+30*time.Minute, summary.TotalTime)
}

func TestAggregator_SummaryWithoutData(t *testing.T) {
	summary := NewAggregator(blacklist).Summary(nil, week.Current(monday))

	assert.False(t, summary.HasData)
	assert.Len(t, summary.Days, 7)
	assert.Zero(t, summary.TotalTime)
}

func TestFormatHours(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0h"},
		{-time.Hour, "0h"},
		{time.Hour, "1h0"},
		{6*time.Hour + 30*time.Minute, "6h30"},
		{time.Hour + 5*time.Minute, "1h5"},
		{45 * time.Minute, "0h45"},
		{20*time.Hour + 15*time.Minute + 20*time.Second, "20h15"},
		{6*time.Hour + 59*time.Minute + 50*time.Second, "7h0"},
	}
	for _, tt := range tests {
		t.Run(tt.d.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, FormatHours(tt.d))
		})
	}
}
