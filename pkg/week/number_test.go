package week

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberFromDate(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want Number
	}{
		{"new year in week 1", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Number{Year: 2025, Week: 1}},
		{"last days of december in week 1 of next year", time.Date(2025, 12, 29, 0, 0, 0, 0, location), Number{Year: 2026, Week: 1}},
		{"first days of january in week 53", time.Date(2021, 1, 3, 0, 0, 0, 0, location), Number{Year: 2020, Week: 53}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NumberFromDate(tt.date))
		})
	}
}

func TestNumberFromString(t *testing.T) {
	tests := []struct {
		input   string
		want    Number
		wantErr bool
	}{
		{input: "2025-W03", want: Number{Year: 2025, Week: 3}},
		{input: "2020-W53", want: Number{Year: 2020, Week: 53}},
		{input: "2025-W53", wantErr: true},
		{input: "2025-W00", wantErr: true},
		{input: "2025-03", wantErr: true},
		{input: "year-W03", wantErr: true},
		{input: "2025-Wxx", wantErr: true},
		{input: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NumberFromString(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidNumber)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestNumber_Interval(t *testing.T) {
	w := Number{Year: 2025, Week: 1}.Interval(location)

	assert.Equal(t, time.Date(2024, 12, 30, 0, 0, 0, 0, location), w.Start)
	assertAligned(t, w)
	assert.Equal(t, Number{Year: 2025, Week: 1}, w.Number())
}

func TestNumber_RoundTrip(t *testing.T) {
	for _, day := range everyDay() {
		w := Current(day)
		assert.Equal(t, w, w.Number().Interval(location))
	}
}

func TestNumber_Ordering(t *testing.T) {
	tests := []struct {
		name        string
		left, right Number
		before      bool
		after       bool
	}{
		{"same week", Number{2025, 3}, Number{2025, 3}, false, false},
		{"earlier week same year", Number{2025, 2}, Number{2025, 3}, true, false},
		{"later week same year", Number{2025, 4}, Number{2025, 3}, false, true},
		{"earlier year", Number{2024, 52}, Number{2025, 1}, true, false},
		{"later year", Number{2026, 1}, Number{2025, 52}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.before, tt.left.Before(tt.right))
			assert.Equal(t, tt.after, tt.left.After(tt.right))
		})
	}
}
