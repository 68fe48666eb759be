package utils

import "time"

// Clock provides the current instant. Week navigation and the "following events" lookup
// depend on it, so tests swap in a MockClock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock and reports it in Location (local time when nil).
type SystemClock struct {
	Location *time.Location
}

func (s SystemClock) Now() time.Time {
	if s.Location == nil {
		return time.Now()
	}
	return time.Now().In(s.Location)
}

type MockClock struct {
	FixedNow time.Time
}

func (m *MockClock) Now() time.Time {
	return m.FixedNow
}

func (m *MockClock) SetNow(now time.Time) {
	m.FixedNow = now
}

// Advance moves the mocked instant forward by d (backwards when d is negative).
func (m *MockClock) Advance(d time.Duration) {
	m.FixedNow = m.FixedNow.Add(d)
}
