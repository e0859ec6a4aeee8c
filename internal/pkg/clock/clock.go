package clock

import "time"

// Clocker abstracts time so callers can replace real time in tests.
type Clocker interface {
	Now() time.Time
}

// TimeClocker is the production clock implementation backed by time.Now.
type TimeClocker struct{}

// New returns a TimeClocker that reads the current system time.
func New() *TimeClocker {
	return &TimeClocker{}
}

// Now returns the current system time in UTC.
func (*TimeClocker) Now() time.Time {
	return time.Now().UTC()
}

// Fixed is a Clocker that always reports the same instant.
type Fixed time.Time

// NewFixedUnix returns a Fixed clock at the given Unix second.
func NewFixedUnix(sec int64) Fixed {
	return Fixed(time.Unix(sec, 0).UTC())
}

// Now returns the fixed instant.
func (f Fixed) Now() time.Time {
	return time.Time(f)
}
