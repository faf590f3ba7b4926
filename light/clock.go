package light

import "time"

// Clock abstracts "now" for trust-period and clock-drift checks, per
// spec.md §4 and §9 ("dynamic dispatch ... expressed as interface
// boundaries to allow test doubles").
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock, backed by time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock is a test double that always reports the same instant.
type FixedClock struct{ At time.Time }

func (c FixedClock) Now() time.Time { return c.At }
