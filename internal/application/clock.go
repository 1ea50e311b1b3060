package application

import "time"

// Clock interface so services can be tested with a fixed time
type Clock interface {
	Now() time.Time
}

// SystemClock is the default, UTC wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always returns T.
type FixedClock struct{ T time.Time }

func (c FixedClock) Now() time.Time { return c.T }
