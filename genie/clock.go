package genie

import "time"

// Clock supplies the time controller deadlines are measured against.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// timer is a deadline checked once per frame.
type timer struct {
	at time.Time
	fn func()
}
