package middleware

import "time"

// Clock abstracts time for the gating middleware so tests can drive it.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// RealClock is the wall-clock used outside tests.
var RealClock Clock = realClock{}
