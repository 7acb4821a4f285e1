package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock supplies the current time; services take it instead of calling
// time.Now so tests can pin bill and entry dates.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// NewSystemClock returns a Clock backed by the wall clock, in UTC.
func NewSystemClock() Clock {
	return systemClock{}
}

var Module = fx.Module("clock",
	fx.Provide(NewSystemClock),
)
