package timer

import (
	"fmt"
	"math"
	"time"

	"github.com/compozy/scriptctx/engine/value"
)

// Largest numeric delay that still fits in a time.Duration.
const maxDelaySeconds = float64(math.MaxInt64) / float64(time.Second)

// FromValue reads a schedule descriptor such as
//
//	{"type": "cron", "expression": "0 9 * * MON", "timezone": "Europe/Istanbul"}
//	{"type": "duration", "delay": "1d2h"}
//	{"type": "absolute", "at": "2025-06-01T09:00:00Z"}
//	{"type": "immediate"}
//
// A numeric delay is a number of seconds.
func FromValue(v value.Value) (Schedule, error) {
	if !v.IsObject() {
		return Schedule{}, fmt.Errorf("%w: descriptor must be an object, got %s", ErrInvalidSchedule, v.Kind())
	}
	kind, _ := v.Get("type").AsString()
	switch Kind(kind) {
	case KindImmediate:
		return Immediate(), nil
	case KindAbsolute:
		raw, ok := v.Get("at").AsString()
		if !ok {
			return Schedule{}, fmt.Errorf("%w: absolute schedule requires \"at\"", ErrInvalidSchedule)
		}
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return Schedule{}, fmt.Errorf("%w: \"at\" is not RFC 3339: %w", ErrInvalidSchedule, err)
		}
		return At(at), nil
	case KindCron:
		expr, ok := v.Get("expression").AsString()
		if !ok {
			return Schedule{}, fmt.Errorf("%w: cron schedule requires \"expression\"", ErrInvalidSchedule)
		}
		tz, _ := v.Get("timezone").AsString()
		return Cron(expr, tz)
	case KindDuration:
		delay := v.Get("delay")
		if seconds, ok := delay.AsFloat64(); ok {
			if math.IsNaN(seconds) || seconds >= maxDelaySeconds {
				return Schedule{}, fmt.Errorf("%w: delay of %g seconds is out of range", ErrInvalidSchedule, seconds)
			}
			return After(time.Duration(seconds * float64(time.Second)))
		}
		raw, ok := delay.AsString()
		if !ok {
			return Schedule{}, fmt.Errorf("%w: duration schedule requires \"delay\"", ErrInvalidSchedule)
		}
		return ParseDelay(raw)
	default:
		return Schedule{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidSchedule, kind)
	}
}
