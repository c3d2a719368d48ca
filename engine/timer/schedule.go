// Package timer describes when a timer-driven transition should fire.
//
// A Schedule is a descriptor only: it is returned by timer handlers and
// interpreted by the host scheduler.
package timer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	str2duration "github.com/xhit/go-str2duration/v2"

	"github.com/compozy/scriptctx/pkg/config"
)

type Kind string

const (
	KindAbsolute  Kind = "absolute"
	KindCron      Kind = "cron"
	KindDuration  Kind = "duration"
	KindImmediate Kind = "immediate"
)

var ErrInvalidSchedule = errors.New("invalid timer schedule")

// Seconds are optional so both 5 and 6 field expressions are accepted.
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

type Schedule struct {
	Kind     Kind
	At       time.Time
	Cron     string
	Delay    time.Duration
	Timezone string

	spec cron.Schedule
	loc  *time.Location
}

// At fires once at t.
func At(t time.Time) Schedule {
	return Schedule{Kind: KindAbsolute, At: t}
}

// Cron fires on every match of expr, evaluated in timezone (UTC when empty).
func Cron(expr, timezone string) (Schedule, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Schedule{}, fmt.Errorf("%w: cron expression is required", ErrInvalidSchedule)
	}
	spec, err := cronParser.Parse(expr)
	if err != nil {
		return Schedule{}, fmt.Errorf("%w: cron expression is invalid: %w", ErrInvalidSchedule, err)
	}
	loc, err := loadLocation(timezone)
	if err != nil {
		return Schedule{}, err
	}
	return Schedule{Kind: KindCron, Cron: expr, Timezone: loc.String(), spec: spec, loc: loc}, nil
}

// After fires once, delay after the schedule is evaluated.
func After(delay time.Duration) (Schedule, error) {
	if delay <= 0 {
		return Schedule{}, fmt.Errorf("%w: duration must be positive: got %s", ErrInvalidSchedule, delay)
	}
	return Schedule{Kind: KindDuration, Delay: delay}, nil
}

// ParseDelay is After for textual delays such as "90s" or "1d12h".
func ParseDelay(delay string) (Schedule, error) {
	d, err := str2duration.ParseDuration(strings.TrimSpace(delay))
	if err != nil {
		return Schedule{}, fmt.Errorf("%w: delay is invalid: %w", ErrInvalidSchedule, err)
	}
	return After(d)
}

// Immediate fires as soon as the host can schedule it.
func Immediate() Schedule {
	return Schedule{Kind: KindImmediate}
}

// Next returns the first fire time strictly after now for cron schedules and
// the single fire time for the others.
func (s Schedule) Next(now time.Time) (time.Time, error) {
	switch s.Kind {
	case KindAbsolute:
		return s.At, nil
	case KindDuration:
		return now.Add(s.Delay), nil
	case KindImmediate:
		return now, nil
	case KindCron:
		spec, loc := s.spec, s.loc
		if spec == nil {
			parsed, err := Cron(s.Cron, s.Timezone)
			if err != nil {
				return time.Time{}, err
			}
			spec, loc = parsed.spec, parsed.loc
		}
		next := spec.Next(now.In(loc))
		if next.IsZero() {
			return time.Time{}, fmt.Errorf("%w: cron expression %q never fires", ErrInvalidSchedule, s.Cron)
		}
		return next.In(now.Location()), nil
	default:
		return time.Time{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidSchedule, s.Kind)
	}
}

func (s Schedule) Validate() error {
	switch s.Kind {
	case KindAbsolute:
		if s.At.IsZero() {
			return fmt.Errorf("%w: absolute schedule has no time", ErrInvalidSchedule)
		}
	case KindCron:
		if _, err := Cron(s.Cron, s.Timezone); err != nil {
			return err
		}
	case KindDuration:
		if _, err := After(s.Delay); err != nil {
			return err
		}
	case KindImmediate:
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidSchedule, s.Kind)
	}
	return nil
}

type descriptor struct {
	Type       Kind   `json:"type"`
	At         string `json:"at,omitempty"`
	Expression string `json:"expression,omitempty"`
	Delay      string `json:"delay,omitempty"`
	Timezone   string `json:"timezone,omitempty"`
}

func (s Schedule) MarshalJSON() ([]byte, error) {
	d := descriptor{Type: s.Kind}
	switch s.Kind {
	case KindAbsolute:
		d.At = s.At.Format(time.RFC3339Nano)
	case KindCron:
		d.Expression = s.Cron
		d.Timezone = s.Timezone
	case KindDuration:
		d.Delay = s.Delay.String()
	}
	return json.Marshal(d)
}

// LocationFromConfig returns the default timezone for cron schedules.
func LocationFromConfig(cfg *config.Config) (*time.Location, error) {
	if cfg == nil {
		return time.UTC, nil
	}
	return loadLocation(cfg.Timer.Timezone)
}

func loadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone is invalid: %w", ErrInvalidSchedule, err)
	}
	return loc, nil
}
