package workflow

import (
	"maps"
	"time"
)

// RuntimeInfoProvider exposes host environment details to handlers.
type RuntimeInfoProvider interface {
	Environment() string
	Version() string
	Now() time.Time
	Setting(key string) (string, bool)
}

// StaticRuntime is a RuntimeInfoProvider with fixed values.
type StaticRuntime struct {
	env      string
	version  string
	clock    func() time.Time
	settings map[string]string
}

func NewStaticRuntime(env, version string, settings map[string]string) *StaticRuntime {
	return &StaticRuntime{
		env:      env,
		version:  version,
		clock:    time.Now,
		settings: maps.Clone(settings),
	}
}

// WithClock returns a copy that reads the time from clock.
func (r *StaticRuntime) WithClock(clock func() time.Time) *StaticRuntime {
	clone := *r
	clone.clock = clock
	return &clone
}

func (r *StaticRuntime) Environment() string {
	return r.env
}

func (r *StaticRuntime) Version() string {
	return r.version
}

func (r *StaticRuntime) Now() time.Time {
	return r.clock()
}

func (r *StaticRuntime) Setting(key string) (string, bool) {
	v, ok := r.settings[key]
	return v, ok
}
