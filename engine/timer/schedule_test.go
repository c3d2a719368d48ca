package timer

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compozy/scriptctx/engine/value"
	"github.com/compozy/scriptctx/pkg/config"
)

func TestCron(t *testing.T) {
	t.Run("Should compute the next fire time in the schedule timezone", func(t *testing.T) {
		s, err := Cron("0 9 * * MON", "Europe/Istanbul")
		require.NoError(t, err)
		now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		next, err := s.Next(now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 1, 6, 6, 0, 0, 0, time.UTC), next)
		assert.Equal(t, time.UTC, next.Location())
	})

	t.Run("Should accept six field expressions with seconds", func(t *testing.T) {
		s, err := Cron("*/30 * * * * *", "")
		require.NoError(t, err)
		next, err := s.Next(time.Date(2025, 1, 1, 12, 0, 10, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 1, 1, 12, 0, 30, 0, time.UTC), next)
	})

	t.Run("Should accept descriptors", func(t *testing.T) {
		s, err := Cron("@every 1h", "UTC")
		require.NoError(t, err)
		now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
		next, err := s.Next(now)
		require.NoError(t, err)
		assert.Equal(t, now.Add(time.Hour), next)
	})

	t.Run("Should reject invalid expressions and timezones", func(t *testing.T) {
		_, err := Cron("not a cron", "")
		assert.ErrorIs(t, err, ErrInvalidSchedule)
		_, err = Cron("", "")
		assert.ErrorIs(t, err, ErrInvalidSchedule)
		_, err = Cron("0 9 * * *", "Mars/Olympus")
		assert.ErrorIs(t, err, ErrInvalidSchedule)
	})

	t.Run("Should evaluate a schedule built without the constructor", func(t *testing.T) {
		s := Schedule{Kind: KindCron, Cron: "0 0 * * *"}
		next, err := s.Next(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), next)
	})
}

func TestDelay(t *testing.T) {
	t.Run("Should parse day based delays", func(t *testing.T) {
		s, err := ParseDelay("1d2h")
		require.NoError(t, err)
		assert.Equal(t, 26*time.Hour, s.Delay)
		now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		next, err := s.Next(now)
		require.NoError(t, err)
		assert.Equal(t, now.Add(26*time.Hour), next)
	})

	t.Run("Should reject non positive or malformed delays", func(t *testing.T) {
		_, err := ParseDelay("0s")
		assert.ErrorIs(t, err, ErrInvalidSchedule)
		_, err = ParseDelay("soon")
		assert.ErrorIs(t, err, ErrInvalidSchedule)
		_, err = After(-time.Second)
		assert.ErrorIs(t, err, ErrInvalidSchedule)
	})
}

func TestSchedule_Next(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("Should return the absolute time unchanged", func(t *testing.T) {
		at := now.Add(48 * time.Hour)
		next, err := At(at).Next(now)
		require.NoError(t, err)
		assert.Equal(t, at, next)
	})

	t.Run("Should fire immediately", func(t *testing.T) {
		next, err := Immediate().Next(now)
		require.NoError(t, err)
		assert.Equal(t, now, next)
	})

	t.Run("Should reject unknown kinds", func(t *testing.T) {
		_, err := Schedule{Kind: "weekly"}.Next(now)
		assert.ErrorIs(t, err, ErrInvalidSchedule)
		assert.ErrorIs(t, Schedule{Kind: "weekly"}.Validate(), ErrInvalidSchedule)
		assert.ErrorIs(t, Schedule{Kind: KindAbsolute}.Validate(), ErrInvalidSchedule)
		assert.NoError(t, Immediate().Validate())
	})
}

func TestFromValue(t *testing.T) {
	t.Run("Should read every descriptor kind", func(t *testing.T) {
		s, err := FromValue(value.ObjectOf(
			value.Field("type", value.String("cron")),
			value.Field("expression", value.String("0 9 * * MON")),
			value.Field("timezone", value.String("Europe/Istanbul")),
		))
		require.NoError(t, err)
		assert.Equal(t, KindCron, s.Kind)
		assert.Equal(t, "Europe/Istanbul", s.Timezone)

		s, err = FromValue(value.ObjectOf(
			value.Field("type", value.String("duration")),
			value.Field("delay", value.String("2h")),
		))
		require.NoError(t, err)
		assert.Equal(t, 2*time.Hour, s.Delay)

		s, err = FromValue(value.ObjectOf(
			value.Field("type", value.String("duration")),
			value.Field("delay", value.Int(90)),
		))
		require.NoError(t, err)
		assert.Equal(t, 90*time.Second, s.Delay)

		_, err = FromValue(value.ObjectOf(
			value.Field("type", value.String("duration")),
			value.Field("delay", value.Float(1e300)),
		))
		assert.ErrorIs(t, err, ErrInvalidSchedule)

		s, err = FromValue(value.ObjectOf(
			value.Field("type", value.String("absolute")),
			value.Field("at", value.String("2025-06-01T09:00:00Z")),
		))
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC), s.At.UTC())

		s, err = FromValue(value.ObjectOf(value.Field("type", value.String("immediate"))))
		require.NoError(t, err)
		assert.Equal(t, KindImmediate, s.Kind)
	})

	t.Run("Should reject malformed descriptors", func(t *testing.T) {
		_, err := FromValue(value.String("soon"))
		assert.ErrorIs(t, err, ErrInvalidSchedule)
		_, err = FromValue(value.ObjectOf(value.Field("type", value.String("absolute"))))
		assert.ErrorIs(t, err, ErrInvalidSchedule)
		_, err = FromValue(value.ObjectOf(
			value.Field("type", value.String("absolute")),
			value.Field("at", value.String("tomorrow")),
		))
		assert.ErrorIs(t, err, ErrInvalidSchedule)
		_, err = FromValue(value.ObjectOf(value.Field("type", value.String("later"))))
		assert.ErrorIs(t, err, ErrInvalidSchedule)
	})
}

func TestSchedule_MarshalJSON(t *testing.T) {
	t.Run("Should write the descriptor form", func(t *testing.T) {
		s, err := Cron("0 9 * * *", "UTC")
		require.NoError(t, err)
		data, err := json.Marshal(s)
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"cron","expression":"0 9 * * *","timezone":"UTC"}`, string(data))

		d, err := ParseDelay("90m")
		require.NoError(t, err)
		data, err = json.Marshal(d)
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"duration","delay":"1h30m0s"}`, string(data))
	})
}

func TestLocationFromConfig(t *testing.T) {
	t.Run("Should resolve the configured timezone", func(t *testing.T) {
		cfg := config.Default()
		cfg.Timer.Timezone = "America/New_York"
		loc, err := LocationFromConfig(cfg)
		require.NoError(t, err)
		assert.Equal(t, "America/New_York", loc.String())
	})

	t.Run("Should default to UTC", func(t *testing.T) {
		loc, err := LocationFromConfig(nil)
		require.NoError(t, err)
		assert.Equal(t, time.UTC, loc)
	})
}
