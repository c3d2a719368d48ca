package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/compozy/scriptctx/engine/timer"
	"github.com/compozy/scriptctx/pkg/config"
)

func NextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Print the upcoming fire times of a timer schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.FromContext(cmd.Context())
			sched, err := scheduleFromFlags(cmd, cfg)
			if err != nil {
				return err
			}
			count, err := cmd.Flags().GetInt("count")
			if err != nil {
				return err
			}
			loc, err := timer.LocationFromConfig(cfg)
			if err != nil {
				return err
			}
			now := time.Now().In(loc)
			for _, t := range fireTimes(sched, now, count) {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), t.Format(time.RFC3339)); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().String("cron", "", "Cron expression, 5 or 6 fields or a descriptor such as @daily")
	cmd.Flags().String("timezone", "", "Timezone for --cron (defaults to the configured timer timezone)")
	cmd.Flags().String("after", "", "Delay such as 90s or 1d12h")
	cmd.Flags().String("at", "", "Absolute RFC3339 time")
	cmd.Flags().Int("count", 5, "Number of cron fire times to print")
	cmd.MarkFlagsMutuallyExclusive("cron", "after", "at")
	cmd.MarkFlagsOneRequired("cron", "after", "at")
	return cmd
}

func scheduleFromFlags(cmd *cobra.Command, cfg *config.Config) (timer.Schedule, error) {
	flags := cmd.Flags()
	switch {
	case flags.Changed("cron"):
		expr, _ := flags.GetString("cron")
		tz, _ := flags.GetString("timezone")
		if tz == "" {
			tz = cfg.Timer.Timezone
		}
		return timer.Cron(expr, tz)
	case flags.Changed("after"):
		delay, _ := flags.GetString("after")
		return timer.ParseDelay(delay)
	case flags.Changed("at"):
		raw, _ := flags.GetString("at")
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return timer.Schedule{}, fmt.Errorf("%w: %w", timer.ErrInvalidSchedule, err)
		}
		return timer.At(t), nil
	default:
		return timer.Schedule{}, errors.New("one of --cron, --after or --at is required")
	}
}

// fireTimes lists up to count fire times. Non-recurring schedules yield one.
func fireTimes(sched timer.Schedule, now time.Time, count int) []time.Time {
	var out []time.Time
	cursor := now
	for range max(count, 1) {
		next, err := sched.Next(cursor)
		if err != nil {
			break
		}
		out = append(out, next)
		if sched.Kind != timer.KindCron {
			break
		}
		cursor = next
	}
	return out
}
