package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ValidateCronSchedule accepts five-field cron expressions and descriptors
// such as "@hourly" or "@every 10m".
func ValidateCronSchedule(schedule string) error {
	if strings.TrimSpace(schedule) == "" {
		return fmt.Errorf("invalid cron schedule: cannot be empty")
	}
	if _, err := cronParser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", schedule, err)
	}
	return nil
}

// ValidateTimezone checks that tz is a loadable IANA zone name.
func ValidateTimezone(tz string) error {
	if tz == "" {
		return fmt.Errorf("invalid timezone: cannot be empty")
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return fmt.Errorf("invalid timezone '%s': %w", tz, err)
	}
	return nil
}

// ValidateDuration checks min <= d <= max.
func ValidateDuration(d, minD, maxD time.Duration) error {
	if minD > maxD {
		return fmt.Errorf("invalid range: min (%v) cannot be greater than max (%v)", minD, maxD)
	}
	if d < minD || d > maxD {
		return fmt.Errorf("duration %v out of range [%v, %v]", d, minD, maxD)
	}
	return nil
}

// ValidatePositiveDuration rejects zero and negative durations.
func ValidatePositiveDuration(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("duration must be positive, got %v", d)
	}
	return nil
}

// ValidateIntRange checks min <= v <= max.
func ValidateIntRange(v, minV, maxV int) error {
	if minV > maxV {
		return fmt.Errorf("invalid range: min (%d) cannot be greater than max (%d)", minV, maxV)
	}
	if v < minV || v > maxV {
		return fmt.Errorf("value %d out of range [%d, %d]", v, minV, maxV)
	}
	return nil
}

// OneOf returns a validator accepting only the listed values, case-insensitively.
func OneOf(allowed ...string) func(string) error {
	return func(v string) error {
		if slices.ContainsFunc(allowed, func(a string) bool { return strings.EqualFold(a, v) }) {
			return nil
		}
		return fmt.Errorf("value %q is not one of %s", v, strings.Join(allowed, ", "))
	}
}
