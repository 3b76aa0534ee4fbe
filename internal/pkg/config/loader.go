// Package config provides fail-open environment loaders: a value that is
// missing falls back silently, a value that fails to parse or validate
// falls back with a warning instead of stopping the process.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Result is the outcome of loading one setting.
type Result[T any] struct {
	Value           T
	Warning         string
	FallbackApplied bool
}

// LoadEnv reads key, parses it and validates it. parse and validate may be
// nil; a nil parse is only valid for string settings.
func LoadEnv[T any](key string, def T, parse func(string) (T, error), validate func(T) error) Result[T] {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return Result[T]{Value: def}
	}

	fallback := func(err error) Result[T] {
		return Result[T]{
			Value:           def,
			Warning:         fmt.Sprintf("invalid %s=%q: %v, falling back to default %v", key, raw, err, def),
			FallbackApplied: true,
		}
	}

	var v T
	if parse == nil {
		s, ok := any(raw).(T)
		if !ok {
			return fallback(fmt.Errorf("no parser for %T", def))
		}
		v = s
	} else {
		parsed, err := parse(raw)
		if err != nil {
			return fallback(err)
		}
		v = parsed
	}

	if validate != nil {
		if err := validate(v); err != nil {
			return fallback(err)
		}
	}
	return Result[T]{Value: v}
}

// LoadEnvString loads a string setting.
func LoadEnvString(key, def string, validate func(string) error) Result[string] {
	return LoadEnv(key, def, nil, validate)
}

// LoadEnvInt loads an integer setting.
func LoadEnvInt(key string, def int, validate func(int) error) Result[int] {
	return LoadEnv(key, def, strconv.Atoi, validate)
}

// LoadEnvFloat loads a float setting.
func LoadEnvFloat(key string, def float64, validate func(float64) error) Result[float64] {
	return LoadEnv(key, def, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	}, validate)
}

// LoadEnvDuration loads a setting in time.ParseDuration syntax.
func LoadEnvDuration(key string, def time.Duration, validate func(time.Duration) error) Result[time.Duration] {
	return LoadEnv(key, def, time.ParseDuration, validate)
}

// LoadEnvBool loads a setting in strconv.ParseBool syntax.
func LoadEnvBool(key string, def bool) Result[bool] {
	return LoadEnv(key, def, strconv.ParseBool, nil)
}

// LoadEnvList loads a comma-separated list, dropping empty entries.
func LoadEnvList(key string, def []string) Result[[]string] {
	return LoadEnv(key, def, func(s string) ([]string, error) {
		var out []string
		for _, part := range strings.Split(s, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("empty list")
		}
		return out, nil
	}, nil)
}
