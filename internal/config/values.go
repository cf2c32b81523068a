package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Values read from a service's `config:` block in services.yaml. yaml.v3
// decodes numbers as int or float64 and everything may also arrive quoted,
// so each reader accepts the forms seen in practice and falls back to def.

func Int(cfg map[string]interface{}, key string, def int) int {
	v, ok := cfg[key]
	if !ok || v == nil {
		return def
	}
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	case string:
		var parsed int
		if _, err := fmt.Sscanf(strings.TrimSpace(t), "%d", &parsed); err == nil {
			return parsed
		}
	}
	return def
}

func String(cfg map[string]interface{}, key, def string) string {
	if v, ok := cfg[key].(string); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func Bool(cfg map[string]interface{}, key string, def bool) bool {
	switch t := cfg[key].(type) {
	case bool:
		return t
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(t)); err == nil {
			return b
		}
	}
	return def
}

// Duration accepts Go duration strings ("90s", "30m") or a number of seconds.
func Duration(cfg map[string]interface{}, key string, def time.Duration) time.Duration {
	switch t := cfg[key].(type) {
	case string:
		if d, err := time.ParseDuration(strings.TrimSpace(t)); err == nil {
			return d
		}
	case int:
		return time.Duration(t) * time.Second
	case float64:
		return time.Duration(t * float64(time.Second))
	}
	return def
}

// Location loads the configured time zone, falling back to DefaultTimeZone and then UTC.
func Location(cfg map[string]interface{}) *time.Location {
	name := String(cfg, "time_zone", DefaultTimeZone)
	if loc, err := time.LoadLocation(name); err == nil {
		return loc
	}
	return time.UTC
}

// ResolveAsOf returns the report date: raw (YYYY-MM-DD) when set, otherwise
// today in loc. Only the calendar day matters to the engine.
func ResolveAsOf(raw string, now time.Time, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		y, m, d := now.In(loc).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid as-of date %q: %w", raw, err)
	}
	return t, nil
}
