// Package timeutil provides the cycle date and duration arithmetic used by
// the task engine.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// CycleDateLayout is the calendar date layout of the PDY runtime key.
const CycleDateLayout = "20060102"

var timedeltaRe = regexp.MustCompile(`(?i)(\d+)\s*(w(?:eeks?)?|d(?:ays?)?|h(?:(?:ou)?rs?)?|m(?:in(?:ute)?s?)?|s(?:ec(?:ond)?s?)?)`)

// ToTimedelta parses a duration spec such as "6H", "6 hours", "-3H",
// "1d6H" or "30 minutes" into a time.Duration.
func ToTimedelta(spec string) (time.Duration, error) {
	trimmed := strings.TrimSpace(spec)
	if trimmed == "" {
		return 0, fmt.Errorf("empty duration spec")
	}
	negative := false
	if strings.HasPrefix(trimmed, "-") {
		negative = true
		trimmed = strings.TrimSpace(trimmed[1:])
	}
	matches := timedeltaRe.FindAllStringSubmatchIndex(trimmed, -1)
	if len(matches) == 0 {
		return 0, fmt.Errorf("invalid duration spec %q", spec)
	}
	var total time.Duration
	pos := 0
	for _, match := range matches {
		// The tokens must cover the whole spec: "6 months" matching only
		// "6 m" and trailing garbage are both rejected.
		if strings.TrimSpace(trimmed[pos:match[0]]) != "" {
			return 0, fmt.Errorf("invalid duration spec %q", spec)
		}
		pos = match[1]
		amount, err := strconv.Atoi(trimmed[match[2]:match[3]])
		if err != nil {
			return 0, fmt.Errorf("invalid duration amount %q: %w", trimmed[match[2]:match[3]], err)
		}
		unit, err := unitDuration(trimmed[match[4]:match[5]])
		if err != nil {
			return 0, fmt.Errorf("invalid duration spec %q: %w", spec, err)
		}
		total += time.Duration(amount) * unit
	}
	if strings.TrimSpace(trimmed[pos:]) != "" {
		return 0, fmt.Errorf("invalid duration spec %q", spec)
	}
	if negative {
		total = -total
	}
	return total, nil
}

func unitDuration(unit string) (time.Duration, error) {
	switch strings.ToLower(unit)[:1] {
	case "w":
		return 7 * 24 * time.Hour, nil
	case "d":
		return 24 * time.Hour, nil
	case "h":
		return time.Hour, nil
	case "m":
		return time.Minute, nil
	case "s":
		return time.Second, nil
	default:
		return 0, fmt.Errorf("unknown unit %q", unit)
	}
}

// AddToDatetime offsets a datetime by a duration.
func AddToDatetime(base time.Time, delta time.Duration) time.Time {
	return base.Add(delta)
}

// ParseCycleDate parses a PDY value (YYYYMMDD) into a UTC datetime at
// midnight.
func ParseCycleDate(pdy string) (time.Time, error) {
	parsed, err := time.ParseInLocation(CycleDateLayout, strings.TrimSpace(pdy), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid cycle date %q: %w", pdy, err)
	}
	return parsed, nil
}
