// Package timeparse parses human-written duration expressions into a
// count of seconds.
//
// Supported shapes include clock forms ("1:24", "1:22:33.5", ":22",
// "1:02:03:04"), unit forms ("1m24s", "1.2 minutes", "2 days, 4:13:02"),
// plain numerals ("30"), and an optional leading sign. Results that are
// whole numbers of seconds are exact integers; anything with a
// fractional component is a float.
package timeparse

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Granularity controls how ambiguous two-field clock expressions like
// "1:24" are read: as minutes and seconds (the default) or as hours and
// minutes.
type Granularity int

const (
	// GranularitySeconds reads "1:24" as 1 minute, 24 seconds.
	GranularitySeconds Granularity = iota
	// GranularityMinutes reads "1:24" as 1 hour, 24 minutes.
	GranularityMinutes
)

// ErrUnparseable is returned for any input that cannot be interpreted
// as a duration. No finer-grained failure kinds are exposed.
var ErrUnparseable = errors.New("unparseable duration")

// Value is a parsed duration in seconds. Durations expressible as a
// whole number of seconds are carried as integers; the rest as floats.
type Value struct {
	i     int64
	f     float64
	exact bool
}

func intValue(i int64) Value {
	return Value{i: i, exact: true}
}

func floatValue(f float64) Value {
	return Value{f: f}
}

// Exact reports whether the value is an exact whole number of seconds.
func (v Value) Exact() bool {
	return v.exact
}

// Seconds returns the duration as a float64 count of seconds.
func (v Value) Seconds() float64 {
	if v.exact {
		return float64(v.i)
	}
	return v.f
}

// Int64 returns the duration as a whole number of seconds. The second
// return is false when the value carries a fractional component.
func (v Value) Int64() (int64, bool) {
	return v.i, v.exact
}

// Duration converts the value to a time.Duration. Durations beyond the
// int64 nanosecond range overflow.
func (v Value) Duration() time.Duration {
	if v.exact {
		return time.Duration(v.i) * time.Second
	}
	return time.Duration(v.f * float64(time.Second))
}

// String formats the value as a plain decimal numeral.
func (v Value) String() string {
	if v.exact {
		return strconv.FormatInt(v.i, 10)
	}
	return strconv.FormatFloat(v.f, 'f', -1, 64)
}

// Parse parses a duration expression into seconds, reading two-field
// clock expressions as minutes and seconds. It returns ErrUnparseable
// for anything it cannot interpret; it never panics.
func Parse(s string) (Value, error) {
	return ParseGranularity(s, GranularitySeconds)
}

// ParseGranularity is Parse with an explicit rule for two-field clock
// expressions: GranularityMinutes reads the same digits of "1:24" as
// one hour and twenty-four minutes.
func ParseGranularity(s string, g Granularity) (Value, error) {
	v, err := parse(s, g)
	if err != nil {
		return Value{}, ErrUnparseable
	}
	return v, nil
}

// ParseAny accepts numeric inputs alongside strings. Numbers bypass the
// grammar entirely and are truncated toward zero to whole seconds.
func ParseAny(input any, g Granularity) (Value, error) {
	switch n := input.(type) {
	case string:
		return ParseGranularity(n, g)
	case int:
		return intValue(int64(n)), nil
	case int8:
		return intValue(int64(n)), nil
	case int16:
		return intValue(int64(n)), nil
	case int32:
		return intValue(int64(n)), nil
	case int64:
		return intValue(n), nil
	case uint:
		if uint64(n) > math.MaxInt64 {
			return Value{}, ErrUnparseable
		}
		return intValue(int64(n)), nil
	case uint8:
		return intValue(int64(n)), nil
	case uint16:
		return intValue(int64(n)), nil
	case uint32:
		return intValue(int64(n)), nil
	case uint64:
		if n > math.MaxInt64 {
			return Value{}, ErrUnparseable
		}
		return intValue(int64(n)), nil
	case float32:
		t, err := truncate(float64(n))
		if err != nil {
			return Value{}, ErrUnparseable
		}
		return intValue(t), nil
	case float64:
		t, err := truncate(n)
		if err != nil {
			return Value{}, ErrUnparseable
		}
		return intValue(t), nil
	default:
		return Value{}, ErrUnparseable
	}
}

// parse runs the full pipeline: sign extraction, ordered format
// matching, granularity reinterpretation, then numeric reduction.
// Internal errors are richer than the public surface; ParseGranularity
// collapses them all into ErrUnparseable.
func parse(s string, g Granularity) (Value, error) {
	sign, unsigned := extractSign(s)

	fields, ok := matchFields(unsigned)
	if !ok {
		return parseFallback(unsigned, sign)
	}

	if g == GranularityMinutes {
		if err := interpretAsMinutes(unsigned, fields); err != nil {
			return Value{}, err
		}
	}

	return reduce(fields, sign)
}

// interpretAsMinutes rewrites a two-field clock match from
// minutes:seconds to hours:minutes. It applies only when the unsigned
// expression has exactly one colon, no decimal point, and no larger
// field already present.
func interpretAsMinutes(unsigned string, fields map[string]numeral) error {
	if strings.Count(unsigned, ":") != 1 || strings.Contains(unsigned, ".") {
		return nil
	}
	for _, name := range []string{"hours", "days", "weeks"} {
		if _, ok := fields[name]; ok {
			return nil
		}
	}
	mins, ok := fields["mins"]
	if !ok {
		return fmt.Errorf("clock expression %q has no minutes field", unsigned)
	}
	secs, ok := fields["secs"]
	if !ok {
		return fmt.Errorf("clock expression %q has no seconds field", unsigned)
	}
	fields["hours"] = mins
	fields["mins"] = secs
	delete(fields, "secs")
	return nil
}

// reduce folds a field map into a single signed value. The result stays
// an integer whenever the seconds field (if any) is written as a whole
// number; only a fractional seconds field forces a float result.
func reduce(fields map[string]numeral, sign int) (Value, error) {
	allInteger := true
	for _, n := range fields {
		if !n.integer {
			allInteger = false
			break
		}
	}

	if allInteger {
		// Whole-number fields sum exactly. A millis field still scales
		// by 1e-3, so its presence demotes the result to a float.
		var total int64
		for _, name := range fieldOrder {
			n, ok := fields[name]
			if !ok || name == "millis" {
				continue
			}
			v, err := strconv.ParseInt(n.text, 10, 64)
			if err != nil {
				return Value{}, err
			}
			total += int64(multipliers[name]) * v
		}
		millis, ok := fields["millis"]
		if !ok {
			return intValue(int64(sign) * total), nil
		}
		mv, err := strconv.ParseInt(millis.text, 10, 64)
		if err != nil {
			return Value{}, err
		}
		return floatValue(float64(sign) * (float64(total) + 1e-3*float64(mv))), nil
	}

	secs, hasSecs := fields["secs"]
	if !hasSecs || secs.integer {
		// Only non-seconds fields carry fractions: their sum truncates
		// toward zero and the result stays an integer. The seconds
		// contribution is added unsigned; only the truncated remainder
		// takes the sign.
		var whole int64
		if hasSecs {
			v, err := strconv.ParseInt(secs.text, 10, 64)
			if err != nil {
				return Value{}, err
			}
			whole = v
		}
		var sum float64
		for _, name := range fieldOrder {
			if name == "secs" {
				continue
			}
			n, ok := fields[name]
			if !ok {
				continue
			}
			v, err := strconv.ParseFloat(n.text, 64)
			if err != nil {
				return Value{}, err
			}
			sum += multipliers[name] * v
		}
		frac, err := truncate(sum)
		if err != nil {
			return Value{}, err
		}
		return intValue(whole + int64(sign)*frac), nil
	}

	// The seconds field itself is fractional: the whole sum is a float.
	var sum float64
	for _, name := range fieldOrder {
		n, ok := fields[name]
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(n.text, 64)
		if err != nil {
			return Value{}, err
		}
		sum += multipliers[name] * v
	}
	return floatValue(float64(sign) * sum), nil
}

// parseFallback interprets the remainder as a bare decimal numeral of
// seconds, truncated toward zero ("3.9" yields 3).
func parseFallback(unsigned string, sign int) (Value, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(unsigned), 64)
	if err != nil {
		return Value{}, err
	}
	n, err := truncate(f)
	if err != nil {
		return Value{}, err
	}
	return intValue(int64(sign) * n), nil
}

// truncate converts a float to a whole number of seconds, truncating
// toward zero. Values outside the int64 range are rejected.
func truncate(f float64) (int64, error) {
	if math.IsNaN(f) || f >= float64(math.MaxInt64) || f < float64(math.MinInt64) {
		return 0, fmt.Errorf("%v overflows a whole number of seconds", f)
	}
	return int64(f), nil
}
