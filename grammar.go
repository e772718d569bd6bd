package timeparse

import (
	"regexp"
	"strings"
)

// Sub-patterns for each duration field: a numeral followed by the unit
// keywords that field accepts. Unit matching is case-insensitive at the
// format level.
const (
	signPattern   = `(?P<sign>[+|-]|\+)?`
	weeksPattern  = `(?P<weeks>[\d.]+)\s*(?:w|wks?|weeks?)`
	daysPattern   = `(?P<days>[\d.]+)\s*(?:d|dys?|days?)`
	hoursPattern  = `(?P<hours>[\d.]+)\s*(?:h|hrs?|hours?)`
	minsPattern   = `(?P<mins>[\d.]+)\s*(?:m|mins?|minutes?)`
	secsPattern   = `(?P<secs>[\d.]+)\s*(?:s|secs?|seconds?)`
	millisPattern = `(?P<millis>[\d.]+)\s*(?:ms|msecs?|millis|milliseconds?)`

	separators = `[,/]`

	// Clock forms reuse the field names positionally.
	secClockPattern  = `:(?P<secs>\d{2}(?:\.\d+)?)`
	minClockPattern  = `(?P<mins>\d{1,2}):(?P<secs>\d{2}(?:\.\d+)?)`
	hourClockPattern = `(?P<hours>\d+):(?P<mins>\d{2}):(?P<secs>\d{2}(?:\.\d+)?)`
	dayClockPattern  = `(?P<days>\d+):(?P<hours>\d{2}):(?P<mins>\d{2}):(?P<secs>\d{2}(?:\.\d+)?)`
)

// opt wraps a sub-pattern as optional.
func opt(p string) string {
	return `(?:` + p + `)?`
}

// optsep wraps a sub-pattern as optional and tolerates a trailing
// separator token.
func optsep(p string) string {
	return `(?:` + p + `\s*(?:` + separators + `\s*)?)?`
}

// fieldOrder fixes the order fields are summed in so that floating-point
// results are deterministic.
var fieldOrder = []string{"weeks", "days", "hours", "mins", "secs", "millis"}

// multipliers maps each field name to its value in seconds. Every field
// name appearing in a format pattern has exactly one entry here.
var multipliers = map[string]float64{
	"weeks":  60 * 60 * 24 * 7,
	"days":   60 * 60 * 24,
	"hours":  60 * 60,
	"mins":   60,
	"secs":   1,
	"millis": 1e-3,
}

// timeFormats holds the five duration shapes in priority order. Each is
// anchored to span the whole input; the first full match wins. The word
// form is tried first: it requires unit keywords, so colon-only clock
// expressions naturally fall through to the clock forms.
var timeFormats = compileFormats(
	optsep(weeksPattern)+`\s*`+optsep(daysPattern)+`\s*`+optsep(hoursPattern)+`\s*`+optsep(minsPattern)+`\s*`+opt(secsPattern)+`\s*`+opt(millisPattern),
	minClockPattern,
	optsep(weeksPattern)+`\s*`+optsep(daysPattern)+`\s*`+hourClockPattern,
	dayClockPattern,
	secClockPattern,
)

var signRe = regexp.MustCompile(`^\s*` + signPattern + `\s*(?P<unsigned>(?s:.*))$`)

func compileFormats(formats ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(formats))
	for i, f := range formats {
		compiled[i] = regexp.MustCompile(`(?i)^\s*` + f + `\s*$`)
	}
	return compiled
}

// numeral is a matched field value: the raw digits as written, plus a
// cached classification of whether they form a pure unsigned integer.
type numeral struct {
	text    string
	integer bool
}

func newNumeral(text string) numeral {
	return numeral{text: text, integer: isDigits(text)}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// extractSign splits an optional leading sign token from the input,
// returning -1 or +1 and the unsigned remainder. A leading "|" is a
// historical artifact of the sign pattern and reads as positive.
func extractSign(s string) (sign int, unsigned string) {
	m := signRe.FindStringSubmatch(s)
	sign = 1
	if m[1] == "-" {
		sign = -1
	}
	return sign, m[2]
}

// matchFields tries each format in order against the unsigned remainder
// and returns the named fields of the first one whose match spans the
// entire string and is non-empty once trimmed.
func matchFields(s string) (map[string]numeral, bool) {
	for _, re := range timeFormats {
		m := re.FindStringSubmatch(s)
		if m == nil || strings.TrimSpace(m[0]) == "" {
			continue
		}
		fields := make(map[string]numeral)
		for i, name := range re.SubexpNames() {
			if name == "" || m[i] == "" {
				continue
			}
			fields[name] = newNumeral(m[i])
		}
		return fields, true
	}
	return nil, false
}
