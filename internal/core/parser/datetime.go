package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/width"
)

const (
	maxOffsetDays    = 366
	maxOffsetHours   = maxOffsetDays * 24
	maxOffsetMinutes = maxOffsetHours * 60
)

var (
	reHoursLater   = regexp.MustCompile(`(\d+)\s*時間後`)
	reMinutesLater = regexp.MustCompile(`(\d+)\s*分後`)
	reDaysLater    = regexp.MustCompile(`(\d+)\s*日後`)
	reRelativeDay  = regexp.MustCompile(`明後日|あさって|今日|明日|あした|来週`)
	reClock        = regexp.MustCompile(`(\d+)\s*時(?:\s*(\d+)\s*分|(半))?`)
	reClockSuffix  = regexp.MustCompile(`^\s*の?\s*(\d+)\s*時(?:\s*(\d+)\s*分|(半))?`)
)

var relativeDayOffsets = map[string]int{
	"今日":   0,
	"明日":   1,
	"あした":  1,
	"明後日":  2,
	"あさって": 2,
	"来週":   7,
}

// span is a half-open byte range of the matched expression.
type span struct {
	start, end int
}

// normalize folds full-width digits, letters and symbols to their narrow
// forms so ３時間後 and ＠user are recognized.
func normalize(text string) string {
	return strings.TrimSpace(width.Fold.String(text))
}

// ResolveDateTime converts a relative Japanese time expression into an
// absolute time in now's location. Rules are tried most specific first:
// N時間後 / N分後, N日後 [HH時], 今日/明日/明後日/来週 [HH時], bare HH時.
// A day without a clock time resolves to 23:59:59 of that day. A bare clock
// time that is not after now rolls over to the next day.
func ResolveDateTime(text string, now time.Time) (time.Time, bool) {
	t, _, ok := resolveDateTime(normalize(text), now)
	return t, ok
}

func resolveDateTime(text string, now time.Time) (time.Time, span, bool) {
	if t, sp, ok := resolveOffset(text, now, reHoursLater, maxOffsetHours, time.Hour); ok {
		return t, sp, true
	}
	if t, sp, ok := resolveOffset(text, now, reMinutesLater, maxOffsetMinutes, time.Minute); ok {
		return t, sp, true
	}
	if t, sp, ok := resolveDaysLater(text, now); ok {
		return t, sp, true
	}
	if t, sp, ok := resolveRelativeDay(text, now); ok {
		return t, sp, true
	}
	if t, sp, ok := resolveBareClock(text, now); ok {
		return t, sp, true
	}
	return time.Time{}, span{}, false
}

func resolveOffset(text string, now time.Time, re *regexp.Regexp, limit int, unit time.Duration) (time.Time, span, bool) {
	loc := re.FindStringSubmatchIndex(text)
	if loc == nil {
		return time.Time{}, span{}, false
	}
	n, ok := parseBounded(text[loc[2]:loc[3]], 0, limit)
	if !ok {
		return time.Time{}, span{}, false
	}
	return now.Add(time.Duration(n) * unit), span{loc[0], loc[1]}, true
}

func resolveDaysLater(text string, now time.Time) (time.Time, span, bool) {
	loc := reDaysLater.FindStringSubmatchIndex(text)
	if loc == nil {
		return time.Time{}, span{}, false
	}
	days, ok := parseBounded(text[loc[2]:loc[3]], 0, maxOffsetDays)
	if !ok {
		return time.Time{}, span{}, false
	}
	day := now.AddDate(0, 0, days)

	hour, minute, clockLen, found, valid := clockAfter(text[loc[1]:])
	if found && !valid {
		return time.Time{}, span{}, false
	}
	if !found {
		return day, span{loc[0], loc[1]}, true
	}
	return atClock(day, hour, minute), span{loc[0], loc[1] + clockLen}, true
}

func resolveRelativeDay(text string, now time.Time) (time.Time, span, bool) {
	loc := reRelativeDay.FindStringIndex(text)
	if loc == nil {
		return time.Time{}, span{}, false
	}
	day := now.AddDate(0, 0, relativeDayOffsets[text[loc[0]:loc[1]]])

	hour, minute, clockLen, found, valid := clockAfter(text[loc[1]:])
	if found && !valid {
		return time.Time{}, span{}, false
	}
	if !found {
		return endOfDay(day), span{loc[0], loc[1]}, true
	}
	return atClock(day, hour, minute), span{loc[0], loc[1] + clockLen}, true
}

func resolveBareClock(text string, now time.Time) (time.Time, span, bool) {
	for _, loc := range reClock.FindAllStringSubmatchIndex(text, -1) {
		if strings.HasPrefix(text[loc[1]:], "間") {
			continue
		}
		hour, minute, ok := clockValues(text, loc)
		if !ok {
			return time.Time{}, span{}, false
		}
		t := atClock(now, hour, minute)
		if !t.After(now) {
			t = t.AddDate(0, 0, 1)
		}
		return t, span{loc[0], loc[1]}, true
	}
	return time.Time{}, span{}, false
}

// clockAfter looks for a clock time directly following a day expression.
// found reports a clock-like token; valid reports whether its values are in
// range.
func clockAfter(rest string) (hour, minute, length int, found, valid bool) {
	loc := reClockSuffix.FindStringSubmatchIndex(rest)
	if loc == nil || strings.HasPrefix(rest[loc[1]:], "間") {
		return 0, 0, 0, false, false
	}
	hour, minute, valid = clockValues(rest, loc)
	return hour, minute, loc[1], true, valid
}

func clockValues(text string, loc []int) (int, int, bool) {
	hour, ok := parseBounded(text[loc[2]:loc[3]], 0, 23)
	if !ok {
		return 0, 0, false
	}
	minute := 0
	switch {
	case loc[4] >= 0:
		minute, ok = parseBounded(text[loc[4]:loc[5]], 0, 59)
		if !ok {
			return 0, 0, false
		}
	case loc[6] >= 0:
		minute = 30
	}
	return hour, minute, true
}

func parseBounded(s string, min, max int) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < min || n > max {
		return 0, false
	}
	return n, true
}

func atClock(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

func endOfDay(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, day.Location())
}
