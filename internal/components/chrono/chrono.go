package chrono

import (
	"regexp"
	"strconv"
	"time"

	// the site stamps every date in german wall-clock time, embedding the tz
	// database keeps that independent of the host's zoneinfo.
	_ "time/tzdata"
)

var berlin *time.Location

func init() {
	var err error
	berlin, err = time.LoadLocation("Europe/Berlin")
	if err != nil {
		panic(err)
	}
}

// Berlin returns a [*time.Location] for Europe/Berlin
func Berlin() *time.Location {
	return berlin
}

// D.M.YYYY H:m:s, every component but the year may be one or two digits
var germanDateTimeRegex = regexp.MustCompile(`(\d{1,2})\.(\d{1,2})\.(\d{4}) (\d{1,2}):(\d{1,2}):(\d{1,2})`)

// GermanDateTimeRegex exposes the date-time pattern so callers can anchor it to
// surrounding labels.
func GermanDateTimeRegex() *regexp.Regexp {
	return germanDateTimeRegex
}

// ParseGermanDateTime finds the first "D.M.YYYY H:m:s" in text and interprets it
// as wall-clock time in Europe/Berlin. ok is false if there is no such date.
func ParseGermanDateTime(text string) (t time.Time, ok bool) {
	groups := germanDateTimeRegex.FindStringSubmatch(text)
	if len(groups) < 7 {
		return time.Time{}, false
	}
	return DateFromGroups(groups[1:7])
}

// DateFromGroups builds a Berlin time out of the six captured components
// day, month, year, hour, minute, second (in that order).
func DateFromGroups(groups []string) (time.Time, bool) {
	if len(groups) != 6 {
		return time.Time{}, false
	}

	var parts [6]int
	for i, g := range groups {
		n, err := strconv.Atoi(g)
		if err != nil {
			return time.Time{}, false
		}
		parts[i] = n
	}
	day, month, year, hour, minute, second := parts[0], parts[1], parts[2], parts[3], parts[4], parts[5]

	if month < 1 || month > 12 || day < 1 || day > 31 ||
		hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, false
	}

	return time.Date(year, time.Month(month), day, hour, minute, second, 0, berlin), true
}
