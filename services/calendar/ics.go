package calendar

import (
	"fmt"
	"strings"
	"time"

	"orbitcal-backend/lib/timezone"
)

const icsTimeLayout = "20060102T150405"

// WriteICS renders the classes that survive the rules' filtering as
// an iCalendar document. events carry X-GOOGLE-CALENDAR-COLOR-ID so
// importing into google calendar keeps the labelling.
func WriteICS(classes []Class, rules Rules, calendarName string) (string, error) {
	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteString("\r\n")
	}

	line("BEGIN:VCALENDAR")
	line("VERSION:2.0")
	line("PRODID:-//orbitcal//orbitcal-backend//EN")
	line("CALSCALE:GREGORIAN")
	line("METHOD:PUBLISH")
	line("X-WR-CALNAME:" + escapeICS(calendarName))
	line("X-WR-TIMEZONE:" + timezone.Location.String())

	for i, c := range classes {
		if !rules.Include(c) {
			continue
		}
		start, end, err := classTimes(c)
		if err != nil {
			return "", fmt.Errorf("class %q on %s: %w", c.CourseName, c.RawDate, err)
		}
		color := rules.AssignColor(c)

		line("BEGIN:VEVENT")
		line(fmt.Sprintf("UID:%s-%s-%d@orbitcal", start.Format("20060102"), start.Format("1504"), i))
		line("DTSTAMP:" + timezone.Now().UTC().Format(icsTimeLayout) + "Z")
		line(fmt.Sprintf("DTSTART;TZID=%s:%s", timezone.Location, start.Format(icsTimeLayout)))
		line(fmt.Sprintf("DTEND;TZID=%s:%s", timezone.Location, end.Format(icsTimeLayout)))
		line("SUMMARY:" + escapeICS(c.CourseName))
		if c.Room != "" {
			line("LOCATION:" + escapeICS(c.Room))
		}
		if desc := classDescription(c); desc != "" {
			line("DESCRIPTION:" + escapeICS(desc))
		}
		line(fmt.Sprintf("X-GOOGLE-CALENDAR-COLOR-ID:%d", color))
		line("CATEGORIES:" + escapeICS(ColorName(color)))
		line("END:VEVENT")
	}

	line("END:VCALENDAR")
	return b.String(), nil
}

func classTimes(c Class) (time.Time, time.Time, error) {
	start, err := combine(c.Date, c.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := combine(c.Date, c.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !end.After(start) {
		// portal occasionally reports a zero-length slot, give it
		// a nominal duration so calendar clients render it
		end = start.Add(45 * time.Minute)
	}
	return start, end, nil
}

func combine(date time.Time, clock string) (time.Time, error) {
	t, err := time.ParseInLocation("15:04", clock, timezone.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad clock time %q: %w", clock, err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), 0, 0, timezone.Location), nil
}

func classDescription(c Class) string {
	var parts []string
	if c.Teachers != "" {
		parts = append(parts, c.Teachers)
	}
	if c.Note != "" {
		parts = append(parts, c.Note)
	}
	return strings.Join(parts, "\n")
}

func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
