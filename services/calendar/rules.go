package calendar

import (
	"strings"

	"orbitcal-backend/lib/configutil"
	"orbitcal-backend/lib/textutil"
)

// google calendar color ids
const (
	ColorYellow = 5
	ColorBlue   = 9
	ColorRed    = 11
)

var colorNames = map[int]string{
	1:  "Lavender",
	2:  "Sage",
	3:  "Grape",
	4:  "Flamingo",
	5:  "Yellow-Monday",
	6:  "Tangerine",
	7:  "Peacock",
	8:  "Graphite",
	9:  "Blue-Zoom",
	10: "Basil",
	11: "Tomato",
}

func ColorName(id int) string {
	name, ok := colorNames[id]
	if !ok {
		return "Default"
	}
	return name
}

// DateOverride tweaks one specific date of one course.
type DateOverride struct {
	Color int `json:"color"`
	Skip  bool `json:"skip"`
}

// CourseOverride applies to every class whose course name contains
// the override key as a substring.
type CourseOverride struct {
	Color int `json:"color"`
	Skip  bool `json:"skip"`
	// when set, only classes on these DD/MM/YYYY dates are emitted
	IncludeDates []string `json:"include_dates"`
	// per-date overrides, keyed by DD/MM/YYYY
	Dates map[string]DateOverride `json:"dates"`
}

// Rules drives color labelling and per-course filtering of the
// emitted calendar. read from rules.json5.
type Rules struct {
	Courses map[string]CourseOverride `json:"courses"`
}

func ReadRules(name string) (Rules, error) {
	return configutil.ReadConfigOptional[Rules](name)
}

// mondayName is how the portal renders Monday in the day column
const mondayName = "ב'"

var syncOnlineMarker = "מקוון סינכרוני"
var zoomMarker = "זום"

func (r Rules) findOverride(c Class) (CourseOverride, bool) {
	// whitespace insensitive so rules survive the portal's
	// inconsistent spacing
	for key, override := range r.Courses {
		if textutil.ContainsName(c.CourseName, key) {
			return override, true
		}
	}
	return CourseOverride{}, false
}

// Include reports whether a class survives the rules' filtering.
func (r Rules) Include(c Class) bool {
	override, ok := r.findOverride(c)
	if !ok {
		return true
	}
	if override.Skip {
		return false
	}
	if date, ok := override.Dates[c.RawDate]; ok && date.Skip {
		return false
	}
	if len(override.IncludeDates) > 0 {
		for _, d := range override.IncludeDates {
			if d == c.RawDate {
				return true
			}
		}
		return false
	}
	return true
}

// AssignColor picks the class color: explicit overrides first, then
// the built-in rules (sync-online and zoom classes are blue, Monday
// classes are yellow, everything else is red).
func (r Rules) AssignColor(c Class) int {
	if override, ok := r.findOverride(c); ok {
		if date, ok := override.Dates[c.RawDate]; ok && date.Color != 0 {
			return date.Color
		}
		if override.Color != 0 {
			return override.Color
		}
	}

	if strings.Contains(c.CourseName, syncOnlineMarker) {
		return ColorBlue
	}
	if strings.Contains(c.Note, zoomMarker) {
		return ColorBlue
	}
	if c.Day == mondayName {
		return ColorYellow
	}
	return ColorRed
}
