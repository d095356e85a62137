package calendar

import (
	"fmt"
	"time"

	"github.com/antzucaro/matchr"

	"orbitcal-backend/lib/textutil"
	"orbitcal-backend/lib/timezone"
)

// RuleIssue is one problem found while checking rules against the
// scraped classes.
type RuleIssue struct {
	Rule    string
	Message string
}

func (i RuleIssue) String() string {
	return fmt.Sprintf("%s: %s", i.Rule, i.Message)
}

// CheckRules verifies that every course override matches at least one
// scraped class and that all date keys parse. unmatched overrides get
// a closest-course suggestion so typos are easy to spot.
func CheckRules(rules Rules, classes []Class) []RuleIssue {
	courseNames := map[string]bool{}
	for _, c := range classes {
		courseNames[c.CourseName] = true
	}
	dates := map[string]bool{}
	for _, c := range classes {
		dates[c.RawDate] = true
	}

	var issues []RuleIssue
	for key, override := range rules.Courses {
		matched := false
		for name := range courseNames {
			if textutil.ContainsName(name, key) {
				matched = true
				break
			}
		}
		if !matched {
			msg := "matches no scraped course"
			if suggestion := closestCourse(key, courseNames); suggestion != "" {
				msg += fmt.Sprintf(", did you mean %q", suggestion)
			}
			issues = append(issues, RuleIssue{Rule: key, Message: msg})
		}

		for _, raw := range override.IncludeDates {
			issues = append(issues, checkDate(key, raw, dates, matched)...)
		}
		for raw := range override.Dates {
			issues = append(issues, checkDate(key, raw, dates, matched)...)
		}
	}
	return issues
}

func checkDate(rule, raw string, scraped map[string]bool, courseMatched bool) []RuleIssue {
	if _, err := time.ParseInLocation(dateLayout, raw, timezone.Location); err != nil {
		return []RuleIssue{{Rule: rule, Message: fmt.Sprintf("date %q is not DD/MM/YYYY", raw)}}
	}
	if courseMatched && !scraped[raw] {
		return []RuleIssue{{Rule: rule, Message: fmt.Sprintf("date %s has no scraped class", raw)}}
	}
	return nil
}

func closestCourse(key string, names map[string]bool) string {
	best := ""
	bestScore := 0.0
	for name := range names {
		score := matchr.JaroWinkler(key, name, true)
		if score > bestScore {
			best = name
			bestScore = score
		}
	}
	if bestScore < 0.6 {
		return ""
	}
	return best
}
