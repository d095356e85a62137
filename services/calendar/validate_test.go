package calendar

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckRulesCleanPass(t *testing.T) {
	classes := []Class{
		sampleClass(nil),
		sampleClass(func(c *Class) { c.CourseName = "אלגברה לינארית" }),
	}
	rules := Rules{Courses: map[string]CourseOverride{
		"אלגברה": {Color: 3},
	}}

	require.Empty(t, CheckRules(rules, classes))
}

func TestCheckRulesUnmatchedCourse(t *testing.T) {
	classes := []Class{sampleClass(nil)}
	rules := Rules{Courses: map[string]CourseOverride{
		"מבוא לתיכנות": {Color: 3},
	}}

	issues := CheckRules(rules, classes)
	require.Len(t, issues, 1)
	require.Equal(t, "מבוא לתיכנות", issues[0].Rule)
	require.Contains(t, issues[0].Message, "matches no scraped course")
	require.Contains(t, issues[0].Message, "מבוא לתכנות")
}

func TestCheckRulesBadDates(t *testing.T) {
	classes := []Class{sampleClass(nil)}
	rules := Rules{Courses: map[string]CourseOverride{
		"מבוא": {
			IncludeDates: []string{"2026-09-01"},
			Dates: map[string]DateOverride{
				"08/09/2026": {Color: 7},
			},
		},
	}}

	issues := CheckRules(rules, classes)
	require.Len(t, issues, 2)

	messages := []string{issues[0].Message, issues[1].Message}
	require.Contains(t, messages[0]+messages[1], "not DD/MM/YYYY")
	require.Contains(t, messages[0]+messages[1], "no scraped class")
}
