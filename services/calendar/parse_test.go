package calendar

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func gridPage(rows ...[]string) []byte {
	var b strings.Builder
	b.WriteString(`<html><body><form>`)
	b.WriteString(`<input type="hidden" name="__VIEWSTATE" value="vs-1" />`)
	b.WriteString(`<input type="hidden" name="__EVENTVALIDATION" value="ev-1" />`)
	b.WriteString(`<table id="ctl00_ContentPlaceHolder1_gvData">`)
	b.WriteString(`<tr class="GridHeader"><th>date</th><th>day</th><th>start</th><th>end</th><th>course</th><th>teachers</th><th>room</th><th>note</th></tr>`)
	for _, row := range rows {
		b.WriteString(`<tr class="GridRow">`)
		for _, cell := range row {
			fmt.Fprintf(&b, "<td>%s</td>", cell)
		}
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</table></form></body></html>`)
	return []byte(b.String())
}

func classRow(date, start, course string) []string {
	return []string{date, "ב'", start, "17:15", course, "מרצה כלשהו", "חדר 12", ""}
}

func TestParsePage(t *testing.T) {
	page := gridPage(
		[]string{"01/09/2026", "ג'", "16:00", "17:30", "מבוא לתכנות", "ישראל ישראלי", "חדר 3", "הערה"},
		classRow("02/09/2026", "08:30", "אלגברה"),
	)

	classes, err := ParsePage(page)
	require.NoError(t, err)
	require.Len(t, classes, 2)

	c := classes[0]
	require.Equal(t, "01/09/2026", c.RawDate)
	require.Equal(t, 2026, c.Date.Year())
	require.Equal(t, "ג'", c.Day)
	require.Equal(t, "16:00", c.StartTime)
	require.Equal(t, "17:30", c.EndTime)
	require.Equal(t, "מבוא לתכנות", c.CourseName)
	require.Equal(t, "ישראל ישראלי", c.Teachers)
	require.Equal(t, "חדר 3", c.Room)
	require.Equal(t, "הערה", c.Note)
}

func TestParsePageSkipsPartialRows(t *testing.T) {
	page := gridPage(
		[]string{"1", "2", "3"},
		[]string{"", "ב'", "16:00", "17:15", "ללא תאריך", "", "", ""},
		[]string{"01/09/2026", "ב'", "", "17:15", "ללא שעה", "", "", ""},
		[]string{"not-a-date", "ב'", "16:00", "17:15", "תאריך שבור", "", "", ""},
		classRow("01/09/2026", "16:00", "קורס תקין"),
	)

	classes, err := ParsePage(page)
	require.NoError(t, err)
	require.Len(t, classes, 1)
	require.Equal(t, "קורס תקין", classes[0].CourseName)
}

func TestParsePagesFiltersPlaceholders(t *testing.T) {
	pages := [][]byte{
		gridPage(
			classRow("01/09/2026", "16:00", "קורס א"),
			classRow("01/09/2026", "00:00", "שורת מקום"),
		),
		gridPage(classRow("02/09/2026", "10:00", "קורס ב")),
	}

	classes, err := ParsePages(context.Background(), pages)
	require.NoError(t, err)
	require.Len(t, classes, 2)
	require.Equal(t, "קורס א", classes[0].CourseName)
	require.Equal(t, "קורס ב", classes[1].CourseName)
}
