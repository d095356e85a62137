package calendar

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"time"

	"orbitcal-backend/lib/timezone"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("services/calendar")

// dateLayout is the portal's date column format, day first.
const dateLayout = "02/01/2006"

// Class is one scheduled meeting, the 8 columns of the schedule grid
// exactly as they appear in the HTML.
type Class struct {
	Date       time.Time
	RawDate    string
	Day        string
	StartTime  string
	EndTime    string
	CourseName string
	Teachers   string
	Room       string
	Note       string
}

// ParsePage extracts class rows out of one fetched schedule document.
func ParsePage(body []byte) ([]Class, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}

	var classes []Class
	doc.Find("table[id*=gvData] tr.GridRow").Each(func(_ int, row *goquery.Selection) {
		var cells []string
		row.Find("td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(cell.Text()))
		})
		if len(cells) < 8 {
			return
		}

		rawDate := cells[0]
		startTime := cells[2]
		if rawDate == "" || startTime == "" {
			return
		}

		date, err := time.ParseInLocation(dateLayout, rawDate, timezone.Location)
		if err != nil {
			slog.Warn("could not parse class date", "date", rawDate)
			return
		}

		classes = append(classes, Class{
			Date:       date,
			RawDate:    rawDate,
			Day:        cells[1],
			StartTime:  startTime,
			EndTime:    cells[3],
			CourseName: cells[4],
			Teachers:   cells[5],
			Room:       cells[6],
			Note:       cells[7],
		})
	})

	return classes, nil
}

// ParsePages flattens every page into one class list, dropping the
// placeholder rows the portal renders with a 00:00 start time.
func ParsePages(ctx context.Context, pages [][]byte) ([]Class, error) {
	ctx, span := tracer.Start(ctx, "ParsePages")
	defer span.End()

	var all []Class
	for i, page := range pages {
		classes, err := ParsePage(page)
		if err != nil {
			return nil, err
		}
		slog.DebugContext(ctx, "parsed page", "page", i+1, "classes", len(classes))
		all = append(all, classes...)
	}

	filtered := all[:0]
	removed := 0
	for _, c := range all {
		if c.StartTime == "00:00" {
			removed++
			continue
		}
		filtered = append(filtered, c)
	}
	if removed > 0 {
		slog.InfoContext(ctx, "filtered placeholder classes", "count", removed)
	}

	span.SetAttributes(attribute.Int("classes", len(filtered)))
	return filtered, nil
}
