package calendar

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"orbitcal-backend/lib/scrapers/orbit"
	"orbitcal-backend/lib/timezone"
	"orbitcal-backend/services/calendar/db"
)

type Service struct {
	db  *sql.DB
	qry *db.Queries
}

func NewService(database *sql.DB) Service {
	return Service{
		db:  database,
		qry: db.New(database),
	}
}

// ScrapeReport summarizes one scrape run.
type ScrapeReport struct {
	RunId    int64
	Pages    int
	Classes  []Class
	Complete bool
}

// Scrape walks the portal's schedule grid and persists whatever it
// got as a new run. when pagination aborts midway the pages fetched
// so far are still parsed and stored, with the run marked incomplete,
// and the scrape error is returned alongside the report.
func (s Service) Scrape(ctx context.Context, client *orbit.Client, opts orbit.FetchOptions) (ScrapeReport, error) {
	ctx, span := tracer.Start(ctx, "Scrape")
	defer span.End()

	if err := client.ValidateSession(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return ScrapeReport{}, err
	}

	pages, scrapeErr := client.FetchAllPages(ctx, opts)
	if scrapeErr != nil {
		var runErr *orbit.RunError
		if !errors.As(scrapeErr, &runErr) {
			span.RecordError(scrapeErr)
			span.SetStatus(codes.Error, scrapeErr.Error())
			return ScrapeReport{}, scrapeErr
		}
		pages = runErr.Pages
		slog.WarnContext(ctx, "scrape aborted midway, keeping partial result",
			"pages", len(pages), "err", scrapeErr)
	}
	if len(pages) == 0 {
		span.RecordError(scrapeErr)
		span.SetStatus(codes.Error, scrapeErr.Error())
		return ScrapeReport{}, scrapeErr
	}

	classes, err := ParsePages(ctx, pages)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return ScrapeReport{}, err
	}

	report := ScrapeReport{
		Pages:    len(pages),
		Classes:  classes,
		Complete: scrapeErr == nil,
	}
	report.RunId, err = s.saveRun(ctx, report)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return ScrapeReport{}, err
	}

	span.SetAttributes(
		attribute.Int("pages", report.Pages),
		attribute.Int("classes", len(report.Classes)),
		attribute.Bool("complete", report.Complete),
	)
	return report, scrapeErr
}

func (s Service) saveRun(ctx context.Context, report ScrapeReport) (int64, error) {
	ctx, span := tracer.Start(ctx, "saveRun")
	defer span.End()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	complete := int64(0)
	if report.Complete {
		complete = 1
	}
	runId, err := txqry.CreateRun(ctx, db.CreateRunParams{
		ScrapedAt:  timezone.Now().Unix(),
		PageCount:  int64(report.Pages),
		ClassCount: int64(len(report.Classes)),
		Complete:   complete,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	for _, c := range report.Classes {
		err := txqry.CreateClass(ctx, db.CreateClassParams{
			RunID:      runId,
			Date:       c.RawDate,
			Day:        c.Day,
			StartTime:  c.StartTime,
			EndTime:    c.EndTime,
			CourseName: c.CourseName,
			Teachers:   c.Teachers,
			Room:       c.Room,
			Note:       c.Note,
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return 0, err
		}
	}

	err = tx.Commit()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	return runId, nil
}

var ErrNoRuns = errors.New("no scrape runs stored yet")

// LatestClasses returns the classes of the most recent stored run.
func (s Service) LatestClasses(ctx context.Context) ([]Class, error) {
	ctx, span := tracer.Start(ctx, "LatestClasses")
	defer span.End()

	run, err := s.qry.GetLatestRun(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRuns
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	rows, err := s.qry.GetRunClasses(ctx, run.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	classes := make([]Class, 0, len(rows))
	for _, r := range rows {
		date, err := time.ParseInLocation(dateLayout, r.Date, timezone.Location)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		classes = append(classes, Class{
			Date:       date,
			RawDate:    r.Date,
			Day:        r.Day,
			StartTime:  r.StartTime,
			EndTime:    r.EndTime,
			CourseName: r.CourseName,
			Teachers:   r.Teachers,
			Room:       r.Room,
			Note:       r.Note,
		})
	}
	// the date column is DD/MM/YYYY so sql ordering is only
	// lexicographic, order chronologically here instead
	sort.Slice(classes, func(i, j int) bool {
		if !classes[i].Date.Equal(classes[j].Date) {
			return classes[i].Date.Before(classes[j].Date)
		}
		if classes[i].StartTime != classes[j].StartTime {
			return classes[i].StartTime < classes[j].StartTime
		}
		return classes[i].CourseName < classes[j].CourseName
	})
	return classes, nil
}

// Prune deletes runs older than the cutoff and any classes they owned.
func (s Service) Prune(ctx context.Context, before time.Time) error {
	ctx, span := tracer.Start(ctx, "Prune")
	defer span.End()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	if err := txqry.DeleteRunsBefore(ctx, before.Unix()); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if err := txqry.DeleteOrphanClasses(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	err = tx.Commit()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
