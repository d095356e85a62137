package commands

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"orbitcal-backend/lib/util/serviceutil"
	"orbitcal-backend/lib/util/sqliteutil"
	"orbitcal-backend/services/calendar"
	"orbitcal-backend/services/calendar/db"
)

var scrapeDb *string

func init() {
	scrapeDb = scrapeCmd.Flags().String("db", "results.db", "The database to write scrape results to.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--db <path/to/output.db>]",
	Short: "Scrapes the full schedule grid and writes it to a database.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		session := readSession()
		client := createClient(cfg, session)

		out, err := sqliteutil.OpenDB(db.Schema, *scrapeDb)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer out.Close()

		ctx, cancel := commandContext(cmd.Context())
		defer cancel()

		service := calendar.NewService(out)

		t1 := time.Now()
		report, err := service.Scrape(ctx, client, fetchOptions(cfg))
		t2 := time.Now()

		if err != nil {
			if report.Pages == 0 {
				serviceutil.Fatal("scrape failed", err)
			}
			slog.Warn("scrape finished with errors", "err", err)
		}
		slog.Info("scrape finished",
			"pages", report.Pages,
			"classes", len(report.Classes),
			"complete", report.Complete,
			"seconds", t2.Sub(t1).Seconds())
	},
}
