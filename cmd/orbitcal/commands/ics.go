package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"orbitcal-backend/lib/util/serviceutil"
	"orbitcal-backend/lib/util/sqliteutil"
	"orbitcal-backend/services/calendar"
	"orbitcal-backend/services/calendar/db"
)

var (
	icsDb   *string
	icsOut  *string
	icsName *string
)

func init() {
	icsDb = icsCmd.Flags().String("db", "results.db", "The database to read scraped classes from.")
	icsOut = icsCmd.Flags().String("out", "calendar.ics", "The iCalendar file to write.")
	icsName = icsCmd.Flags().String("name", "OrbitLive", "The calendar display name.")
	rootCmd.AddCommand(icsCmd)
}

var icsCmd = &cobra.Command{
	Use:   "ics [--db <path/to/results.db>] [--out <path/to/calendar.ics>]",
	Short: "Renders the latest scrape run as an iCalendar file, applying the labelling rules.",
	Run: func(cmd *cobra.Command, args []string) {
		rules, err := calendar.ReadRules("rules.json5")
		if err != nil {
			serviceutil.Fatal("failed to read rules", err)
		}

		out, err := sqliteutil.OpenDB(db.Schema, *icsDb)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer out.Close()

		ctx, cancel := commandContext(cmd.Context())
		defer cancel()

		classes, err := calendar.NewService(out).LatestClasses(ctx)
		if err != nil {
			serviceutil.Fatal("failed to read classes", err)
		}

		ics, err := calendar.WriteICS(classes, rules, *icsName)
		if err != nil {
			serviceutil.Fatal("failed to render calendar", err)
		}
		err = os.WriteFile(*icsOut, []byte(ics), 0644)
		if err != nil {
			serviceutil.Fatal("failed to write calendar file", err)
		}

		slog.Info("calendar written", "file", *icsOut, "classes", len(classes))
	},
}
