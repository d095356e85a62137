package commands

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"orbitcal-backend/lib/util/serviceutil"
	"orbitcal-backend/lib/util/sqliteutil"
	"orbitcal-backend/services/calendar"
	"orbitcal-backend/services/calendar/db"
)

var classesDb *string

func init() {
	classesDb = classesCmd.Flags().String("db", "results.db", "The database to read scraped classes from.")
	rootCmd.AddCommand(classesCmd)
}

var classesCmd = &cobra.Command{
	Use:   "classes [--db <path/to/results.db>]",
	Short: "Prints the classes of the latest scrape run.",
	Run: func(cmd *cobra.Command, args []string) {
		out, err := sqliteutil.OpenDB(db.Schema, *classesDb)
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

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Date", "Day", "Start", "End", "Course", "Teachers", "Room", "Note"})

		for _, c := range classes {
			t.AppendRow(table.Row{
				c.RawDate, c.Day, c.StartTime, c.EndTime,
				c.CourseName, c.Teachers, c.Room, c.Note,
			})
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
