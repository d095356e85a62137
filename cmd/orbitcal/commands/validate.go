package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"orbitcal-backend/lib/util/serviceutil"
	"orbitcal-backend/lib/util/sqliteutil"
	"orbitcal-backend/services/calendar"
	"orbitcal-backend/services/calendar/db"
)

var validateDb *string

func init() {
	validateDb = validateCmd.Flags().String("db", "results.db", "The database to read scraped classes from.")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate [--db <path/to/results.db>]",
	Short: "Checks the labelling rules against the latest scrape run.",
	Run: func(cmd *cobra.Command, args []string) {
		rules, err := calendar.ReadRules("rules.json5")
		if err != nil {
			serviceutil.Fatal("failed to read rules", err)
		}

		out, err := sqliteutil.OpenDB(db.Schema, *validateDb)
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

		issues := calendar.CheckRules(rules, classes)
		if len(issues) == 0 {
			fmt.Println("rules are consistent with the latest scrape")
			return
		}
		for _, issue := range issues {
			fmt.Fprintln(os.Stderr, issue.String())
		}
		os.Exit(1)
	},
}
