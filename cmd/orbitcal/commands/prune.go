package commands

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"orbitcal-backend/lib/timezone"
	"orbitcal-backend/lib/util/serviceutil"
	"orbitcal-backend/lib/util/sqliteutil"
	"orbitcal-backend/services/calendar"
	"orbitcal-backend/services/calendar/db"
)

var (
	pruneDb   *string
	pruneKeep *time.Duration
)

func init() {
	pruneDb = pruneCmd.Flags().String("db", "results.db", "The database to prune.")
	pruneKeep = pruneCmd.Flags().Duration("keep", time.Hour*24*30, "How far back to keep scrape runs.")
	rootCmd.AddCommand(pruneCmd)
}

var pruneCmd = &cobra.Command{
	Use:   "prune [--db <path/to/results.db>] [--keep <duration>]",
	Short: "Deletes scrape runs older than the retention window.",
	Run: func(cmd *cobra.Command, args []string) {
		out, err := sqliteutil.OpenDB(db.Schema, *pruneDb)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer out.Close()

		ctx, cancel := commandContext(cmd.Context())
		defer cancel()

		cutoff := timezone.Now().Add(-*pruneKeep)
		err = calendar.NewService(out).Prune(ctx, cutoff)
		if err != nil {
			serviceutil.Fatal("failed to prune", err)
		}
		slog.Info("pruned old runs", "cutoff", cutoff)
	},
}
