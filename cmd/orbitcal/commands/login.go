package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"orbitcal-backend/lib/scrapers/orbit"
	"orbitcal-backend/lib/util/serviceutil"
)

func init() {
	rootCmd.AddCommand(loginCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Logs into the portal with the configured credentials and saves the session cookies.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()

		ctx, cancel := commandContext(cmd.Context())
		defer cancel()

		cookies, err := orbit.Login(ctx, orbit.LoginOptions{
			LoginUrl: cfg.LoginUrl,
			Username: cfg.Username,
			Password: cfg.Password,
		})
		if err != nil {
			serviceutil.Fatal("login failed", err)
		}

		writeSession(Session{Cookies: cookies})
		slog.Info("session saved", "file", sessionFile, "cookies", len(cookies))
	},
}
