package commands

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"orbitcal-backend/lib/configutil"
	"orbitcal-backend/lib/scrapers/orbit"
	"orbitcal-backend/lib/util/serviceutil"
)

type Config struct {
	// schedule page url, something like https://host/OrbitLive/Main.aspx
	TargetUrl string `json:"target_url"`
	LoginUrl  string `json:"login_url"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	// overrides the default schedule grid control id when set
	GridControlId string            `json:"grid_control_id"`
	PoliteDelayMs int               `json:"polite_delay_ms"`
	FilterFields  map[string]string `json:"filter_fields"`
}

const sessionFile = "session.json5"

type Session struct {
	Cookies map[string]string `json:"cookies"`
}

func readConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	return cfg
}

func readSession() Session {
	session, err := configutil.ReadConfigOptional[Session](sessionFile)
	if err != nil {
		serviceutil.Fatal("failed to read session", err)
	}
	return session
}

func writeSession(session Session) {
	out, err := json.MarshalIndent(session, "", "    ")
	if err != nil {
		serviceutil.Fatal("failed to serialize session", err)
	}
	err = os.WriteFile(sessionFile, out, 0600)
	if err != nil {
		serviceutil.Fatal("failed to write session", err)
	}
}

func createClient(cfg Config, session Session) *orbit.Client {
	client, err := orbit.NewClient(orbit.ClientOptions{
		TargetUrl:     cfg.TargetUrl,
		Cookies:       session.Cookies,
		GridControlId: cfg.GridControlId,
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize client", err)
	}
	return client
}

func fetchOptions(cfg Config) orbit.FetchOptions {
	return orbit.FetchOptions{
		FilterFields: cfg.FilterFields,
		PoliteDelay:  time.Duration(cfg.PoliteDelayMs) * time.Millisecond,
	}
}

func commandContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, time.Minute*5)
}
