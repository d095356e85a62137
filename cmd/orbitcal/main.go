package main

import (
	"context"

	"orbitcal-backend/cmd/orbitcal/commands"
	"orbitcal-backend/lib/telemetry"
	"orbitcal-backend/lib/util/serviceutil"
)

func main() {
	ctx := serviceutil.SignalContext()

	t, err := telemetry.SetupFromEnv(ctx, "orbitcal")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer t.Shutdown(context.Background())
	telemetry.InstrumentPerfStats(ctx)

	telemetry.InitSlog(true)
	commands.ExecuteContext(ctx)
}
