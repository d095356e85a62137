package telemetry

import (
	"context"
	"fmt"
	"testing"
)

var setupTestEnvironments = map[string]bool{}

// sets up slog + telemetry in a testing environment, ensuring that it
// isn't set up more than once per service name
func SetupForTesting(t testing.TB, serviceName string) func() {
	if setupTestEnvironments[serviceName] {
		return func() {}
	}
	setupTestEnvironments[serviceName] = true

	InitSlog(true)

	ctx := context.Background()
	tel, err := SetupFromEnv(ctx, fmt.Sprintf("test:%s", serviceName))
	if err != nil {
		t.Fatal(err)
	}
	return func() {
		err := tel.Shutdown(ctx)
		if err != nil {
			t.Fatal(err)
		}
	}
}
