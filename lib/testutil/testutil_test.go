package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// a checkout carries no telemetry.json5, so the cleanup returned by
// SetupService must not trip over a failed exporter flush
func TestSetupServiceCleanupWithoutTelemetryConfig(t *testing.T) {
	result, cleanup := SetupService(t, ServiceParams{
		Name:     "testutil",
		DbSchema: "CREATE TABLE IF NOT EXISTS items (id INTEGER PRIMARY KEY);",
	})
	require.NotNil(t, result.DB)

	_, err := result.DB.Exec("INSERT INTO items DEFAULT VALUES")
	require.NoError(t, err)

	cleanup()
}
