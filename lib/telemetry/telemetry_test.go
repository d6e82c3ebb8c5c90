package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// with no endpoints configured, setup must not install exporters that
// would fail every flush with an empty endpoint url
func TestSetupWithoutEndpointsIsNoop(t *testing.T) {
	tel, err := Setup(context.Background(), "test:telemetry", config{})
	require.NoError(t, err)
	require.Empty(t, tel.shutdownFuncs)
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestSetupFromEnvWithoutConfigFile(t *testing.T) {
	tel, err := SetupFromEnv(context.Background(), "test:telemetry-env")
	require.NoError(t, err)
	require.NoError(t, tel.Shutdown(context.Background()))
}
