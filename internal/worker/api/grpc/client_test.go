package grpc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nemanja-m/logscan/internal/shared/config"
)

func TestKeepaliveParams_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	coordinator, err := config.LoadCoordinator("")
	require.NoError(t, err)

	params := keepaliveParams(config.WorkerGRPCConfig{})
	require.GreaterOrEqual(t, params.Time, coordinator.GRPC.KeepaliveMinTime,
		"default ping interval must satisfy the coordinator's enforcement policy")
	require.Equal(t, 5*time.Second, params.Timeout)
	require.True(t, params.PermitWithoutStream)
}

func TestKeepaliveParams_FromConfig(t *testing.T) {
	params := keepaliveParams(config.WorkerGRPCConfig{
		KeepaliveTime:    time.Minute,
		KeepaliveTimeout: 2 * time.Second,
	})
	require.Equal(t, time.Minute, params.Time)
	require.Equal(t, 2*time.Second, params.Timeout)
}
