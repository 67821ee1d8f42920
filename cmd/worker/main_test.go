package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	platformtemporal "github.com/petopia/petopia-server/internal/platform/temporal"
)

func TestRun_ReturnsWhenTemporalDisabled(t *testing.T) {
	t.Setenv("TEMPORAL_DISABLED", "true")
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("ENVIRONMENT", "local")

	err := run(context.Background(), make(chan interface{}))

	require.ErrorIs(t, err, platformtemporal.ErrDisabled)
}
