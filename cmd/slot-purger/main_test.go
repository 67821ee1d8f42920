package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_RequiresPostgresDSN(t *testing.T) {
	t.Setenv("ENVIRONMENT", "local")
	t.Setenv("POSTGRES_DSN", "")
	var out bytes.Buffer

	err := run(context.Background(), &out)

	require.ErrorIs(t, err, errNoDSN)
	assert.NotContains(t, out.String(), "purge completed")
}

func TestRun_RejectsBadRetention(t *testing.T) {
	t.Setenv("ENVIRONMENT", "local")
	t.Setenv("POSTGRES_DSN", "postgres://localhost/petopia")
	t.Setenv("SLOT_RETENTION_DAYS", "0")

	err := run(context.Background(), &bytes.Buffer{})

	require.ErrorContains(t, err, "SLOT_RETENTION_DAYS must be a positive integer")
}
