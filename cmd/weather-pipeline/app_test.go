package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("OPENWEATHER_API_KEY", "test-key")
	t.Setenv("DATABASE_PATH", "file:"+t.Name()+"?mode=memory&cache=shared")
}

// Read-only commands must not construct a warehouse client even when a
// BigQuery project is configured.
func TestNewAppReadOnlySkipsWarehouse(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("BIGQUERY_PROJECT", "demo-project")

	a, err := newApp(context.Background(), false)
	require.NoError(t, err)

	assert.Nil(t, a.sink)
	a.close()
}

func TestNewAppWithoutProjectHasNoSink(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("BIGQUERY_PROJECT", "")

	a, err := newApp(context.Background(), true)
	require.NoError(t, err)

	assert.Nil(t, a.sink)
	a.close()
}
