package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/agora")
	t.Setenv("SESSION_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 100, cfg.MaxClientsPerChannel)
	assert.NotEmpty(t, cfg.InstanceID)
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SESSION_SECRET", "secret")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_RequiresSessionSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/agora")
	t.Setenv("SESSION_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestLoad_InvalidMaxClients(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/agora")
	t.Setenv("SESSION_SECRET", "secret")
	t.Setenv("MAX_CLIENTS_PER_CHANNEL", "zero")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_CLIENTS_PER_CHANNEL")
}

func TestLoad_ExplicitInstanceID(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/agora")
	t.Setenv("SESSION_SECRET", "secret")
	t.Setenv("INSTANCE_ID", "agora-1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "agora-1", cfg.InstanceID)
}
