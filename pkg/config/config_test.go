package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lims-api/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_STORE", "memory")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.App.Store)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "lims.events", cfg.RabbitMQ.Exchange)
}

func TestLoad_StoreInvalido(t *testing.T) {
	t.Setenv("APP_STORE", "sqlite")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "lims", Password: "p@ss:word", DBName: "lims", SSLMode: "disable"}
	assert.Equal(t, "postgres://lims:p%40ss%3Aword@db:5432/lims?sslmode=disable", c.DSN())
}
