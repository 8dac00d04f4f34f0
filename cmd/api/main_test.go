package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lims-api/pkg/config"
	"github.com/jhoicas/lims-api/pkg/logger"
)

// Sin base de datos run devuelve el error al llamador en vez de terminar el proceso.
func TestRun_PostgresInalcanzableDevuelveError(t *testing.T) {
	cfg := &config.Config{
		App: config.AppConfig{Env: "test", Name: "lims-test", Store: "postgres"},
		DB: config.DBConfig{
			Host: "127.0.0.1", Port: 1, User: "lims", Password: "x", DBName: "lims", SSLMode: "disable",
		},
	}
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "test", Level: "error", Out: &buf})

	done := make(chan error, 1)
	go func() { done <- run(cfg, log) }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "conexión a PostgreSQL")
	case <-time.After(30 * time.Second):
		t.Fatal("run no terminó con la base de datos caída")
	}
}
