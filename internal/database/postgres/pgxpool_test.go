package postgres

import (
	"context"
	"testing"

	"job-insight/internal/config"
	"job-insight/internal/database"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	got := DSN(config.DatabaseConfig{
		DBHost:     "db",
		DBPort:     "5432",
		DBName:     "jobs",
		DBUser:     "app",
		DBPassword: "p@ss word",
		DBSSLMode:  "disable",
	})
	assert.Equal(t, "postgres://app:p%40ss%20word@db:5432/jobs?sslmode=disable", got)
}

func TestNilPool(t *testing.T) {
	var p *Pool
	ctx := context.Background()
	assert.ErrorIs(t, p.Ping(ctx), database.ErrNilDB)
	_, err := p.Exec(ctx, "SELECT 1")
	assert.ErrorIs(t, err, database.ErrNilDB)
	var n int
	assert.ErrorIs(t, p.QueryRow(ctx, "SELECT 1").Scan(&n), database.ErrNilDB)
	assert.NoError(t, p.Close())
	assert.Empty(t, p.Stats())
}
