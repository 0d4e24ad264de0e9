package db

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"printify/pkg/config"
)

func TestConnStrings(t *testing.T) {
	cfg := config.Config{DB: config.DBConfig{Host: "db", Port: "5432", Name: "printify", User: "u", Password: "p"}}
	assert.Equal(t, "postgres://u:p@db:5432/printify?sslmode=disable", runtimeConnString(cfg))
	assert.Equal(t, runtimeConnString(cfg), migrationConnString(cfg))

	cfg.DatabaseURL = "postgres://pooler/db?pgbouncer=true"
	cfg.DirectURL = "postgres://direct/db"
	assert.Equal(t, cfg.DatabaseURL, runtimeConnString(cfg))
	assert.Equal(t, cfg.DirectURL, migrationConnString(cfg))
	assert.True(t, usesPgBouncer(cfg.DatabaseURL))
	assert.False(t, usesPgBouncer(cfg.DirectURL))
}

func TestDSNEscapesCredentials(t *testing.T) {
	got := dsn(config.DBConfig{Host: "db", Port: "5432", Name: "printify", User: "u", Password: "p@ss/word", SSLMode: "require"})
	assert.Equal(t, "postgres://u:p%40ss%2Fword@db:5432/printify?sslmode=require", got)
}
