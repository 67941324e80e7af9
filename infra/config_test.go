package infra

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPgConfigConnectionString(t *testing.T) {
	cfg := PgConfig{
		Hostname: "localhost",
		Port:     "5432",
		User:     "postgres",
		Password: "secret",
		Database: "caregivers",
	}
	assert.Equal(t,
		"host=localhost user=postgres password=secret database=caregivers sslmode=prefer port=5432",
		cfg.GetConnectionString())

	cfg.DbConnectWithSocket = true
	cfg.SslMode = "disable"
	assert.Equal(t,
		"host=localhost user=postgres password=secret database=caregivers sslmode=disable",
		cfg.GetConnectionString())

	assert.Equal(t, "postgres://u:p@h/db", PgConfig{ConnectionString: "postgres://u:p@h/db"}.GetConnectionString())
}
