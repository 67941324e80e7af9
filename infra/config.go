package infra

import (
	"fmt"
)

type GcpConfig struct {
	ProjectId                    string
	GoogleApplicationCredentials string
	EnableTracing                bool
}

type PgConfig struct {
	ConnectionString    string
	Database            string
	DbConnectWithSocket bool
	Hostname            string
	Password            string
	Port                string
	User                string
	MaxPoolConnections  int
	SslMode             string
}

func (config PgConfig) GetConnectionString() string {
	if config.ConnectionString != "" {
		return config.ConnectionString
	}

	if config.SslMode == "" {
		config.SslMode = "prefer"
	}

	connectionString := fmt.Sprintf("host=%s user=%s password=%s database=%s sslmode=%s",
		config.Hostname, config.User, config.Password, config.Database, config.SslMode)
	if !config.DbConnectWithSocket {
		// the unix socket of the cloud sql proxy does not take a port
		connectionString = fmt.Sprintf("%s port=%s", connectionString, config.Port)
	}
	return connectionString
}

type DlpConfig struct {
	Enabled           bool
	ProjectId         string
	Location          string
	MinLikelihood     string
	InfoTypes         []string
	MaxTextBytes      int
	RequestsPerSecond float64
	PolicyFile        string
}

const (
	DEFAULT_DLP_LOCATION            = "global"
	DEFAULT_DLP_MAX_TEXT_BYTES      = 500_000
	DEFAULT_DLP_REQUESTS_PER_SECOND = 10
)

type TelemetryConfiguration struct {
	Enabled         bool
	ApplicationName string
	ProjectID       string
	// "gcp" or "otlp"
	Exporter string
}
