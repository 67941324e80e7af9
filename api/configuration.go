package api

import (
	"github.com/checkmarble/caregiver-uploads/infra"
	"github.com/checkmarble/caregiver-uploads/utils"
)

type Configuration struct {
	Env                 string
	AppName             string
	AppVersion          string
	Port                string
	AllowedOrigins      []string
	RequestLoggingLevel string
	// Multipart bodies above this size are rejected before they are buffered
	MaxRequestBytes int64

	GcpConfig        infra.GcpConfig
	ProfilingConfig  utils.ProfilingConfig
	EnablePrometheus bool
}
