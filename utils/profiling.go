package utils

import (
	"log/slog"
	"net/http"
	"net/http/pprof"

	"cloud.google.com/go/profiler"
	"github.com/gin-gonic/gin"
)

type ProfilingConfig struct {
	// "gcp" starts the cloud profiler agent, "http" exposes pprof endpoints
	Mode  string
	Token string
}

func SetupProfilerEndpoints(r *gin.Engine, cfg ProfilingConfig, serviceName, serviceVersion, gcpProjectId string) {
	switch cfg.Mode {
	case "gcp":
		err := profiler.Start(profiler.Config{
			ProjectID:      gcpProjectId,
			Service:        serviceName,
			ServiceVersion: serviceVersion,
		})
		if err != nil {
			slog.Warn("could not start cloud profiler", "error", err.Error())
		}

	case "http":
		pp := r.Group("/debug/pprof")
		pp.Use(func(c *gin.Context) {
			if cfg.Token == "" || c.Request.Header.Get("authorization") != "Bearer "+cfg.Token {
				c.AbortWithStatus(http.StatusUnauthorized)
			}
		})

		pp.GET("/profile", gin.WrapF(pprof.Profile))
		pp.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
		pp.GET("/heap", gin.WrapH(pprof.Handler("heap")))
		pp.GET("/block", gin.WrapH(pprof.Handler("block")))
		pp.GET("/mutex", gin.WrapH(pprof.Handler("mutex")))
	}
}
