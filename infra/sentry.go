package infra

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/getsentry/sentry-go"
)

func SetupSentry(dsn, env, apiVersion string) {
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:           dsn,
		EnableTracing: true,
		Release:       apiVersion,
		Environment:   env,
		TracesSampler: sentry.TracesSampler(func(ctx sentry.SamplingContext) float64 {
			switch {
			case ctx.Span.Name == "GET /liveness", ctx.Span.Name == "GET /metrics":
				return 0.0
			case strings.HasPrefix(ctx.Span.Name, "POST /recipients/"):
				return 0.1
			}
			return 0.2
		}),
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			// uploads carry patient data: never forward bodies or credentials
			if event.Request != nil {
				event.Request.Data = ""
				event.Request.Cookies = ""
				if _, ok := event.Request.Headers["Authorization"]; ok {
					event.Request.Headers["Authorization"] = "[redacted]"
				}
			}
			if hint != nil && len(event.Exception) > 0 && hint.OriginalException != nil {
				originalErr := errors.UnwrapAll(hint.OriginalException)
				event.Exception[len(event.Exception)-1].Type = originalErr.Error()
			}
			return event
		},
	}); err != nil {
		panic(err)
	}
}
