package infra

import (
	"context"
	"encoding/binary"
	"math"
	"strings"

	texporter "github.com/GoogleCloudPlatform/opentelemetry-operations-go/exporter/trace"
	gcppropagator "github.com/GoogleCloudPlatform/opentelemetry-operations-go/propagator"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/detectors/gcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/api/option"
)

type TelemetryRessources struct {
	TracerProvider    trace.TracerProvider
	Tracer            trace.Tracer
	TextMapPropagator propagation.TextMapPropagator
}

func NoopTelemetry() TelemetryRessources {
	return TelemetryRessources{
		TracerProvider:    noop.NewTracerProvider(),
		Tracer:            noop.NewTracerProvider().Tracer(""),
		TextMapPropagator: propagation.NewCompositeTextMapPropagator(),
	}
}

func InitTelemetry(configuration TelemetryConfiguration, apiVersion string) (TelemetryRessources, error) {
	if !configuration.Enabled {
		return NoopTelemetry(), nil
	}

	var exporter sdktrace.SpanExporter
	switch configuration.Exporter {
	case "otlp":
		otlpExporter, err := otlptracegrpc.New(context.Background())
		if err != nil {
			return TelemetryRessources{}, errors.Wrap(err, "otlptracegrpc.New error")
		}
		exporter = otlpExporter
	default:
		gcpExporter, err := texporter.New(
			texporter.WithProjectID(configuration.ProjectID),
			texporter.WithTraceClientOptions([]option.ClientOption{option.WithTelemetryDisabled()}),
		)
		if err != nil {
			return TelemetryRessources{}, errors.Wrap(err, "texporter.New error")
		}
		exporter = gcpExporter
	}

	res, err := resource.New(context.Background(),
		resource.WithDetectors(gcp.NewDetector()),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(configuration.ApplicationName),
			semconv.ServiceVersion(apiVersion),
		),
	)
	if err != nil {
		return TelemetryRessources{}, errors.Wrap(err, "resource.New error")
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(RouteSampler{}),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	propagators := propagation.NewCompositeTextMapPropagator(
		gcppropagator.CloudTraceFormatPropagator{},
		propagation.TraceContext{},
		propagation.Baggage{},
	)
	otel.SetTextMapPropagator(propagators)

	return TelemetryRessources{
		TracerProvider:    tp,
		Tracer:            tp.Tracer(configuration.ApplicationName),
		TextMapPropagator: propagators,
	}, nil
}

const DEFAULT_SAMPLING_RATE = 0.3

var routePrefixSampling = map[string]float64{
	"/liveness":  0.0,
	"/metrics":   0.0,
	"/redaction": 1.0,
}

// RouteSampler samples root spans by http route and follows the parent decision otherwise.
type RouteSampler struct{}

func (RouteSampler) Description() string {
	return "route-sampler"
}

func (RouteSampler) ShouldSample(p sdktrace.SamplingParameters) sdktrace.SamplingResult {
	psc := trace.SpanContextFromContext(p.ParentContext)
	if psc.HasTraceID() {
		if psc.IsSampled() {
			return sdktrace.AlwaysSample().ShouldSample(p)
		}
		return sdktrace.NeverSample().ShouldSample(p)
	}

	prob := DEFAULT_SAMPLING_RATE
	for _, attr := range p.Attributes {
		if attr.Key != semconv.HTTPRouteKey {
			continue
		}
		for prefix, prefixProb := range routePrefixSampling {
			if strings.HasPrefix(attr.Value.AsString(), prefix) {
				prob = prefixProb
			}
		}
	}

	decision := sdktrace.Drop
	if binary.BigEndian.Uint64(p.TraceID[:8]) < uint64(prob*float64(math.MaxUint64)) {
		decision = sdktrace.RecordAndSample
	}

	return sdktrace.SamplingResult{
		Decision:   decision,
		Attributes: p.Attributes,
		Tracestate: psc.TraceState(),
	}
}
