package redaction

import (
	"context"
	"log/slog"
	"time"

	"github.com/checkmarble/caregiver-uploads/models"
	"github.com/checkmarble/caregiver-uploads/utils"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
)

type DetectionProvider interface {
	Inspect(ctx context.Context, text string, cfg models.DetectionConfig) ([]models.RedactionFinding, error)
	Deidentify(ctx context.Context, text string, cfg models.DetectionConfig) (string, error)
	RedactImage(ctx context.Context, content []byte, mimeType string, cfg models.DetectionConfig) ([]byte, error)
}

// Engine inspects and redacts PII in uploaded content. Readiness is decided once, at
// construction: an engine built without a provider passes every payload through.
// Redact never fails: any provider error yields the original content and no findings.
type Engine struct {
	provider     DetectionProvider
	settings     models.DetectionSettings
	maxTextBytes int
}

type EngineOption func(*Engine)

func WithMaxTextBytes(maxTextBytes int) EngineOption {
	return func(e *Engine) {
		if maxTextBytes > 0 {
			e.maxTextBytes = maxTextBytes
		}
	}
}

func NewEngine(provider DetectionProvider, settings models.DetectionSettings, opts ...EngineOption) *Engine {
	e := &Engine{
		provider:     provider,
		settings:     settings,
		maxTextBytes: DefaultMaxTextBytes,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Ready() bool {
	return e.provider != nil
}

func (e *Engine) MaxTextBytes() int {
	return e.maxTextBytes
}

func (e *Engine) Redact(ctx context.Context, req models.RedactionRequest) models.RedactionOutcome {
	if !e.Ready() {
		return passthrough(req.Content)
	}

	class := models.ContentClassFromMimeType(req.MimeType)
	start := time.Now()
	outcome, err := e.attempt(ctx, class, req)
	utils.MetricRedactionLatency.WithLabelValues(class.String()).Observe(time.Since(start).Seconds())
	if err != nil {
		return e.failOpen(ctx, class, req, err)
	}

	utils.MetricRedactionCount.WithLabelValues(class.String(), "success").Inc()
	return outcome
}

// attempt runs the provider calls for the content class. Its errors always wrap
// models.ErrDetectionProviderUnavailable.
func (e *Engine) attempt(ctx context.Context, class models.ContentClass, req models.RedactionRequest) (models.RedactionOutcome, error) {
	cfg := BuildDetectionConfig(e.settings)

	if class == models.ContentClassImage {
		redacted, err := e.provider.RedactImage(ctx, req.Content, req.MimeType, cfg)
		if err != nil {
			return models.RedactionOutcome{}, errors.Mark(err, models.ErrDetectionProviderUnavailable)
		}
		// quotes are never surfaced for images
		return models.RedactionOutcome{Content: redacted, Findings: []models.RedactionFinding{}}, nil
	}

	// text, and anything the orchestrator let through without a known class
	text := e.prepareText(ctx, req)

	var (
		findings     []models.RedactionFinding
		deidentified string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		findings, err = e.provider.Inspect(gctx, text, cfg)
		return errors.Wrap(err, "inspect")
	})
	g.Go(func() error {
		var err error
		deidentified, err = e.provider.Deidentify(gctx, text, cfg)
		return errors.Wrap(err, "deidentify")
	})
	if err := g.Wait(); err != nil {
		return models.RedactionOutcome{}, errors.Mark(err, models.ErrDetectionProviderUnavailable)
	}

	if deidentified == "" {
		deidentified = text
	}
	if findings == nil {
		findings = []models.RedactionFinding{}
	}
	return models.RedactionOutcome{Content: []byte(deidentified), Findings: findings}, nil
}

func (e *Engine) prepareText(ctx context.Context, req models.RedactionRequest) string {
	text := decodeLossy(req.Content)
	truncated, ok := truncateText(text, e.maxTextBytes)
	if ok {
		utils.MetricRedactionTextTruncated.Inc()
		utils.LoggerFromContext(ctx).WarnContext(ctx, "dlp_text_truncated",
			slog.String("subject_id", req.SubjectId),
			slog.Int("size_bytes", len(text)),
			slog.Int("cap_bytes", e.maxTextBytes),
			slog.Int("truncated_bytes", len(truncated)))
	}
	return truncated
}

// failOpen is the single place where a provider failure becomes the pass-through outcome.
func (e *Engine) failOpen(ctx context.Context, class models.ContentClass, req models.RedactionRequest, err error) models.RedactionOutcome {
	utils.MetricRedactionCount.WithLabelValues(class.String(), "failed_open").Inc()
	utils.LoggerFromContext(ctx).WarnContext(ctx, "dlp_redact_failed",
		slog.String("subject_id", req.SubjectId),
		slog.String("mime_type", req.MimeType),
		slog.String("content_class", class.String()),
		slog.Bool("provider_unavailable", errors.Is(err, models.ErrDetectionProviderUnavailable)),
		slog.String("error", err.Error()))
	return passthrough(req.Content)
}

func passthrough(content []byte) models.RedactionOutcome {
	return models.RedactionOutcome{Content: content, Findings: []models.RedactionFinding{}}
}
