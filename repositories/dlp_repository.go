package repositories

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/checkmarble/caregiver-uploads/models"
	"github.com/checkmarble/caregiver-uploads/utils"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
	dlp "google.golang.org/api/dlp/v2"
)

// DlpRepository calls the Cloud DLP REST api on behalf of the redaction engine. Every call
// waits on a process-wide rate limiter so that bursts of uploads do not exhaust the quota.
type DlpRepository struct {
	service  *dlp.Service
	parent   string
	location string
	limiter  *rate.Limiter
}

func NewDlpRepository(service *dlp.Service, projectId, location string, requestsPerSecond float64) *DlpRepository {
	limit := rate.Inf
	burst := 1
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
		burst = max(1, int(requestsPerSecond))
	}
	return &DlpRepository{
		service:  service,
		parent:   fmt.Sprintf("projects/%s/locations/%s", projectId, location),
		location: location,
		limiter:  rate.NewLimiter(limit, burst),
	}
}

func (repo *DlpRepository) Inspect(ctx context.Context, text string, cfg models.DetectionConfig) ([]models.RedactionFinding, error) {
	ctx, span := repo.startSpan(ctx, "repositories.DlpRepository.Inspect", len(text))
	defer span.End()

	if err := repo.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "dlp rate limiter")
	}

	resp, err := repo.service.Projects.Locations.Content.Inspect(repo.parent, &dlp.GooglePrivacyDlpV2InspectContentRequest{
		InspectConfig: adaptInspectConfig(cfg),
		Item:          &dlp.GooglePrivacyDlpV2ContentItem{Value: text},
	}).Context(ctx).Do()
	if err != nil {
		return nil, errors.Wrap(err, "dlp inspect content")
	}
	if resp.Result == nil {
		return []models.RedactionFinding{}, nil
	}
	return adaptDlpFindings(resp.Result.Findings), nil
}

func (repo *DlpRepository) Deidentify(ctx context.Context, text string, cfg models.DetectionConfig) (string, error) {
	ctx, span := repo.startSpan(ctx, "repositories.DlpRepository.Deidentify", len(text))
	defer span.End()

	if err := repo.limiter.Wait(ctx); err != nil {
		return "", errors.Wrap(err, "dlp rate limiter")
	}

	resp, err := repo.service.Projects.Locations.Content.Deidentify(repo.parent, &dlp.GooglePrivacyDlpV2DeidentifyContentRequest{
		DeidentifyConfig: &dlp.GooglePrivacyDlpV2DeidentifyConfig{
			InfoTypeTransformations: &dlp.GooglePrivacyDlpV2InfoTypeTransformations{
				Transformations: []*dlp.GooglePrivacyDlpV2InfoTypeTransformation{
					{
						PrimitiveTransformation: &dlp.GooglePrivacyDlpV2PrimitiveTransformation{
							ReplaceWithInfoTypeConfig: &dlp.GooglePrivacyDlpV2ReplaceWithInfoTypeConfig{},
						},
					},
				},
			},
		},
		InspectConfig: adaptInspectConfig(cfg),
		Item:          &dlp.GooglePrivacyDlpV2ContentItem{Value: text},
	}).Context(ctx).Do()
	if err != nil {
		return "", errors.Wrap(err, "dlp deidentify content")
	}
	if resp.Item == nil {
		return "", nil
	}
	return resp.Item.Value, nil
}

func (repo *DlpRepository) RedactImage(ctx context.Context, content []byte, mimeType string, cfg models.DetectionConfig) ([]byte, error) {
	ctx, span := repo.startSpan(ctx, "repositories.DlpRepository.RedactImage", len(content))
	defer span.End()

	if err := repo.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "dlp rate limiter")
	}

	resp, err := repo.service.Projects.Locations.Image.Redact(repo.parent, &dlp.GooglePrivacyDlpV2RedactImageRequest{
		ByteItem: &dlp.GooglePrivacyDlpV2ByteContentItem{
			Type: imageByteType(mimeType),
			Data: base64.StdEncoding.EncodeToString(content),
		},
		InspectConfig: adaptInspectConfig(cfg),
	}).Context(ctx).Do()
	if err != nil {
		return nil, errors.Wrap(err, "dlp redact image")
	}

	redacted, err := base64.StdEncoding.DecodeString(resp.RedactedImage)
	if err != nil {
		return nil, errors.Wrap(err, "dlp redact image: invalid redacted image encoding")
	}
	return redacted, nil
}

func (repo *DlpRepository) Location() string {
	return repo.location
}

func (repo *DlpRepository) startSpan(ctx context.Context, name string, size int) (context.Context, trace.Span) {
	tracer := utils.OpenTelemetryTracerFromContext(ctx)
	return tracer.Start(ctx, name, trace.WithAttributes(attribute.Int("size", size)))
}

func adaptInspectConfig(cfg models.DetectionConfig) *dlp.GooglePrivacyDlpV2InspectConfig {
	infoTypes := make([]*dlp.GooglePrivacyDlpV2InfoType, 0, len(cfg.BuiltInInfoTypes))
	for _, name := range cfg.BuiltInInfoTypes {
		infoTypes = append(infoTypes, &dlp.GooglePrivacyDlpV2InfoType{Name: name})
	}

	customInfoTypes := make([]*dlp.GooglePrivacyDlpV2CustomInfoType, 0, len(cfg.CustomInfoTypes))
	for _, custom := range cfg.CustomInfoTypes {
		customInfoTypes = append(customInfoTypes, &dlp.GooglePrivacyDlpV2CustomInfoType{
			InfoType: &dlp.GooglePrivacyDlpV2InfoType{Name: custom.Name},
			Regex:    &dlp.GooglePrivacyDlpV2Regex{Pattern: custom.Pattern},
		})
	}

	return &dlp.GooglePrivacyDlpV2InspectConfig{
		InfoTypes:       infoTypes,
		CustomInfoTypes: customInfoTypes,
		MinLikelihood:   string(cfg.MinLikelihood),
		IncludeQuote:    cfg.IncludeQuote,
	}
}

// findings without an info type are dropped
func adaptDlpFindings(findings []*dlp.GooglePrivacyDlpV2Finding) []models.RedactionFinding {
	out := make([]models.RedactionFinding, 0, len(findings))
	for _, f := range findings {
		if f == nil || f.InfoType == nil || f.InfoType.Name == "" {
			continue
		}
		finding := models.RedactionFinding{InfoType: f.InfoType.Name}
		if f.Quote != "" {
			quote := f.Quote
			finding.Quote = &quote
		}
		out = append(out, finding)
	}
	return out
}

func imageByteType(mimeType string) string {
	switch models.NormalizeMimeType(mimeType) {
	case "image/png":
		return "IMAGE_PNG"
	case "image/jpeg", "image/jpg":
		return "IMAGE_JPEG"
	case "image/bmp":
		return "IMAGE_BMP"
	case "image/svg+xml":
		return "IMAGE_SVG"
	default:
		return "IMAGE"
	}
}
