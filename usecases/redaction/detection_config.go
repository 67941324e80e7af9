package redaction

import (
	"strings"

	"github.com/checkmarble/caregiver-uploads/models"
	"github.com/hashicorp/go-set/v2"
)

// DefaultInfoTypes are the built-in detectors used when none are configured.
var DefaultInfoTypes = []string{
	"PERSON_NAME",
	"PHONE_NUMBER",
	"EMAIL_ADDRESS",
	"US_SOCIAL_SECURITY_NUMBER",
	"CREDIT_CARD_NUMBER",
	"STREET_ADDRESS",
	"DATE_OF_BIRTH",
	"MEDICAL_RECORD_NUMBER",
}

const (
	CustomSsnInfoTypeName = "CUSTOM_US_SSN"
	customSsnPattern      = `\b\d{3}-\d{2}-\d{4}\b`
)

// BuildDetectionConfig turns the configured settings into the config sent with every
// provider call. Info type names are normalized and deduplicated, and no custom info type
// name is ever also requested as a built-in detector.
func BuildDetectionConfig(settings models.DetectionSettings) models.DetectionConfig {
	customInfoTypes := []models.CustomInfoType{{Name: CustomSsnInfoTypeName, Pattern: customSsnPattern}}
	customNames := set.From([]string{CustomSsnInfoTypeName})
	for _, custom := range settings.CustomInfoTypes {
		name := normalizeInfoType(custom.Name)
		if name == "" || custom.Pattern == "" || !customNames.Insert(name) {
			continue
		}
		customInfoTypes = append(customInfoTypes, models.CustomInfoType{Name: name, Pattern: custom.Pattern})
	}

	configured := settings.InfoTypes
	if len(normalizeInfoTypes(configured)) == 0 {
		configured = DefaultInfoTypes
	}

	builtIns := make([]string, 0, len(configured))
	for _, name := range normalizeInfoTypes(configured) {
		if !customNames.Contains(name) {
			builtIns = append(builtIns, name)
		}
	}

	return models.DetectionConfig{
		BuiltInInfoTypes: builtIns,
		CustomInfoTypes:  customInfoTypes,
		MinLikelihood:    models.LikelihoodFrom(settings.MinLikelihood),
		IncludeQuote:     true,
	}
}

func normalizeInfoType(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// normalizeInfoTypes keeps the first occurrence of every non empty name, in order.
func normalizeInfoTypes(names []string) []string {
	seen := set.New[string](len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = normalizeInfoType(name)
		if name != "" && seen.Insert(name) {
			out = append(out, name)
		}
	}
	return out
}
