package infra

import (
	"os"

	"github.com/checkmarble/caregiver-uploads/models"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// RedactionPolicy is the optional YAML file that refines the detection settings of the
// environment, for example:
//
//	info_types: [PERSON_NAME, PHONE_NUMBER]
//	min_likelihood: LIKELY
//	custom_info_types:
//	  - name: CUSTOM_MRN
//	    pattern: 'MRN-\d{8}'
type RedactionPolicy struct {
	InfoTypes       []string                `yaml:"info_types"`
	MinLikelihood   string                  `yaml:"min_likelihood"`
	CustomInfoTypes []models.CustomInfoType `yaml:"custom_info_types"`
}

func LoadRedactionPolicy(path string) (RedactionPolicy, error) {
	var policy RedactionPolicy
	if path == "" {
		return policy, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return policy, errors.Wrapf(err, "could not read redaction policy file %s", path)
	}
	if err := yaml.Unmarshal(content, &policy); err != nil {
		return policy, errors.Wrapf(err, "could not parse redaction policy file %s", path)
	}
	for _, custom := range policy.CustomInfoTypes {
		if custom.Name == "" || custom.Pattern == "" {
			return policy, errors.Newf("custom info types of %s need a name and a pattern", path)
		}
	}
	return policy, nil
}

// DetectionSettings merges the environment configuration with the policy file, the
// policy file taking precedence when it sets a value.
func (cfg DlpConfig) DetectionSettings(policy RedactionPolicy) models.DetectionSettings {
	settings := models.DetectionSettings{
		InfoTypes:       cfg.InfoTypes,
		MinLikelihood:   cfg.MinLikelihood,
		CustomInfoTypes: policy.CustomInfoTypes,
	}
	if len(policy.InfoTypes) > 0 {
		settings.InfoTypes = policy.InfoTypes
	}
	if policy.MinLikelihood != "" {
		settings.MinLikelihood = policy.MinLikelihood
	}
	return settings
}
