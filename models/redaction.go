package models

import (
	"strings"
)

type Likelihood string

const (
	LikelihoodVeryUnlikely Likelihood = "VERY_UNLIKELY"
	LikelihoodUnlikely     Likelihood = "UNLIKELY"
	LikelihoodPossible     Likelihood = "POSSIBLE"
	LikelihoodLikely       Likelihood = "LIKELY"
	LikelihoodVeryLikely   Likelihood = "VERY_LIKELY"
)

const DefaultMinLikelihood = LikelihoodPossible

// LikelihoodFrom parses a likelihood name, falling back to POSSIBLE on anything unknown.
func LikelihoodFrom(s string) Likelihood {
	switch l := Likelihood(strings.ToUpper(strings.TrimSpace(s))); l {
	case LikelihoodVeryUnlikely, LikelihoodUnlikely, LikelihoodPossible, LikelihoodLikely, LikelihoodVeryLikely:
		return l
	default:
		return DefaultMinLikelihood
	}
}

type ContentClass int

const (
	ContentClassUnsupported ContentClass = iota
	ContentClassText
	ContentClassImage
)

func (c ContentClass) String() string {
	switch c {
	case ContentClassText:
		return "text"
	case ContentClassImage:
		return "image"
	default:
		return "unsupported"
	}
}

// Redactable reports whether uploads of this class are sent to the detection provider.
func (c ContentClass) Redactable() bool {
	return c == ContentClassText || c == ContentClassImage
}

// ContentClassFromMimeType derives the class from a MIME type, ignoring parameters such as charset.
func ContentClassFromMimeType(mimeType string) ContentClass {
	mt := NormalizeMimeType(mimeType)
	switch {
	case strings.HasPrefix(mt, "image/"):
		return ContentClassImage
	case strings.HasPrefix(mt, "text/"), mt == "application/json":
		return ContentClassText
	default:
		return ContentClassUnsupported
	}
}

// MimeTypeOctetStream stands for uploads that declare no content type.
const MimeTypeOctetStream = "application/octet-stream"

func NormalizeMimeType(mimeType string) string {
	mt, _, _ := strings.Cut(mimeType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}

type RedactionFinding struct {
	InfoType string
	// Only set when the detection was made on text content
	Quote *string
}

type RedactionOutcome struct {
	Content  []byte
	Findings []RedactionFinding
}

type RedactionRequest struct {
	SubjectId string
	Content   []byte
	MimeType  string
}

type CustomInfoType struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
}

// DetectionConfig is rebuilt for every redaction call and never mutated afterwards.
type DetectionConfig struct {
	BuiltInInfoTypes []string
	CustomInfoTypes  []CustomInfoType
	MinLikelihood    Likelihood
	IncludeQuote     bool
}

// DetectionSettings is the process configuration from which detection configs are built.
type DetectionSettings struct {
	InfoTypes       []string
	MinLikelihood   string
	CustomInfoTypes []CustomInfoType
}

type RedactionStatus struct {
	Enabled     bool
	ProjectId   string
	Location    string
	ClientReady bool
}

type TextRedactionResult struct {
	InputLength  int
	OutputLength int
	RedactedText string
	Findings     []RedactionFinding
}

type FileRedactionResult struct {
	Class    ContentClass
	MimeType string
	Content  []byte
	Findings []RedactionFinding
}
