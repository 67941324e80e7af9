package models

type UploadMode int

const (
	// UploadModeStandard redacts only when redaction is enabled for the process
	UploadModeStandard UploadMode = iota
	// UploadModeRedactFirst always attempts redaction and reports the redacted info types
	UploadModeRedactFirst
)

type UploadStatus string

const (
	UploadStatusUploaded UploadStatus = "uploaded"
	UploadStatusQueued   UploadStatus = "queued"
)

type UploadInput struct {
	SubjectId string
	CallerId  string
	FileName  string
	MimeType  string
	Content   []byte
	Mode      UploadMode
}

type UploadResult struct {
	Status        UploadStatus
	SubjectId     string
	MimeType      string
	Redacted      bool
	Findings      []RedactionFinding
	RedactedTypes []string
	Document      *CorpusDocument
	Job           *IngestionJob
}

type UploadPolicy struct {
	MaxUploadBytes   int64
	AllowedMimeTypes []string
	RedactionEnabled bool
	PipelineEnabled  bool
}

func (p UploadPolicy) IsAllowedMimeType(mimeType string) bool {
	mt := NormalizeMimeType(mimeType)
	for _, allowed := range p.AllowedMimeTypes {
		if NormalizeMimeType(allowed) == mt {
			return true
		}
	}
	return false
}

var DefaultAllowedMimeTypes = []string{
	"image/png",
	"image/jpeg",
	"image/gif",
	"image/webp",
	"image/bmp",
	"application/pdf",
	"text/plain",
	"text/csv",
	"text/markdown",
	"application/json",
}
