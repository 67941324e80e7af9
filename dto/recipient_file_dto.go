package dto

import (
	"github.com/checkmarble/caregiver-uploads/models"
	"github.com/checkmarble/caregiver-uploads/pure_utils"
)

const (
	FileUploadedMessage = "file uploaded"
	FileQueuedMessage   = "file queued"
)

type RedactionFindingDto struct {
	InfoType string  `json:"info_type"`
	Quote    *string `json:"quote,omitempty"`
}

func AdaptRedactionFindingDto(f models.RedactionFinding) RedactionFindingDto {
	return RedactionFindingDto{
		InfoType: f.InfoType,
		Quote:    f.Quote,
	}
}

type CorpusDocumentDto struct {
	DocId    string `json:"docId"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType,omitempty"`
	Corpus   string `json:"corpus,omitempty"`
}

func AdaptCorpusDocumentDto(doc models.CorpusDocument) CorpusDocumentDto {
	return CorpusDocumentDto{
		DocId:    doc.DocId,
		Name:     doc.Name,
		MimeType: doc.MimeType,
		Corpus:   doc.Corpus,
	}
}

// UploadDataDto merges the stored document or the queued job with the upload outcome.
type UploadDataDto struct {
	DocId         string                `json:"docId,omitempty"`
	Name          string                `json:"name,omitempty"`
	Corpus        string                `json:"corpus,omitempty"`
	JobId         string                `json:"jobId,omitempty"`
	ProjectId     string                `json:"projectId,omitempty"`
	Bucket        string                `json:"bucket,omitempty"`
	Object        string                `json:"object,omitempty"`
	MimeType      string                `json:"mimeType"`
	Redacted      bool                  `json:"redacted"`
	Findings      []RedactionFindingDto `json:"findings,omitempty"`
	RedactedTypes *[]string             `json:"redactedTypes,omitempty"`
}

type UploadResponse struct {
	Message     string                `json:"message"`
	RecipientId string                `json:"recipientId"`
	MimeType    string                `json:"mimeType"`
	Redacted    bool                  `json:"redacted"`
	Findings    []RedactionFindingDto `json:"findings,omitempty"`
	Data        UploadDataDto         `json:"data"`
}

func AdaptUploadResponse(result models.UploadResult, mode models.UploadMode) UploadResponse {
	var findings []RedactionFindingDto
	if len(result.Findings) > 0 {
		findings = pure_utils.Map(result.Findings, AdaptRedactionFindingDto)
	}

	data := UploadDataDto{
		MimeType: result.MimeType,
		Redacted: result.Redacted,
		Findings: findings,
	}
	if result.Document != nil {
		data.DocId = result.Document.DocId
		data.Name = result.Document.Name
		data.Corpus = result.Document.Corpus
	}
	if result.Job != nil {
		data.JobId = result.Job.JobId
		data.ProjectId = result.Job.ProjectId
		data.Bucket = result.Job.Bucket
		data.Object = result.Job.Object
	}
	if mode == models.UploadModeRedactFirst {
		redactedTypes := result.RedactedTypes
		if redactedTypes == nil {
			redactedTypes = []string{}
		}
		data.RedactedTypes = &redactedTypes
	}

	message := FileUploadedMessage
	if result.Status == models.UploadStatusQueued {
		message = FileQueuedMessage
	}

	return UploadResponse{
		Message:     message,
		RecipientId: result.SubjectId,
		MimeType:    result.MimeType,
		Redacted:    result.Redacted,
		Findings:    findings,
		Data:        data,
	}
}

type RecipientFilesResponse struct {
	RecipientId string              `json:"recipientId"`
	Items       []CorpusDocumentDto `json:"items"`
}

type RecipientFileResponse struct {
	RecipientId string            `json:"recipientId"`
	FileId      string            `json:"fileId"`
	Data        CorpusDocumentDto `json:"data"`
}
