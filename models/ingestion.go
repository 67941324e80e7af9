package models

const (
	IngestionQueueName = "document_ingestion"
	IngestionJobKind   = "ingest_document"
)

type IngestionJob struct {
	JobId       string
	ProjectId   string
	Bucket      string
	Object      string
	ContentType string
}

type EnqueueIngestionInput struct {
	SubjectId   string
	ProjectId   string
	TempBucket  string
	FileName    string
	ContentType string
	Content     []byte
}

// IngestDocumentArgs is the payload of the job picked up by the ingestion workers.
type IngestDocumentArgs struct {
	JobId       string `json:"job_id"`
	SubjectId   string `json:"subject_id"`
	ProjectId   string `json:"project_id"`
	Bucket      string `json:"bucket"`
	Object      string `json:"object"`
	ContentType string `json:"content_type"`
}

func (IngestDocumentArgs) Kind() string { return IngestionJobKind }
