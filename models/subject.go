package models

// Subject is the recipient that owns an uploaded document, along with the storage
// configuration used to route its uploads.
type Subject struct {
	Id           string
	CorpusUri    string
	GcpProjectId string
	TempBucket   string
	// nil means the process-wide pipeline setting applies
	PipelineEnabled *bool
}

func (s Subject) UsesPipeline(globalDefault bool) bool {
	if s.PipelineEnabled != nil {
		return *s.PipelineEnabled
	}
	return globalDefault
}

func (s Subject) HasIngestionConfig() bool {
	return s.GcpProjectId != "" && s.TempBucket != ""
}
