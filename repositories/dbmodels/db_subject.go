package dbmodels

import (
	"github.com/checkmarble/caregiver-uploads/models"
	"github.com/guregu/null/v5"
)

type DBSubject struct {
	Id              string      `db:"id"`
	CorpusUri       null.String `db:"corpus_uri"`
	GcpProjectId    null.String `db:"gcp_project_id"`
	TempBucket      null.String `db:"temp_bucket"`
	PipelineEnabled null.Bool   `db:"pipeline_enabled"`
}

const TABLE_USERS = "users"

var SelectSubjectColumn = ColumnList[DBSubject]()

func AdaptSubject(db DBSubject) models.Subject {
	return models.Subject{
		Id:              db.Id,
		CorpusUri:       db.CorpusUri.String,
		GcpProjectId:    db.GcpProjectId.String,
		TempBucket:      db.TempBucket.String,
		PipelineEnabled: db.PipelineEnabled.Ptr(),
	}
}
