package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/checkmarble/caregiver-uploads/models"
	"github.com/checkmarble/caregiver-uploads/utils"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
)

const (
	nbRetriesIngestDocument = 8 // at 1sec*attempt^4, that's about 1h for the 8th attempt
	priorityIngestDocument  = 2
)

const DEFAULT_INGESTION_BUCKET_URL_TEMPLATE = "gs://%s"

type jobInserter interface {
	Insert(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (*rivertype.JobInsertResult, error)
}

// IngestionQueueRepository stages uploads in the subject's temporary bucket and enqueues
// the job that imports them into the corpus asynchronously.
type IngestionQueueRepository struct {
	blobRepository    BlobRepository
	client            jobInserter
	bucketUrlTemplate string
}

func NewIngestionQueueRepository(blobRepository BlobRepository, client jobInserter, bucketUrlTemplate string) *IngestionQueueRepository {
	if bucketUrlTemplate == "" {
		bucketUrlTemplate = DEFAULT_INGESTION_BUCKET_URL_TEMPLATE
	}
	return &IngestionQueueRepository{
		blobRepository:    blobRepository,
		client:            client,
		bucketUrlTemplate: bucketUrlTemplate,
	}
}

func (repo *IngestionQueueRepository) EnqueueIngestion(ctx context.Context, input models.EnqueueIngestionInput) (models.IngestionJob, error) {
	logger := utils.LoggerFromContext(ctx)

	jobId := uuid.NewString()
	bucketUrl := fmt.Sprintf(repo.bucketUrlTemplate, input.TempBucket)
	object := fmt.Sprintf("uploads/%s/%s-%s", input.SubjectId, uuid.NewString(), safeObjectName(input.FileName))

	err := repo.blobRepository.PutBlob(ctx, bucketUrl, object, input.Content, models.BlobWriteOptions{
		ContentType: input.ContentType,
		Metadata:    map[string]string{"job_id": jobId},
	})
	if err != nil {
		return models.IngestionJob{}, errors.Wrap(err, "error staging upload in temp bucket")
	}

	res, err := repo.client.Insert(
		ctx,
		models.IngestDocumentArgs{
			JobId:       jobId,
			SubjectId:   input.SubjectId,
			ProjectId:   input.ProjectId,
			Bucket:      input.TempBucket,
			Object:      object,
			ContentType: input.ContentType,
		},
		&river.InsertOpts{
			MaxAttempts: nbRetriesIngestDocument,
			Priority:    priorityIngestDocument,
			Queue:       models.IngestionQueueName,
		},
	)
	if err != nil {
		if delErr := repo.blobRepository.DeleteFile(ctx, bucketUrl, object); delErr != nil {
			logger.WarnContext(ctx, "could not remove staged upload after enqueue failure",
				slog.String("object", object), slog.String("error", delErr.Error()))
		}
		return models.IngestionJob{}, errors.Wrap(err, "error enqueuing ingestion job")
	}

	logger.DebugContext(ctx, "Enqueued document ingestion task", "job_id", res.Job.ID)

	return models.IngestionJob{
		JobId:       jobId,
		ProjectId:   input.ProjectId,
		Bucket:      input.TempBucket,
		Object:      object,
		ContentType: input.ContentType,
	}, nil
}

func safeObjectName(fileName string) string {
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "upload"
	}
	return name
}
