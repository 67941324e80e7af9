package repositories

import (
	"context"
	"strings"
	"testing"

	"github.com/checkmarble/caregiver-uploads/models"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJobInserter struct {
	args []river.JobArgs
	opts []*river.InsertOpts
	err  error
}

func (f *fakeJobInserter) Insert(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (*rivertype.JobInsertResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.args = append(f.args, args)
	f.opts = append(f.opts, opts)
	return &rivertype.JobInsertResult{Job: &rivertype.JobRow{ID: int64(len(f.args))}}, nil
}

func TestIngestionQueueRepository_EnqueueIngestion(t *testing.T) {
	ctx := context.Background()
	blobs := NewBlobRepository()
	inserter := &fakeJobInserter{}
	repo := NewIngestionQueueRepository(blobs, inserter, "mem://%s")

	job, err := repo.EnqueueIngestion(ctx, models.EnqueueIngestionInput{
		SubjectId:   "recipient-1",
		ProjectId:   "project-1",
		TempBucket:  "temp-bucket",
		FileName:    "../scan.png",
		ContentType: "image/png",
		Content:     []byte("redacted image"),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, job.JobId)
	assert.Equal(t, "project-1", job.ProjectId)
	assert.Equal(t, "temp-bucket", job.Bucket)
	assert.True(t, strings.HasPrefix(job.Object, "uploads/recipient-1/"))
	assert.True(t, strings.HasSuffix(job.Object, "-scan.png"))

	require.Len(t, inserter.args, 1)
	args := inserter.args[0].(models.IngestDocumentArgs)
	assert.Equal(t, job.JobId, args.JobId)
	assert.Equal(t, job.Object, args.Object)
	assert.Equal(t, models.IngestionQueueName, inserter.opts[0].Queue)

	attributes, err := blobs.GetAttributes(ctx, "mem://temp-bucket", job.Object)
	require.NoError(t, err)
	assert.Equal(t, "image/png", attributes.ContentType)
	assert.Equal(t, job.JobId, attributes.Metadata["job_id"])

	bucket, err := blobs.(*blobRepository).openBlobBucket(ctx, "mem://temp-bucket")
	require.NoError(t, err)
	content, err := bucket.ReadAll(ctx, job.Object)
	require.NoError(t, err)
	assert.Equal(t, "redacted image", string(content))
}

func TestIngestionQueueRepository_insert_failure_removes_staged_object(t *testing.T) {
	ctx := context.Background()
	blobRepository := NewBlobRepository()
	repo := NewIngestionQueueRepository(blobRepository, &fakeJobInserter{err: assert.AnError}, "mem://%s")

	_, err := repo.EnqueueIngestion(ctx, models.EnqueueIngestionInput{
		SubjectId:   "recipient-1",
		ProjectId:   "project-1",
		TempBucket:  "temp-bucket-2",
		FileName:    "notes.txt",
		ContentType: "text/plain",
		Content:     []byte("text"),
	})
	assert.Error(t, err)

	blobs, err := blobRepository.ListBlobs(ctx, "mem://temp-bucket-2")
	require.NoError(t, err)
	assert.Empty(t, blobs)
}

func TestSafeObjectName(t *testing.T) {
	assert.Equal(t, "scan.png", safeObjectName("scan.png"))
	assert.Equal(t, "scan.png", safeObjectName("dir/scan.png"))
	assert.Equal(t, "scan.png", safeObjectName(`C:\dir\scan.png`))
	assert.Equal(t, "upload", safeObjectName(""))
}
