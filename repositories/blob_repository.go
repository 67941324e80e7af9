package repositories

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/checkmarble/caregiver-uploads/models"
	"github.com/checkmarble/caregiver-uploads/utils"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	"gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	"gocloud.dev/gcerrors"
	"gocloud.dev/gcp"
)

const prefixQueryParam = "prefix"

type BlobRepository interface {
	PutBlob(ctx context.Context, bucketUrl, fileName string, content []byte, opts models.BlobWriteOptions) error
	GetAttributes(ctx context.Context, bucketUrl, fileName string) (models.BlobAttributes, error)
	ListBlobs(ctx context.Context, bucketUrl string) ([]models.BlobAttributes, error)
	DeleteFile(ctx context.Context, bucketUrl, fileName string) error
}

type blobRepository struct {
	buckets map[string]*blob.Bucket
	m       sync.Mutex
}

func NewBlobRepository() BlobRepository {
	return &blobRepository{
		buckets: make(map[string]*blob.Bucket),
	}
}

// openBlobBucket opens (once) the bucket behind a url such as "gs://bucket?prefix=corpora/abc/",
// "file:///var/data" or "mem://". The optional prefix query parameter scopes the bucket to a
// sub-path, for every scheme.
func (repository *blobRepository) openBlobBucket(ctx context.Context, bucketUrl string) (*blob.Bucket, error) {
	tracer := utils.OpenTelemetryTracerFromContext(ctx)
	ctx, span := tracer.Start(
		ctx,
		"repositories.BlobRepository.openBlobBucket",
		trace.WithAttributes(attribute.String("bucket", bucketUrl)),
	)
	defer span.End()

	repository.m.Lock()
	defer repository.m.Unlock()

	if bucket, ok := repository.buckets[bucketUrl]; ok {
		return bucket, nil
	}

	parsed, err := url.Parse(bucketUrl)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse bucket url %s", bucketUrl)
	}
	query := parsed.Query()
	prefix := query.Get(prefixQueryParam)
	query.Del(prefixQueryParam)
	parsed.RawQuery = query.Encode()

	var bucket *blob.Bucket
	if parsed.Scheme == "gs" {
		creds, err := gcp.DefaultCredentials(ctx)
		if err != nil {
			return nil, err
		}
		client, err := gcp.NewHTTPClient(gcp.DefaultTransport(), gcp.CredentialsTokenSource(creds))
		if err != nil {
			return nil, err
		}
		bucket, err = gcsblob.OpenBucket(ctx, client, parsed.Host, nil)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open bucket %s", bucketUrl)
		}
	} else {
		bucket, err = blob.OpenBucket(ctx, parsed.String())
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open bucket %s", bucketUrl)
		}
	}

	ok, err := bucket.IsAccessible(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check bucket accessibility %s", bucketUrl)
	} else if !ok {
		return nil, errors.Newf("bucket %s is not accessible", bucketUrl)
	}

	if prefix != "" {
		bucket = blob.PrefixedBucket(bucket, prefix)
	}

	repository.buckets[bucketUrl] = bucket
	return bucket, nil
}

func (repository *blobRepository) PutBlob(ctx context.Context, bucketUrl, fileName string,
	content []byte, opts models.BlobWriteOptions,
) error {
	tracer := utils.OpenTelemetryTracerFromContext(ctx)
	ctx, span := tracer.Start(
		ctx,
		"repositories.BlobRepository.PutBlob",
		trace.WithAttributes(attribute.String("bucket", bucketUrl)),
		trace.WithAttributes(attribute.Int("size", len(content))),
	)
	defer span.End()

	bucket, err := repository.openBlobBucket(ctx, bucketUrl)
	if err != nil {
		return err
	}

	writer, err := bucket.NewWriter(ctx, fileName, &blob.WriterOptions{
		ContentType: opts.ContentType,
		Metadata:    opts.Metadata,
	})
	if err != nil {
		return errors.Wrapf(err, "failed to open writer for %s", fileName)
	}
	if _, err := io.Copy(writer, bytes.NewReader(content)); err != nil {
		_ = writer.Close()
		return errors.Wrapf(err, "failed to write %s", fileName)
	}
	if err := writer.Close(); err != nil {
		return errors.Wrapf(err, "failed to close writer for %s", fileName)
	}
	return nil
}

func (repository *blobRepository) GetAttributes(ctx context.Context, bucketUrl, fileName string) (models.BlobAttributes, error) {
	bucket, err := repository.openBlobBucket(ctx, bucketUrl)
	if err != nil {
		return models.BlobAttributes{}, err
	}

	attributes, err := bucket.Attributes(ctx, fileName)
	if gcerrors.Code(err) == gcerrors.NotFound {
		return models.BlobAttributes{}, errors.Wrapf(models.NotFoundError, "file %s does not exist", fileName)
	} else if err != nil {
		return models.BlobAttributes{}, errors.Wrapf(err, "failed to read attributes of %s", fileName)
	}

	return models.BlobAttributes{
		FileName:    fileName,
		ContentType: attributes.ContentType,
		Size:        attributes.Size,
		Metadata:    attributes.Metadata,
	}, nil
}

func (repository *blobRepository) ListBlobs(ctx context.Context, bucketUrl string) ([]models.BlobAttributes, error) {
	bucket, err := repository.openBlobBucket(ctx, bucketUrl)
	if err != nil {
		return nil, err
	}

	blobs := make([]models.BlobAttributes, 0)
	iter := bucket.List(nil)
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to list bucket %s", bucketUrl)
		}
		if obj.IsDir {
			continue
		}
		attributes, err := repository.GetAttributes(ctx, bucketUrl, obj.Key)
		if err != nil {
			return nil, err
		}
		blobs = append(blobs, attributes)
	}
	return blobs, nil
}

func (repository *blobRepository) DeleteFile(ctx context.Context, bucketUrl, fileName string) error {
	bucket, err := repository.openBlobBucket(ctx, bucketUrl)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err = bucket.Delete(ctx, fileName)
	if gcerrors.Code(err) == gcerrors.NotFound {
		return errors.Wrapf(models.NotFoundError, "file %s does not exist", fileName)
	}
	return err
}
