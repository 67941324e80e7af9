package repositories

import (
	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"
	dlp "google.golang.org/api/dlp/v2"
)

type options struct {
	dlpService              *dlp.Service
	dlpProjectId            string
	dlpLocation             string
	dlpRequestsPerSecond    float64
	riverClient             *river.Client[pgx.Tx]
	ingestionBucketTemplate string
	jwtSigningKey           []byte
}

type Option func(*options)

// WithDlpService enables the detection provider. Without it, the DlpRepository is nil.
func WithDlpService(service *dlp.Service, projectId, location string, requestsPerSecond float64) Option {
	return func(o *options) {
		o.dlpService = service
		o.dlpProjectId = projectId
		o.dlpLocation = location
		o.dlpRequestsPerSecond = requestsPerSecond
	}
}

func WithRiverClient(client *river.Client[pgx.Tx]) Option {
	return func(o *options) {
		o.riverClient = client
	}
}

func WithIngestionBucketUrlTemplate(template string) Option {
	return func(o *options) {
		o.ingestionBucketTemplate = template
	}
}

func WithJwtSigningKey(key []byte) Option {
	return func(o *options) {
		o.jwtSigningKey = key
	}
}

type Repositories struct {
	BlobRepository           BlobRepository
	SubjectRepository        *SubjectRepository
	AccessRepository         *AccessRepository
	CorpusRepository         *CorpusRepository
	IngestionQueueRepository *IngestionQueueRepository
	DlpRepository            *DlpRepository
	CallerJwtRepository      *CallerJwtRepository
	LivenessRepository       *LivenessRepository
}

func NewRepositories(executor PgExecutor, opts ...Option) Repositories {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	blobRepository := NewBlobRepository()
	repositories := Repositories{
		BlobRepository:      blobRepository,
		SubjectRepository:   NewSubjectRepository(executor),
		AccessRepository:    NewAccessRepository(executor),
		CorpusRepository:    NewCorpusRepository(blobRepository),
		CallerJwtRepository: NewCallerJwtRepository(o.jwtSigningKey),
		LivenessRepository:  NewLivenessRepository(executor),
	}

	if o.riverClient != nil {
		repositories.IngestionQueueRepository = NewIngestionQueueRepository(
			blobRepository, o.riverClient, o.ingestionBucketTemplate)
	}
	if o.dlpService != nil {
		repositories.DlpRepository = NewDlpRepository(
			o.dlpService, o.dlpProjectId, o.dlpLocation, o.dlpRequestsPerSecond)
	}

	return repositories
}
