package usecases

import (
	"github.com/checkmarble/caregiver-uploads/models"
	"github.com/checkmarble/caregiver-uploads/repositories"
	"github.com/checkmarble/caregiver-uploads/usecases/redaction"
)

type Usecases struct {
	Repositories    repositories.Repositories
	uploadPolicy    models.UploadPolicy
	detection       models.DetectionSettings
	maxTextBytes    int
	dlpProjectId    string
	dlpLocation     string
	redactionEngine *redaction.Engine
}

type options struct {
	uploadPolicy models.UploadPolicy
	detection    models.DetectionSettings
	maxTextBytes int
	dlpProjectId string
	dlpLocation  string
}

type Option func(*options)

func WithUploadPolicy(policy models.UploadPolicy) Option {
	return func(o *options) {
		o.uploadPolicy = policy
	}
}

func WithDetectionSettings(settings models.DetectionSettings, maxTextBytes int) Option {
	return func(o *options) {
		o.detection = settings
		o.maxTextBytes = maxTextBytes
	}
}

func WithDlpTarget(projectId, location string) Option {
	return func(o *options) {
		o.dlpProjectId = projectId
		o.dlpLocation = location
	}
}

func NewUsecases(repositories repositories.Repositories, opts ...Option) Usecases {
	o := &options{
		uploadPolicy: models.UploadPolicy{AllowedMimeTypes: models.DefaultAllowedMimeTypes},
	}
	for _, opt := range opts {
		opt(o)
	}

	// a nil *DlpRepository must not end up as a non nil interface
	var provider redaction.DetectionProvider
	if repositories.DlpRepository != nil {
		provider = repositories.DlpRepository
	}

	return Usecases{
		Repositories:    repositories,
		uploadPolicy:    o.uploadPolicy,
		detection:       o.detection,
		maxTextBytes:    o.maxTextBytes,
		dlpProjectId:    o.dlpProjectId,
		dlpLocation:     o.dlpLocation,
		redactionEngine: redaction.NewEngine(provider, o.detection, redaction.WithMaxTextBytes(o.maxTextBytes)),
	}
}

func (usecases *Usecases) NewUploadUsecase() UploadUsecase {
	uc := UploadUsecase{
		subjectRepository: usecases.Repositories.SubjectRepository,
		accessRepository:  usecases.Repositories.AccessRepository,
		corpusRepository:  usecases.Repositories.CorpusRepository,
		redactionEngine:   usecases.redactionEngine,
		policy:            usecases.uploadPolicy,
	}
	if usecases.Repositories.IngestionQueueRepository != nil {
		uc.ingestionQueueRepository = usecases.Repositories.IngestionQueueRepository
	}
	return uc
}

func (usecases *Usecases) NewRecipientFilesUsecase() RecipientFilesUsecase {
	return RecipientFilesUsecase{
		subjectRepository: usecases.Repositories.SubjectRepository,
		accessRepository:  usecases.Repositories.AccessRepository,
		corpusRepository:  usecases.Repositories.CorpusRepository,
	}
}

func (usecases *Usecases) NewRedactionUsecase() RedactionUsecase {
	return RedactionUsecase{
		redactionEngine: usecases.redactionEngine,
		status: models.RedactionStatus{
			Enabled:     usecases.uploadPolicy.RedactionEnabled,
			ProjectId:   usecases.dlpProjectId,
			Location:    usecases.dlpLocation,
			ClientReady: usecases.redactionEngine.Ready(),
		},
	}
}

func (usecases *Usecases) NewLivenessUsecase() LivenessUsecase {
	return LivenessUsecase{
		livenessRepository: usecases.Repositories.LivenessRepository,
	}
}
