package usecases

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"

	"github.com/checkmarble/caregiver-uploads/mocks"
	"github.com/checkmarble/caregiver-uploads/models"
	"github.com/checkmarble/caregiver-uploads/usecases/redaction"
	"github.com/checkmarble/caregiver-uploads/utils"
)

type UploadUsecaseTestSuite struct {
	suite.Suite
	subjectRepository  *mocks.SubjectRepository
	accessRepository   *mocks.AccessRepository
	corpusRepository   *mocks.CorpusRepository
	ingestionQueue     *mocks.IngestionQueueRepository
	detectionProvider  *mocks.DetectionProvider
	policy             models.UploadPolicy
	ctx                context.Context
	logs               *bytes.Buffer
	recipientId        string
	caregiverId        string
	corpusSubject      models.Subject
	pipelineSubject    models.Subject
	repositoryError    error
	phoneAndSsnText    string
	phoneAndSsnRedacts string
}

func (suite *UploadUsecaseTestSuite) SetupTest() {
	suite.subjectRepository = new(mocks.SubjectRepository)
	suite.accessRepository = new(mocks.AccessRepository)
	suite.corpusRepository = new(mocks.CorpusRepository)
	suite.ingestionQueue = new(mocks.IngestionQueueRepository)
	suite.detectionProvider = new(mocks.DetectionProvider)

	suite.logs = new(bytes.Buffer)
	logger := slog.New(slog.NewJSONHandler(suite.logs, nil))
	suite.ctx = utils.StoreLoggerInContext(context.Background(), logger)

	suite.recipientId = "6d1ad07e-1b1b-4a43-9c36-3ec2a5a1d3c1"
	suite.caregiverId = "b4f9fd3a-5b7c-4b4e-8f0c-3bfbd0e8f1a2"
	suite.corpusSubject = models.Subject{
		Id:        suite.recipientId,
		CorpusUri: "gs://corpora?prefix=recipient/",
	}
	pipelineEnabled := true
	suite.pipelineSubject = models.Subject{
		Id:              suite.recipientId,
		CorpusUri:       "gs://corpora?prefix=recipient/",
		GcpProjectId:    "recipient-project",
		TempBucket:      "recipient-temp",
		PipelineEnabled: &pipelineEnabled,
	}
	suite.policy = models.UploadPolicy{
		MaxUploadBytes:   1024,
		AllowedMimeTypes: models.DefaultAllowedMimeTypes,
		RedactionEnabled: true,
	}
	suite.repositoryError = errors.New("some repository error")
	suite.phoneAndSsnText = "Call 415-555-1212, SSN 123-45-6789"
	suite.phoneAndSsnRedacts = "Call [PHONE_NUMBER], SSN [CUSTOM_US_SSN]"
}

func (suite *UploadUsecaseTestSuite) makeUsecase(provider redaction.DetectionProvider) UploadUsecase {
	return UploadUsecase{
		subjectRepository:        suite.subjectRepository,
		accessRepository:         suite.accessRepository,
		corpusRepository:         suite.corpusRepository,
		ingestionQueueRepository: suite.ingestionQueue,
		redactionEngine:          redaction.NewEngine(provider, models.DetectionSettings{}),
		policy:                   suite.policy,
	}
}

func (suite *UploadUsecaseTestSuite) AssertExpectations() {
	t := suite.T()
	suite.subjectRepository.AssertExpectations(t)
	suite.accessRepository.AssertExpectations(t)
	suite.corpusRepository.AssertExpectations(t)
	suite.ingestionQueue.AssertExpectations(t)
	suite.detectionProvider.AssertExpectations(t)
}

func (suite *UploadUsecaseTestSuite) logEvents(msg string) []gjson.Result {
	events := make([]gjson.Result, 0)
	for _, line := range strings.Split(strings.TrimSpace(suite.logs.String()), "\n") {
		if event := gjson.Parse(line); event.Get("msg").String() == msg {
			events = append(events, event)
		}
	}
	return events
}

func (suite *UploadUsecaseTestSuite) textInput(content string) models.UploadInput {
	return models.UploadInput{
		SubjectId: suite.recipientId,
		CallerId:  suite.recipientId,
		FileName:  "notes.txt",
		MimeType:  "text/plain",
		Content:   []byte(content),
	}
}

func (suite *UploadUsecaseTestSuite) expectTextRedaction() {
	phone, ssn := "415-555-1212", "123-45-6789"
	suite.detectionProvider.On("Inspect", mock.Anything, suite.phoneAndSsnText, mock.Anything).
		Return([]models.RedactionFinding{
			{InfoType: "PHONE_NUMBER", Quote: &phone},
			{InfoType: redaction.CustomSsnInfoTypeName, Quote: &ssn},
		}, nil)
	suite.detectionProvider.On("Deidentify", mock.Anything, suite.phoneAndSsnText, mock.Anything).
		Return(suite.phoneAndSsnRedacts, nil)
}

func (suite *UploadUsecaseTestSuite) TestUpload_text_redacted_to_corpus() {
	suite.subjectRepository.On("GetSubject", suite.ctx, suite.recipientId).Return(suite.corpusSubject, nil)
	suite.expectTextRedaction()
	suite.corpusRepository.On("UploadDocument", suite.ctx, models.CorpusDocumentInput{
		CorpusUri: suite.corpusSubject.CorpusUri,
		FileName:  "notes.txt",
		MimeType:  "text/plain",
		Content:   []byte(suite.phoneAndSsnRedacts),
	}).Return(models.CorpusDocument{DocId: "doc-1", Name: "notes.txt", MimeType: "text/plain"}, nil)

	result, err := suite.makeUsecase(suite.detectionProvider).
		UploadRecipientFile(suite.ctx, suite.textInput(suite.phoneAndSsnText))

	suite.Require().NoError(err)
	suite.Equal(models.UploadStatusUploaded, result.Status)
	suite.True(result.Redacted)
	suite.Len(result.Findings, 2)
	suite.Equal("doc-1", result.Document.DocId)
	suite.Nil(result.Job)
	suite.Nil(result.RedactedTypes)

	events := suite.logEvents("file_redact_uploaded")
	suite.Require().Len(events, 1)
	suite.Equal(suite.recipientId, events[0].Get("subject_id").String())
	suite.True(events[0].Get("redacted").Bool())
	suite.Equal(int64(len(suite.phoneAndSsnText)), events[0].Get("size_bytes").Int())
	suite.NotContains(suite.logs.String(), "415-555-1212")
	suite.AssertExpectations()
}

func (suite *UploadUsecaseTestSuite) TestUpload_redaction_disabled() {
	suite.policy.RedactionEnabled = false
	suite.subjectRepository.On("GetSubject", suite.ctx, suite.recipientId).Return(suite.corpusSubject, nil)
	suite.corpusRepository.On("UploadDocument", suite.ctx, mock.MatchedBy(func(input models.CorpusDocumentInput) bool {
		return string(input.Content) == suite.phoneAndSsnText
	})).Return(models.CorpusDocument{DocId: "doc-1"}, nil)

	result, err := suite.makeUsecase(suite.detectionProvider).
		UploadRecipientFile(suite.ctx, suite.textInput(suite.phoneAndSsnText))

	suite.Require().NoError(err)
	suite.False(result.Redacted)
	suite.Empty(result.Findings)
	suite.Len(suite.logEvents("file_uploaded"), 1)
	suite.detectionProvider.AssertNotCalled(suite.T(), "Inspect", mock.Anything, mock.Anything, mock.Anything)
	suite.AssertExpectations()
}

func (suite *UploadUsecaseTestSuite) TestUpload_engine_not_ready() {
	suite.subjectRepository.On("GetSubject", suite.ctx, suite.recipientId).Return(suite.corpusSubject, nil)
	suite.corpusRepository.On("UploadDocument", suite.ctx, mock.Anything).Return(models.CorpusDocument{DocId: "doc-1"}, nil)

	result, err := suite.makeUsecase(nil).UploadRecipientFile(suite.ctx, suite.textInput(suite.phoneAndSsnText))

	suite.Require().NoError(err)
	suite.False(result.Redacted)
	suite.Empty(result.Findings)
	suite.AssertExpectations()
}

func (suite *UploadUsecaseTestSuite) TestUpload_png_redacted() {
	png := []byte("\x89PNG original")
	suite.subjectRepository.On("GetSubject", suite.ctx, suite.recipientId).Return(suite.corpusSubject, nil)
	suite.detectionProvider.On("RedactImage", mock.Anything, png, "image/png", mock.Anything).
		Return([]byte("\x89PNG redacted"), nil)
	suite.corpusRepository.On("UploadDocument", suite.ctx, mock.MatchedBy(func(input models.CorpusDocumentInput) bool {
		return bytes.Equal(input.Content, []byte("\x89PNG redacted")) && input.MimeType == "image/png"
	})).Return(models.CorpusDocument{DocId: "doc-1"}, nil)

	result, err := suite.makeUsecase(suite.detectionProvider).UploadRecipientFile(suite.ctx, models.UploadInput{
		SubjectId: suite.recipientId,
		CallerId:  suite.recipientId,
		FileName:  "scan.png",
		MimeType:  "image/png",
		Content:   png,
	})

	suite.Require().NoError(err)
	suite.True(result.Redacted)
	suite.Empty(result.Findings)
	suite.AssertExpectations()
}

func (suite *UploadUsecaseTestSuite) TestUpload_pdf_is_not_redacted() {
	pdf := []byte("%PDF-1.7 John Doe")
	suite.subjectRepository.On("GetSubject", suite.ctx, suite.recipientId).Return(suite.corpusSubject, nil)
	suite.corpusRepository.On("UploadDocument", suite.ctx, mock.Anything).Return(models.CorpusDocument{DocId: "doc-1"}, nil)

	result, err := suite.makeUsecase(suite.detectionProvider).UploadRecipientFile(suite.ctx, models.UploadInput{
		SubjectId: suite.recipientId,
		CallerId:  suite.recipientId,
		FileName:  "report.pdf",
		MimeType:  "application/pdf",
		Content:   pdf,
	})

	suite.Require().NoError(err)
	suite.False(result.Redacted)
	suite.AssertExpectations()
}

func (suite *UploadUsecaseTestSuite) TestUpload_provider_failure_stores_original() {
	suite.subjectRepository.On("GetSubject", suite.ctx, suite.recipientId).Return(suite.corpusSubject, nil)
	suite.detectionProvider.On("Inspect", mock.Anything, suite.phoneAndSsnText, mock.Anything).
		Return([]models.RedactionFinding(nil), errors.New("dlp unavailable"))
	suite.detectionProvider.On("Deidentify", mock.Anything, suite.phoneAndSsnText, mock.Anything).
		Return(suite.phoneAndSsnRedacts, nil).Maybe()
	suite.corpusRepository.On("UploadDocument", suite.ctx, mock.MatchedBy(func(input models.CorpusDocumentInput) bool {
		return string(input.Content) == suite.phoneAndSsnText
	})).Return(models.CorpusDocument{DocId: "doc-1"}, nil)

	result, err := suite.makeUsecase(suite.detectionProvider).
		UploadRecipientFile(suite.ctx, suite.textInput(suite.phoneAndSsnText))

	suite.Require().NoError(err)
	suite.False(result.Redacted)
	suite.Empty(result.Findings)
	suite.Len(suite.logEvents("dlp_redact_failed"), 1)
	suite.Len(suite.logEvents("file_uploaded"), 1)
	suite.AssertExpectations()
}

func (suite *UploadUsecaseTestSuite) TestUpload_too_large() {
	suite.subjectRepository.On("GetSubject", suite.ctx, suite.recipientId).Return(suite.corpusSubject, nil)

	_, err := suite.makeUsecase(suite.detectionProvider).
		UploadRecipientFile(suite.ctx, suite.textInput(strings.Repeat("a", 1025)))

	suite.True(errors.Is(err, models.ErrPayloadTooLarge))
	suite.True(errors.Is(err, models.PayloadTooLargeError))
	suite.detectionProvider.AssertNotCalled(suite.T(), "Inspect", mock.Anything, mock.Anything, mock.Anything)
	suite.corpusRepository.AssertNotCalled(suite.T(), "UploadDocument", mock.Anything, mock.Anything)
	suite.AssertExpectations()
}

func (suite *UploadUsecaseTestSuite) TestUpload_unsupported_media_type() {
	suite.subjectRepository.On("GetSubject", suite.ctx, suite.recipientId).Return(suite.corpusSubject, nil)
	input := suite.textInput("MZ")
	input.MimeType = "application/x-msdownload"

	_, err := suite.makeUsecase(suite.detectionProvider).UploadRecipientFile(suite.ctx, input)

	suite.True(errors.Is(err, models.UnsupportedMediaTypeError))
	suite.AssertExpectations()
}

func (suite *UploadUsecaseTestSuite) TestUpload_missing_mime_type_is_unsupported() {
	suite.subjectRepository.On("GetSubject", suite.ctx, suite.recipientId).Return(suite.corpusSubject, nil)
	input := suite.textInput(suite.phoneAndSsnText)
	input.MimeType = ""

	_, err := suite.makeUsecase(suite.detectionProvider).UploadRecipientFile(suite.ctx, input)

	suite.True(errors.Is(err, models.UnsupportedMediaTypeError))
	suite.detectionProvider.AssertNotCalled(suite.T(), "Inspect", mock.Anything, mock.Anything, mock.Anything)
	suite.corpusRepository.AssertNotCalled(suite.T(), "UploadDocument", mock.Anything, mock.Anything)
	suite.AssertExpectations()
}

func (suite *UploadUsecaseTestSuite) TestUpload_subject_not_found() {
	suite.subjectRepository.On("GetSubject", suite.ctx, suite.recipientId).
		Return(models.Subject{}, errors.Wrap(models.NotFoundError, "no row"))

	_, err := suite.makeUsecase(suite.detectionProvider).UploadRecipientFile(suite.ctx, suite.textInput("text"))

	suite.True(errors.Is(err, models.ErrRecipientNotFound))
	suite.AssertExpectations()
}

func (suite *UploadUsecaseTestSuite) TestUpload_caregiver_without_access() {
	suite.subjectRepository.On("GetSubject", suite.ctx, suite.recipientId).Return(suite.corpusSubject, nil)
	suite.accessRepository.On("HasCaregiverAccess", suite.ctx, suite.caregiverId, suite.recipientId).Return(false, nil)
	input := suite.textInput("text")
	input.CallerId = suite.caregiverId

	_, err := suite.makeUsecase(suite.detectionProvider).UploadRecipientFile(suite.ctx, input)

	suite.True(errors.Is(err, models.ForbiddenError))
	suite.corpusRepository.AssertNotCalled(suite.T(), "UploadDocument", mock.Anything, mock.Anything)
	suite.AssertExpectations()
}

func (suite *UploadUsecaseTestSuite) TestUpload_caregiver_with_access() {
	suite.policy.RedactionEnabled = false
	suite.subjectRepository.On("GetSubject", suite.ctx, suite.recipientId).Return(suite.corpusSubject, nil)
	suite.accessRepository.On("HasCaregiverAccess", suite.ctx, suite.caregiverId, suite.recipientId).Return(true, nil)
	suite.corpusRepository.On("UploadDocument", suite.ctx, mock.Anything).Return(models.CorpusDocument{DocId: "doc-1"}, nil)
	input := suite.textInput("text")
	input.CallerId = suite.caregiverId

	_, err := suite.makeUsecase(suite.detectionProvider).UploadRecipientFile(suite.ctx, input)

	suite.NoError(err)
	suite.AssertExpectations()
}

func (suite *UploadUsecaseTestSuite) TestUpload_pipeline_routes_to_queue_only() {
	suite.subjectRepository.On("GetSubject", suite.ctx, suite.recipientId).Return(suite.pipelineSubject, nil)
	suite.expectTextRedaction()
	suite.ingestionQueue.On("EnqueueIngestion", suite.ctx, models.EnqueueIngestionInput{
		SubjectId:   suite.recipientId,
		ProjectId:   "recipient-project",
		TempBucket:  "recipient-temp",
		FileName:    "notes.txt",
		ContentType: "text/plain",
		Content:     []byte(suite.phoneAndSsnRedacts),
	}).Return(models.IngestionJob{JobId: "job-1", ProjectId: "recipient-project", Bucket: "recipient-temp", Object: "uploads/x"}, nil).Once()

	result, err := suite.makeUsecase(suite.detectionProvider).
		UploadRecipientFile(suite.ctx, suite.textInput(suite.phoneAndSsnText))

	suite.Require().NoError(err)
	suite.Equal(models.UploadStatusQueued, result.Status)
	suite.Equal("job-1", result.Job.JobId)
	suite.Nil(result.Document)
	suite.True(result.Redacted)
	suite.Len(suite.logEvents("file_redact_queued"), 1)
	suite.corpusRepository.AssertNotCalled(suite.T(), "UploadDocument", mock.Anything, mock.Anything)
	suite.AssertExpectations()
}

func (suite *UploadUsecaseTestSuite) TestUpload_global_pipeline_setting() {
	suite.policy.PipelineEnabled = true
	suite.policy.RedactionEnabled = false
	subject := suite.pipelineSubject
	subject.PipelineEnabled = nil
	suite.subjectRepository.On("GetSubject", suite.ctx, suite.recipientId).Return(subject, nil)
	suite.ingestionQueue.On("EnqueueIngestion", suite.ctx, mock.Anything).Return(models.IngestionJob{JobId: "job-1"}, nil).Once()

	result, err := suite.makeUsecase(suite.detectionProvider).UploadRecipientFile(suite.ctx, suite.textInput("text"))

	suite.Require().NoError(err)
	suite.Equal(models.UploadStatusQueued, result.Status)
	suite.Len(suite.logEvents("file_queued"), 1)
	suite.AssertExpectations()
}

func (suite *UploadUsecaseTestSuite) TestUpload_subject_opts_out_of_global_pipeline() {
	suite.policy.PipelineEnabled = true
	suite.policy.RedactionEnabled = false
	disabled := false
	subject := suite.pipelineSubject
	subject.PipelineEnabled = &disabled
	suite.subjectRepository.On("GetSubject", suite.ctx, suite.recipientId).Return(subject, nil)
	suite.corpusRepository.On("UploadDocument", suite.ctx, mock.Anything).Return(models.CorpusDocument{DocId: "doc-1"}, nil).Once()

	result, err := suite.makeUsecase(suite.detectionProvider).UploadRecipientFile(suite.ctx, suite.textInput("text"))

	suite.Require().NoError(err)
	suite.Equal(models.UploadStatusUploaded, result.Status)
	suite.ingestionQueue.AssertNotCalled(suite.T(), "EnqueueIngestion", mock.Anything, mock.Anything)
	suite.AssertExpectations()
}

func (suite *UploadUsecaseTestSuite) TestUpload_missing_ingestion_config() {
	subject := suite.pipelineSubject
	subject.TempBucket = ""
	suite.subjectRepository.On("GetSubject", suite.ctx, suite.recipientId).Return(subject, nil)

	_, err := suite.makeUsecase(suite.detectionProvider).
		UploadRecipientFile(suite.ctx, suite.textInput(suite.phoneAndSsnText))

	suite.True(errors.Is(err, models.ErrMissingIngestionConfig))
	suite.True(errors.Is(err, models.BadParameterError))
	suite.ingestionQueue.AssertNotCalled(suite.T(), "EnqueueIngestion", mock.Anything, mock.Anything)
	suite.corpusRepository.AssertNotCalled(suite.T(), "UploadDocument", mock.Anything, mock.Anything)
	suite.AssertExpectations()
}

func (suite *UploadUsecaseTestSuite) TestUpload_corpus_failure_is_upstream_error() {
	suite.policy.RedactionEnabled = false
	suite.subjectRepository.On("GetSubject", suite.ctx, suite.recipientId).Return(suite.corpusSubject, nil)
	suite.corpusRepository.On("UploadDocument", suite.ctx, mock.Anything).Return(models.CorpusDocument{}, suite.repositoryError)

	_, err := suite.makeUsecase(suite.detectionProvider).UploadRecipientFile(suite.ctx, suite.textInput("text"))

	suite.True(errors.Is(err, models.UpstreamDependencyError))
	suite.Len(suite.logEvents("file_store_failed"), 1)
	suite.AssertExpectations()
}

func (suite *UploadUsecaseTestSuite) TestUpload_queue_failure_is_upstream_error() {
	suite.policy.RedactionEnabled = false
	suite.subjectRepository.On("GetSubject", suite.ctx, suite.recipientId).Return(suite.pipelineSubject, nil)
	suite.ingestionQueue.On("EnqueueIngestion", suite.ctx, mock.Anything).Return(models.IngestionJob{}, suite.repositoryError)

	_, err := suite.makeUsecase(suite.detectionProvider).UploadRecipientFile(suite.ctx, suite.textInput("text"))

	suite.True(errors.Is(err, models.UpstreamDependencyError))
	suite.AssertExpectations()
}

func (suite *UploadUsecaseTestSuite) TestUpload_redact_first_mode() {
	suite.policy.RedactionEnabled = false
	suite.subjectRepository.On("GetSubject", suite.ctx, suite.recipientId).Return(suite.corpusSubject, nil)
	phone := "415-555-1212"
	suite.detectionProvider.On("Inspect", mock.Anything, "a b c", mock.Anything).Return([]models.RedactionFinding{
		{InfoType: "PHONE_NUMBER", Quote: &phone},
		{InfoType: "EMAIL_ADDRESS"},
		{InfoType: "PHONE_NUMBER"},
	}, nil)
	suite.detectionProvider.On("Deidentify", mock.Anything, "a b c", mock.Anything).Return("[PHONE_NUMBER] [EMAIL_ADDRESS] c", nil)
	suite.corpusRepository.On("UploadDocument", suite.ctx, mock.Anything).Return(models.CorpusDocument{DocId: "doc-1"}, nil)
	input := suite.textInput("a b c")
	input.Mode = models.UploadModeRedactFirst

	result, err := suite.makeUsecase(suite.detectionProvider).UploadRecipientFile(suite.ctx, input)

	suite.Require().NoError(err)
	suite.True(result.Redacted)
	suite.Equal([]string{"EMAIL_ADDRESS", "PHONE_NUMBER"}, result.RedactedTypes)
	events := suite.logEvents("file_redact_uploaded")
	suite.Require().Len(events, 1)
	suite.Equal(int64(2), events[0].Get("redacted_types").Int())
	suite.AssertExpectations()
}

func (suite *UploadUsecaseTestSuite) TestUpload_without_caller() {
	input := suite.textInput("text")
	input.CallerId = ""

	_, err := suite.makeUsecase(suite.detectionProvider).UploadRecipientFile(suite.ctx, input)

	suite.True(errors.Is(err, models.UnAuthorizedError))
	suite.AssertExpectations()
}

func TestUploadUsecase(t *testing.T) {
	suite.Run(t, new(UploadUsecaseTestSuite))
}
