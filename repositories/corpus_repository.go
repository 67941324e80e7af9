package repositories

import (
	"context"
	"log/slog"

	"github.com/checkmarble/caregiver-uploads/models"
	"github.com/checkmarble/caregiver-uploads/utils"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

const (
	corpusMetadataDocId = "doc_id"
	corpusMetadataName  = "name"
)

// CorpusRepository stores the documents of a subject's corpus. The corpus URI is a bucket url,
// each document being one object keyed by its document id.
type CorpusRepository struct {
	blobRepository BlobRepository
}

func NewCorpusRepository(blobRepository BlobRepository) *CorpusRepository {
	return &CorpusRepository{blobRepository: blobRepository}
}

func (repo *CorpusRepository) UploadDocument(ctx context.Context, input models.CorpusDocumentInput) (models.CorpusDocument, error) {
	docId := uuid.NewString()

	err := repo.blobRepository.PutBlob(ctx, input.CorpusUri, docId, input.Content, models.BlobWriteOptions{
		ContentType: input.MimeType,
		Metadata: map[string]string{
			corpusMetadataDocId: docId,
			corpusMetadataName:  input.FileName,
		},
	})
	if err != nil {
		return models.CorpusDocument{}, errors.Wrap(err, "error adding document to corpus")
	}

	utils.LoggerFromContext(ctx).DebugContext(ctx, "document added to corpus", slog.String("doc_id", docId))

	return models.CorpusDocument{
		DocId:    docId,
		Name:     input.FileName,
		MimeType: input.MimeType,
		Corpus:   input.CorpusUri,
	}, nil
}

func (repo *CorpusRepository) ListDocuments(ctx context.Context, corpusUri string) ([]models.CorpusDocument, error) {
	blobs, err := repo.blobRepository.ListBlobs(ctx, corpusUri)
	if err != nil {
		return nil, errors.Wrap(err, "error listing corpus documents")
	}

	documents := make([]models.CorpusDocument, 0, len(blobs))
	for _, b := range blobs {
		documents = append(documents, adaptCorpusDocument(corpusUri, b))
	}
	return documents, nil
}

func (repo *CorpusRepository) GetDocument(ctx context.Context, corpusUri, docId string) (models.CorpusDocument, error) {
	attributes, err := repo.blobRepository.GetAttributes(ctx, corpusUri, docId)
	if err != nil {
		return models.CorpusDocument{}, errors.Wrap(err, "error reading corpus document")
	}
	return adaptCorpusDocument(corpusUri, attributes), nil
}

func (repo *CorpusRepository) DeleteDocument(ctx context.Context, corpusUri, docId string) error {
	if err := repo.blobRepository.DeleteFile(ctx, corpusUri, docId); err != nil {
		return errors.Wrap(err, "error deleting corpus document")
	}
	return nil
}

func adaptCorpusDocument(corpusUri string, attributes models.BlobAttributes) models.CorpusDocument {
	docId := attributes.Metadata[corpusMetadataDocId]
	if docId == "" {
		docId = attributes.FileName
	}
	return models.CorpusDocument{
		DocId:    docId,
		Name:     attributes.Metadata[corpusMetadataName],
		MimeType: attributes.ContentType,
		Corpus:   corpusUri,
	}
}
