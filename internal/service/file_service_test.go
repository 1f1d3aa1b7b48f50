package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"recivo/internal/domain"
	"recivo/internal/port"
	"recivo/internal/service"
	"recivo/mocks"
)

func newFileService(storage *mocks.MockObjectStorage, metaRepo *mocks.MockFileMetaRepo) service.FileService {
	return service.NewFileService(storage, metaRepo, "test-bucket", 1024)
}

func pdfUpload() service.PageUpload {
	return service.PageUpload{
		Data:        []byte("%PDF-1.4 minimal"),
		ContentType: "application/pdf",
		Filename:    "invoice.pdf",
	}
}

func TestArchive_Success(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	metaRepo := new(mocks.MockFileMetaRepo)
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "test-bucket" && in.ContentType == "application/pdf"
	})).Return(&port.UploadOutput{Location: "s3://test-bucket/key"}, nil)
	metaRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	sessionID := uuid.New()
	meta, err := newFileService(storage, metaRepo).Archive(context.Background(), sessionID, pdfUpload())
	require.NoError(t, err)

	assert.Equal(t, sessionID, meta.SessionID)
	assert.Equal(t, domain.FileTypePDF, meta.FileType)
	assert.Equal(t, "invoice.pdf", meta.OriginalName)
	assert.Equal(t, "test-bucket", meta.S3Bucket)
	assert.Contains(t, meta.S3Key, "sessions/"+sessionID.String()+"/")
	storage.AssertExpectations(t)
	metaRepo.AssertExpectations(t)
}

func TestArchive_RejectsUnsupportedContentType(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	metaRepo := new(mocks.MockFileMetaRepo)

	_, err := newFileService(storage, metaRepo).Archive(context.Background(), uuid.New(), service.PageUpload{
		Data:        []byte("GIF89a"),
		ContentType: "image/gif",
		Filename:    "invoice.gif",
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestArchive_RejectsMismatchedMagicBytes(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	metaRepo := new(mocks.MockFileMetaRepo)

	// Declared as PDF but carrying a PNG signature.
	_, err := newFileService(storage, metaRepo).Archive(context.Background(), uuid.New(), service.PageUpload{
		Data:        []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A},
		ContentType: "application/pdf",
		Filename:    "invoice.pdf",
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestArchive_RejectsOversizedFile(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	metaRepo := new(mocks.MockFileMetaRepo)
	svc := service.NewFileService(storage, metaRepo, "test-bucket", 4)

	_, err := svc.Archive(context.Background(), uuid.New(), pdfUpload())
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
}

func TestArchive_UploadFailure(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	metaRepo := new(mocks.MockFileMetaRepo)
	storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := newFileService(storage, metaRepo).Archive(context.Background(), uuid.New(), pdfUpload())
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	metaRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestArchive_MetadataFailureCleansUpObject(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	metaRepo := new(mocks.MockFileMetaRepo)
	storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	storage.On("Delete", mock.Anything, "test-bucket", mock.Anything).Return(nil)
	metaRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

	_, err := newFileService(storage, metaRepo).Archive(context.Background(), uuid.New(), pdfUpload())
	assert.Error(t, err)
	storage.AssertCalled(t, "Delete", mock.Anything, "test-bucket", mock.Anything)
}

func TestGetDownloadURL(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	metaRepo := new(mocks.MockFileMetaRepo)
	fileID := uuid.New()
	metaRepo.On("GetByID", mock.Anything, fileID).Return(&domain.FileMeta{
		ID:       fileID,
		S3Bucket: "test-bucket",
		S3Key:    "sessions/x/y.pdf",
	}, nil)
	storage.On("GetPresignedURL", mock.Anything, "test-bucket", "sessions/x/y.pdf", mock.Anything).
		Return("https://signed.example/url", nil)

	url, err := newFileService(storage, metaRepo).GetDownloadURL(context.Background(), fileID)
	require.NoError(t, err)
	assert.Equal(t, "https://signed.example/url", url)
}
