package service

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"recivo/internal/domain"
	"recivo/internal/port"
)

// FileService archives uploaded source documents and serves them back.
type FileService interface {
	Archive(ctx context.Context, sessionID uuid.UUID, upload PageUpload) (*domain.FileMeta, error)
	GetDownloadURL(ctx context.Context, fileID uuid.UUID) (string, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.FileMeta, error)
}

type fileService struct {
	storage      port.ObjectStorage
	metaRepo     port.FileMetaRepository
	bucket       string
	maxSizeBytes int64
	urlExpiry    int64
}

// NewFileService creates a new FileService implementation.
func NewFileService(storage port.ObjectStorage, metaRepo port.FileMetaRepository, bucket string, maxSizeBytes int64) FileService {
	return &fileService{
		storage:      storage,
		metaRepo:     metaRepo,
		bucket:       bucket,
		maxSizeBytes: maxSizeBytes,
		urlExpiry:    900,
	}
}

func (s *fileService) Archive(ctx context.Context, sessionID uuid.UUID, upload PageUpload) (*domain.FileMeta, error) {
	fileType, err := s.validate(upload)
	if err != nil {
		return nil, err
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(upload.Filename)), ".")
	if ext == "" {
		ext = string(fileType)
	}
	fileID := uuid.New()
	key := fmt.Sprintf("sessions/%s/%s.%s", sessionID, fileID, ext)

	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.bucket,
		Key:         key,
		Body:        bytes.NewReader(upload.Data),
		ContentType: upload.ContentType,
		Size:        int64(len(upload.Data)),
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}

	meta := &domain.FileMeta{
		ID:           fileID,
		SessionID:    sessionID,
		FileName:     fmt.Sprintf("%s.%s", fileID, ext),
		OriginalName: upload.Filename,
		FileType:     fileType,
		FileSize:     int64(len(upload.Data)),
		S3Bucket:     s.bucket,
		S3Key:        key,
		ContentType:  upload.ContentType,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.metaRepo.Create(ctx, meta); err != nil {
		// The object is already stored; remove it so storage and metadata
		// do not drift apart.
		if delErr := s.storage.Delete(ctx, s.bucket, key); delErr != nil {
			return nil, fmt.Errorf("fileService.Archive: saving metadata: %w (cleanup also failed: %v)", err, delErr)
		}
		return nil, fmt.Errorf("fileService.Archive: saving metadata: %w", err)
	}
	return meta, nil
}

func (s *fileService) GetDownloadURL(ctx context.Context, fileID uuid.UUID) (string, error) {
	meta, err := s.metaRepo.GetByID(ctx, fileID)
	if err != nil {
		return "", err
	}
	return s.storage.GetPresignedURL(ctx, meta.S3Bucket, meta.S3Key, s.urlExpiry)
}

func (s *fileService) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.FileMeta, error) {
	return s.metaRepo.ListBySession(ctx, sessionID)
}

func (s *fileService) validate(upload PageUpload) (domain.FileType, error) {
	if len(upload.Data) == 0 {
		return "", fmt.Errorf("%w: empty file", domain.ErrUnsupportedFileType)
	}
	if s.maxSizeBytes > 0 && int64(len(upload.Data)) > s.maxSizeBytes {
		return "", fmt.Errorf("%w: %d bytes exceeds limit of %d", domain.ErrFileTooLarge, len(upload.Data), s.maxSizeBytes)
	}
	fileType, ok := domain.AllowedContentTypes[upload.ContentType]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, upload.ContentType)
	}
	if detected := detectFileType(upload.Data); detected != "" && detected != fileType {
		return "", fmt.Errorf("%w: content does not match declared type %s", domain.ErrUnsupportedFileType, upload.ContentType)
	}
	return fileType, nil
}

// detectFileType sniffs the magic bytes of the known formats. An empty
// return means the format could not be identified.
func detectFileType(data []byte) domain.FileType {
	switch {
	case bytes.HasPrefix(data, []byte("%PDF-")):
		return domain.FileTypePDF
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return domain.FileTypeJPG
	case bytes.HasPrefix(data, []byte{0x89, 0x50, 0x4E, 0x47}):
		return domain.FileTypePNG
	}
	return ""
}
