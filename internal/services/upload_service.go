package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Gampa15/foundin-backend/internal/models"
)

var (
	ErrFileNotFound    = errors.New("file not found")
	ErrNotUploader     = errors.New("not the uploader of this file")
	ErrUnsupportedFile = errors.New("unsupported file type")
)

// UploadRecordStore persists upload ownership records.
type UploadRecordStore interface {
	Insert(ctx context.Context, upload *models.Upload) error
	Get(ctx context.Context, id string) (*models.Upload, error)
	Remove(ctx context.Context, id string) error
}

// allowed upload extensions: idea media and verification documents.
var allowedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true,
	".mp4": true, ".webm": true,
	".pdf": true,
}

// UploadService stores uploaded media on local disk under the configured
// uploads directory, served back at /uploads/<filename>. Ownership records
// go through the record store so they outlive the process.
type UploadService struct {
	uploadDir string
	records   UploadRecordStore
}

func NewUploadService(uploadDir string, records UploadRecordStore) *UploadService {
	os.MkdirAll(uploadDir, 0755)

	return &UploadService{
		uploadDir: uploadDir,
		records:   records,
	}
}

// MediaTypeFor maps a filename to the idea media type enum, defaulting to
// DOC for anything that is not an image or video.
func MediaTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif":
		return "IMAGE"
	case ".mp4", ".webm":
		return "VIDEO"
	default:
		return "DOC"
	}
}

func (s *UploadService) Save(ctx context.Context, userID, filename string, file io.Reader) (*models.UploadResponse, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return nil, ErrUnsupportedFile
	}

	fileID := uuid.New().String()
	newFilename := fileID + ext
	filePath := filepath.Join(s.uploadDir, newFilename)

	dst, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(filePath)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	record := &models.Upload{
		ID:        fileID,
		UserID:    userID,
		Filename:  newFilename,
		MediaType: MediaTypeFor(filename),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.records.Insert(ctx, record); err != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("failed to record upload: %w", err)
	}

	return &models.UploadResponse{
		ID:        fileID,
		URL:       "/uploads/" + newFilename,
		Filename:  newFilename,
		MediaType: record.MediaType,
	}, nil
}

// Delete removes a file and its record; only the uploader may delete it.
func (s *UploadService) Delete(ctx context.Context, userID, fileID string) error {
	record, err := s.records.Get(ctx, fileID)
	if err != nil {
		return err
	}
	if record.UserID != userID {
		return ErrNotUploader
	}

	if err := os.Remove(filepath.Join(s.uploadDir, record.Filename)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return s.records.Remove(ctx, fileID)
}
