package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gampa15/foundin-backend/internal/models"
)

type fakeUploadRecordStore struct {
	records map[string]*models.Upload
}

func newFakeUploadRecordStore() *fakeUploadRecordStore {
	return &fakeUploadRecordStore{records: make(map[string]*models.Upload)}
}

func (s *fakeUploadRecordStore) Insert(ctx context.Context, upload *models.Upload) error {
	copied := *upload
	s.records[upload.ID] = &copied
	return nil
}

func (s *fakeUploadRecordStore) Get(ctx context.Context, id string) (*models.Upload, error) {
	u, ok := s.records[id]
	if !ok {
		return nil, ErrFileNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *fakeUploadRecordStore) Remove(ctx context.Context, id string) error {
	delete(s.records, id)
	return nil
}

func TestUploadSaveAndDelete(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := newFakeUploadRecordStore()
	svc := NewUploadService(dir, store)

	resp, err := svc.Save(ctx, "u1", "pitch.png", strings.NewReader("fake image bytes"))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.True(t, strings.HasPrefix(resp.URL, "/uploads/"))
	assert.True(t, strings.HasSuffix(resp.Filename, ".png"))
	assert.Equal(t, "IMAGE", resp.MediaType)

	saved, err := os.ReadFile(filepath.Join(dir, resp.Filename))
	require.NoError(t, err)
	assert.Equal(t, "fake image bytes", string(saved))

	record, err := store.Get(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "u1", record.UserID)
	assert.Equal(t, "IMAGE", record.MediaType)

	require.NoError(t, svc.Delete(ctx, "u1", resp.ID))
	_, err = os.Stat(filepath.Join(dir, resp.Filename))
	assert.True(t, os.IsNotExist(err))
	_, err = store.Get(ctx, resp.ID)
	assert.Equal(t, ErrFileNotFound, err)
}

func TestUploadRejectsUnsupportedExtension(t *testing.T) {
	svc := NewUploadService(t.TempDir(), newFakeUploadRecordStore())

	_, err := svc.Save(context.Background(), "u1", "malware.exe", strings.NewReader("nope"))
	assert.Equal(t, ErrUnsupportedFile, err)
}

func TestUploadDeleteRequiresUploader(t *testing.T) {
	ctx := context.Background()
	svc := NewUploadService(t.TempDir(), newFakeUploadRecordStore())

	resp, err := svc.Save(ctx, "u1", "deck.pdf", strings.NewReader("deck"))
	require.NoError(t, err)

	assert.Equal(t, ErrNotUploader, svc.Delete(ctx, "u2", resp.ID))
	assert.NoError(t, svc.Delete(ctx, "u1", resp.ID))
	assert.Equal(t, ErrFileNotFound, svc.Delete(ctx, "u1", resp.ID))
}

// Ownership lives in the record store, so a fresh service over the same
// store (a restart) still enforces uploader-only deletes.
func TestUploadOwnershipSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := newFakeUploadRecordStore()

	resp, err := NewUploadService(dir, store).Save(ctx, "u1", "deck.pdf", strings.NewReader("deck"))
	require.NoError(t, err)

	restarted := NewUploadService(dir, store)
	assert.Equal(t, ErrNotUploader, restarted.Delete(ctx, "u2", resp.ID))
	require.NoError(t, restarted.Delete(ctx, "u1", resp.ID))
	_, err = os.Stat(filepath.Join(dir, resp.Filename))
	assert.True(t, os.IsNotExist(err))
}

func TestMediaTypeFor(t *testing.T) {
	assert.Equal(t, "IMAGE", MediaTypeFor("a.png"))
	assert.Equal(t, "IMAGE", MediaTypeFor("a.JPG"))
	assert.Equal(t, "VIDEO", MediaTypeFor("demo.mp4"))
	assert.Equal(t, "DOC", MediaTypeFor("deck.pdf"))
}
