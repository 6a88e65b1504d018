package handlers

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Gampa15/foundin-backend/internal/middleware"
	"github.com/Gampa15/foundin-backend/internal/models"
	"github.com/Gampa15/foundin-backend/internal/services"
)

type UploadHandler struct {
	uploadService *services.UploadService
	maxSizeMB     int64
}

func NewUploadHandler(uploadService *services.UploadService, maxSizeMB int64) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
		maxSizeMB:     maxSizeMB,
	}
}

// Upload accepts one multipart file under the "file" field.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	maxBytes := h.maxSizeMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, models.NewErrorResponse("File too large"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Missing file field"))
		return
	}
	defer file.Close()

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	resp, err := h.uploadService.Save(ctx, userID, header.Filename, file)
	if err != nil {
		if err == services.ErrUnsupportedFile {
			writeJSON(w, http.StatusUnsupportedMediaType, models.NewErrorResponse("Unsupported file type"))
			return
		}
		log.Printf("[Upload] Save failed for %s: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to save file"))
		return
	}

	log.Printf("[Upload] File saved: %s by %s", resp.ID, userID)
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(resp))
}

// Delete removes an uploaded file. Only the uploader may delete it.
func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	fileID := chi.URLParam(r, "fileId")

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	if err := h.uploadService.Delete(ctx, userID, fileID); err != nil {
		if err == services.ErrFileNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("File not found"))
			return
		}
		if err == services.ErrNotUploader {
			writeJSON(w, http.StatusForbidden, models.NewErrorResponse("Only the uploader may delete this file"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to delete file"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "File deleted successfully"}))
}
