package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/itaymdigi/Family-Navigator/internal/middleware"
	"github.com/itaymdigi/Family-Navigator/internal/models"
)

const (
	MaxPhotoSize    = 10 << 20
	UploadURLPrefix = "/uploads/"
)

var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type photoRepository interface {
	Create(ctx context.Context, p *models.Photo) error
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]*models.Photo, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Photo, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PhotoHandler stores uploaded images on local disk under storageDir and
// serves them from UploadURLPrefix.
type PhotoHandler struct {
	repo       photoRepository
	storageDir string
}

func NewPhotoHandler(repo photoRepository, storageDir string) *PhotoHandler {
	return &PhotoHandler{repo: repo, storageDir: storageDir}
}

func (h *PhotoHandler) List(w http.ResponseWriter, r *http.Request) {
	tripID, ok := urlID(w, r, "tripID", "trip")
	if !ok {
		return
	}
	photos, err := h.repo.ListByTrip(r.Context(), tripID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"photos": photos})
}

func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	tripID, ok := urlID(w, r, "tripID", "trip")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxPhotoSize+1<<20)
	if err := r.ParseMultipartForm(MaxPhotoSize); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Upload must be multipart and at most 10MB", r))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("photo")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"photo": "Photo file is required"}, r))
		return
	}
	defer file.Close()

	if header.Size > MaxPhotoSize {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"photo": "Photo must be at most 10MB"}, r))
		return
	}

	sniff := make([]byte, 512)
	n, err := io.ReadFull(file, sniff)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		handleServiceError(w, r, err)
		return
	}
	ext, ok := photoExtensions[http.DetectContentType(sniff[:n])]
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"photo": "Only JPEG, PNG, GIF and WebP images are accepted"}, r))
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		handleServiceError(w, r, err)
		return
	}

	id := uuid.New()
	name := id.String() + ext
	if err := h.save(name, file); err != nil {
		log.Error("failed to store photo", "trip_id", tripID, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResp("STORAGE_ERROR", "Failed to store photo", r))
		return
	}

	category := strings.TrimSpace(r.FormValue("category"))
	if category == "" {
		category = "general"
	}
	uploader := middleware.GetUserID(r.Context())
	p := &models.Photo{
		ID:       id,
		TripID:   tripID,
		URL:      UploadURLPrefix + name,
		Caption:  strings.TrimSpace(r.FormValue("caption")),
		Category: category,
	}
	if uploader != uuid.Nil {
		p.UploadedBy = &uploader
	}

	if err := h.repo.Create(r.Context(), p); err != nil {
		h.remove(name)
		handleRepoError(w, r, err, "Trip")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *PhotoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "photo")
	if !ok {
		return
	}
	p, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		handleRepoError(w, r, err, "Photo")
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		handleRepoError(w, r, err, "Photo")
		return
	}
	if strings.HasPrefix(p.URL, UploadURLPrefix) {
		h.remove(path.Base(p.URL))
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PhotoHandler) save(name string, src io.Reader) error {
	if err := os.MkdirAll(h.storageDir, 0o755); err != nil {
		return err
	}
	dst, err := os.Create(filepath.Join(h.storageDir, name))
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return err
	}
	return dst.Close()
}

func (h *PhotoHandler) remove(name string) {
	if err := os.Remove(filepath.Join(h.storageDir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("failed to remove photo file", "name", name, "err", err)
	}
}
