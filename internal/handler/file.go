package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/datapact/datapact-go/internal/model"
	"github.com/datapact/datapact-go/internal/service"
)

// maxFileSize bounds a single uploaded payload.
const maxFileSize = 10 << 20 // 10MB

// FileHandler handles binary file upload, download and deletion.
type FileHandler struct {
	files *service.FileService
}

// NewFileHandler creates a new FileHandler.
func NewFileHandler(files *service.FileService) *FileHandler {
	return &FileHandler{files: files}
}

// HandleUpload handles PUT /v1/file/{pk}/ and PUT /v1/file/{pk}/{id}/
// multipart requests with the payload in the "data" form field.
func (h *FileHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	publicKey := chi.URLParam(r, "pk")
	if publicKey == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse("missing public key"))
		return
	}

	var id int64
	if raw := chi.URLParam(r, "id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse("invalid file id"))
			return
		}
		id = parsed
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFileSize)
	part, header, err := r.FormFile("data")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("missing file data"))
		return
	}
	defer part.Close()

	data, err := io.ReadAll(io.LimitReader(part, maxFileSize))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("reading file data"))
		return
	}

	file := &model.File{
		PublicKey: publicKey,
		Name:      header.Filename,
		MimeType:  header.Header.Get("Content-Type"),
		Data:      data,
	}

	uploaded, err := h.files.SaveFile(r.Context(), file, id, strategyTag(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	status := http.StatusOK
	if id == 0 {
		status = http.StatusCreated
	}
	writeJSON(w, status, uploaded)
}

// HandleDownload handles GET /v1/file/{pk}/{id}/ requests and streams the
// stored payload back with its original MIME type.
func (h *FileHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	publicKey := chi.URLParam(r, "pk")
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid file id"))
		return
	}

	file, err := h.files.GetFile(r.Context(), id, publicKey, strategyTag(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	mimeType := file.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Length", strconv.FormatInt(file.Size, 10))
	w.WriteHeader(http.StatusOK)
	w.Write(file.Data)
}

// HandleList handles GET /v1/file/{pk}/ requests.
func (h *FileHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	publicKey := chi.URLParam(r, "pk")

	files, err := h.files.GetUserFiles(r.Context(), publicKey, strategyTag(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]model.UploadedFile, len(files))
	for i, f := range files {
		out[i] = model.UploadedFile{
			ID:        f.ID,
			PublicKey: f.PublicKey,
			Name:      f.Name,
			MimeType:  f.MimeType,
			Size:      f.Size,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleDelete handles DELETE /v1/file/{pk}/{id}/ requests. A non-matching
// id/owner pair deletes nothing and reports 0.
func (h *FileHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	publicKey := chi.URLParam(r, "pk")
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid file id"))
		return
	}

	deleted, err := h.files.DeleteFile(r.Context(), id, publicKey, strategyTag(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, deleted)
}
