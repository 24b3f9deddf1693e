package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/radpoint/dicom-ingest/internal/middleware"
	"github.com/radpoint/dicom-ingest/internal/models"
	"github.com/radpoint/dicom-ingest/internal/services"
)

// uploadFieldName is the multipart field carrying the archive files
const uploadFieldName = "files"

type UploadHandler struct {
	ingestService *services.IngestService
	maxBytes      int64
}

func NewUploadHandler(ingestService *services.IngestService, maxBytes int64) *UploadHandler {
	return &UploadHandler{
		ingestService: ingestService,
		maxBytes:      maxBytes,
	}
}

type uploadResponse struct {
	Results     []models.FileResult `json:"results"`
	AnyInserted bool                `json:"any_inserted"`
}

// Upload ingests a batch of compressed DICOM bundles and returns the
// per-file, per-study-group outcome
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		http.Error(w, "User ID not found", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		log.Warn().Err(err).Msg("Invalid multipart upload")
		http.Error(w, "Invalid or oversized multipart request", http.StatusRequestEntityTooLarge)
		return
	}
	defer r.MultipartForm.RemoveAll()

	fileHeaders := r.MultipartForm.File[uploadFieldName]
	if len(fileHeaders) == 0 {
		http.Error(w, "No files uploaded", http.StatusBadRequest)
		return
	}

	items := make([]*models.UploadItem, 0, len(fileHeaders))
	for _, header := range fileHeaders {
		file, err := header.Open()
		if err != nil {
			log.Warn().Err(err).Str("file", header.Filename).Msg("Failed to open uploaded file")
			item := models.NewUploadItem(header.Filename, nil)
			item.State = models.StateErrorLoading
			items = append(items, item)
			continue
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			log.Warn().Err(err).Str("file", header.Filename).Msg("Failed to read uploaded file")
			item := models.NewUploadItem(header.Filename, nil)
			item.State = models.StateErrorLoading
			items = append(items, item)
			continue
		}
		items = append(items, models.NewUploadItem(header.Filename, data))
	}

	h.ingestService.ProcessBatch(ctx, userID, items)

	response := uploadResponse{Results: make([]models.FileResult, 0, len(items))}
	for _, item := range items {
		result := item.Result()
		response.Results = append(response.Results, result)
		for _, group := range result.Groups {
			if group.State == models.StateInserted {
				response.AnyInserted = true
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
