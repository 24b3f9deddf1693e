package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/radpoint/dicom-ingest/internal/middleware"
	"github.com/radpoint/dicom-ingest/internal/repository"
)

type StudiesHandler struct {
	studyRepo *repository.StudyRepository
}

func NewStudiesHandler(studyRepo *repository.StudyRepository) *StudiesHandler {
	return &StudiesHandler{
		studyRepo: studyRepo,
	}
}

// ListStudies returns the requesting user's ingested studies
func (h *StudiesHandler) ListStudies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		http.Error(w, "User ID not found", http.StatusBadRequest)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	studies, err := h.studyRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list studies")
		http.Error(w, "Failed to list studies", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(studies)
}

// GetStudy returns a single study by ID
func (h *StudiesHandler) GetStudy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	studyIDStr := chi.URLParam(r, "id")
	studyID, err := uuid.Parse(studyIDStr)
	if err != nil {
		http.Error(w, "Invalid study ID", http.StatusBadRequest)
		return
	}

	study, err := h.studyRepo.GetByID(ctx, studyID)
	if err != nil {
		log.Error().Err(err).Str("study_id", studyIDStr).Msg("Failed to get study")
		http.Error(w, "Failed to get study", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(study)
}
