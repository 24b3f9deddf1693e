package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/radpoint/dicom-ingest/internal/database"
	"github.com/radpoint/dicom-ingest/internal/models"
)

// StudyRepository handles study table operations
type StudyRepository struct{}

// NewStudyRepository creates a new study repository
func NewStudyRepository() *StudyRepository {
	return &StudyRepository{}
}

// CountMatching counts existing studies for the dedup key
// (user_id, patient_name, study_date)
func (r *StudyRepository) CountMatching(ctx context.Context, userID uuid.UUID, patientName, studyDate string) (int64, error) {
	var count int64
	if err := database.DB.WithContext(ctx).
		Model(&models.Study{}).
		Where("user_id = ? AND patient_name = ? AND study_date = ?", userID, patientName, studyDate).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count matching studies: %w", err)
	}
	return count, nil
}

// Create inserts a new study record
func (r *StudyRepository) Create(ctx context.Context, study *models.Study) error {
	if err := database.DB.WithContext(ctx).Create(study).Error; err != nil {
		return fmt.Errorf("failed to create study: %w", err)
	}
	return nil
}

// GetByID retrieves a study by ID
func (r *StudyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Study, error) {
	var study models.Study
	if err := database.DB.WithContext(ctx).Where("id = ?", id).First(&study).Error; err != nil {
		return nil, fmt.Errorf("failed to get study: %w", err)
	}
	return &study, nil
}

// ListByUser retrieves a user's studies, newest first
func (r *StudyRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Study, error) {
	var studies []models.Study
	query := database.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&studies).Error; err != nil {
		return nil, fmt.Errorf("failed to list studies: %w", err)
	}
	return studies, nil
}
