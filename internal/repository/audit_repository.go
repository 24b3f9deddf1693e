package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/radpoint/dicom-ingest/internal/database"
	"github.com/radpoint/dicom-ingest/internal/models"
)

// AuditRepository handles upload audit database operations
type AuditRepository struct{}

// NewAuditRepository creates a new audit repository
func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

// Create creates a new upload audit entry
func (r *AuditRepository) Create(ctx context.Context, audit *models.UploadAudit) error {
	if err := database.DB.WithContext(ctx).Create(audit).Error; err != nil {
		return fmt.Errorf("failed to create upload audit: %w", err)
	}
	return nil
}

// GetByUserID retrieves upload audits for a user, newest first
func (r *AuditRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.UploadAudit, error) {
	var audits []models.UploadAudit
	query := database.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&audits).Error; err != nil {
		return nil, fmt.Errorf("failed to get upload audits: %w", err)
	}
	return audits, nil
}
