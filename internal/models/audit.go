package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UploadAudit records the outcome of one processed upload file
type UploadAudit struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	FileName     string    `gorm:"type:varchar(500);not null" json:"file_name"`
	Outcome      string    `gorm:"type:varchar(50);index" json:"outcome"`
	GroupCount   int       `json:"group_count"`
	ErrorMessage string    `gorm:"type:text" json:"error_message,omitempty"`
	Duration     int64     `json:"duration_ms"` // milliseconds
	CreatedAt    time.Time `gorm:"index" json:"timestamp"`
}

// TableName overrides the table name
func (UploadAudit) TableName() string {
	return "upload_audits"
}

// BeforeCreate hook
func (a *UploadAudit) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
