package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Study is one persisted imaging study, associated with the uploading user.
// Column names follow the original "dicom" table.
type Study struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_dicom_dedup" json:"user_id"`

	PatientName      string `gorm:"type:varchar(255);index:idx_dicom_dedup" json:"patient_name"`
	PatientID        string `gorm:"type:varchar(64);column:patient_id" json:"patient_id"`
	PatientAge       string `gorm:"type:varchar(16)" json:"patient_age"`
	PatientBirthDate string `gorm:"type:varchar(16)" json:"patient_birth_date"`
	PatientSex       string `gorm:"type:varchar(8)" json:"patient_sex"`

	// StudyDate keeps the raw DICOM DA form (YYYYMMDD)
	StudyDate         string `gorm:"type:varchar(16);index:idx_dicom_dedup" json:"study_date"`
	StudyDescription  string `gorm:"type:varchar(255)" json:"study_description"`
	SeriesDescription string `gorm:"type:varchar(255)" json:"series_description"`
	InstitutionName   string `gorm:"type:varchar(255)" json:"institution_name"`
	Modality          string `gorm:"type:varchar(16)" json:"modality"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName overrides the table name
func (Study) TableName() string {
	return "dicom"
}

// BeforeCreate hook
func (s *Study) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
