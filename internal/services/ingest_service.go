package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/radpoint/dicom-ingest/internal/archive"
	"github.com/radpoint/dicom-ingest/internal/cache"
	"github.com/radpoint/dicom-ingest/internal/dicomfile"
	"github.com/radpoint/dicom-ingest/internal/models"
)

// StudyStore is the store contract the orchestrator depends on: an
// existence check on the dedup key and an insert.
type StudyStore interface {
	CountMatching(ctx context.Context, userID uuid.UUID, patientName, studyDate string) (int64, error)
	Create(ctx context.Context, study *models.Study) error
}

// AuditStore records per-file processing outcomes
type AuditStore interface {
	Create(ctx context.Context, audit *models.UploadAudit) error
}

// IngestService drives the ingestion pipeline over a batch of uploaded
// archives: extraction, study-group detection, header parsing, dedup, and
// persistence. Files are processed strictly sequentially so per-item state
// updates never race; distinct files share no mutable data.
type IngestService struct {
	studies  StudyStore
	audits   AuditStore
	cache    cache.Cache
	cacheTTL time.Duration
}

// NewIngestService creates a new ingest service. The cache is optional and
// only short-circuits repeat dedup checks; passing nil disables it.
func NewIngestService(studies StudyStore, audits AuditStore, c cache.Cache, cacheTTL time.Duration) *IngestService {
	return &IngestService{
		studies:  studies,
		audits:   audits,
		cache:    c,
		cacheTTL: cacheTTL,
	}
}

// ProcessBatch runs every item still in the Selected state through the
// pipeline, one file fully resolved before the next. A failure in one file
// marks that item only; the batch always runs to completion.
func (s *IngestService) ProcessBatch(ctx context.Context, userID uuid.UUID, items []*models.UploadItem) {
	for _, item := range items {
		if item.State != models.StateSelected {
			continue
		}
		item.State = models.StateProcessing

		start := time.Now()
		s.processItem(ctx, userID, item)
		duration := time.Since(start)

		filesProcessed.WithLabelValues(string(item.State)).Inc()
		s.writeAudit(ctx, userID, item, duration)

		log.Info().
			Str("file", item.Name).
			Str("state", string(item.State)).
			Int("groups", len(item.Groups)).
			Dur("duration", duration).
			Msg("Upload item processed")
	}
}

func (s *IngestService) processItem(ctx context.Context, userID uuid.UUID, item *models.UploadItem) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("error", r).Str("file", item.Name).Msg("Panic while processing upload item")
			item.State = models.StateErrorLoading
		}
	}()

	if !archive.IsSupportedName(item.Name) {
		item.State = models.StateUnsupportedFileType
		return
	}

	tree, err := archive.Open(ctx, item.Name, item.Data)
	if err != nil {
		log.Warn().Err(err).Str("file", item.Name).Msg("Archive extraction failed")
		item.State = models.StateErrorLoading
		return
	}

	groups := dicomfile.FindDistinctStudyGroups(tree)
	if groups == nil {
		groups = []*archive.Entry{tree}
	} else {
		studyGroupsDetected.Add(float64(len(groups)))
	}

	for _, group := range groups {
		state, studyID := s.processGroup(ctx, userID, group)
		name := ""
		if group != tree {
			name = group.Name
		}
		item.Groups = append(item.Groups, models.GroupResult{
			GroupName:    name,
			State:        state,
			DisplayColor: state.DisplayColor(),
			StudyID:      studyID,
		})
	}

	// The file-level state follows the last group's outcome
	item.State = item.Groups[len(item.Groups)-1].State
}

// processGroup resolves one study group to a terminal state, inserting a
// study record when the group carries new metadata
func (s *IngestService) processGroup(ctx context.Context, userID uuid.UUID, group *archive.Entry) (models.UploadState, *uuid.UUID) {
	entry := dicomfile.FindFirstDicom(group)
	if entry == nil {
		return models.StateNoDcmFileFound, nil
	}

	var meta dicomfile.StudyMetadata

	if dicomfile.IsDicomdirEntry(entry) {
		ds, err := dicomfile.Parse(entry.Data)
		if err != nil {
			log.Warn().Err(err).Msg("DICOMDIR parse failed")
			return models.StateErrorLoading, nil
		}
		records, err := ds.DirectoryRecords()
		if err != nil {
			if errors.Is(err, dicomfile.ErrNoDirectoryRecords) {
				return models.StateNoDirectoryRecordTag, nil
			}
			return models.StateErrorLoading, nil
		}
		meta = dicomfile.ExtractPatientAndStudy(records)
	} else {
		if !dicomfile.IsDicomFile(entry.Data) {
			return models.StateNoDcmFileFound, nil
		}
		ds, err := dicomfile.Parse(entry.Data)
		if err != nil {
			log.Warn().Err(err).Str("entry", entry.Name).Msg("DICOM parse failed")
			return models.StateErrorLoading, nil
		}
		meta = dicomfile.MetadataFromDataset(ds)
	}

	dedupKey := cache.DedupKey(userID.String(), meta.PatientName, meta.StudyDate)
	if s.cache != nil {
		if known, err := s.cache.Exists(ctx, dedupKey); err == nil && known {
			dedupCacheHits.Inc()
			duplicatesSkipped.Inc()
			return models.StateDuplicated, nil
		}
	}

	count, err := s.studies.CountMatching(ctx, userID, meta.PatientName, meta.StudyDate)
	if err != nil {
		// Fail closed: without a dedup answer nothing may be inserted
		log.Error().Err(err).Msg("Dedup check failed")
		return models.StateErrorLoading, nil
	}
	if count > 0 {
		duplicatesSkipped.Inc()
		s.rememberDuplicate(ctx, dedupKey)
		return models.StateDuplicated, nil
	}

	study := &models.Study{
		UserID:            userID,
		PatientName:       meta.PatientName,
		PatientID:         meta.PatientID,
		PatientAge:        meta.PatientAge,
		PatientBirthDate:  meta.PatientBirthDate,
		PatientSex:        meta.PatientSex,
		StudyDate:         meta.StudyDate,
		StudyDescription:  meta.StudyDescription,
		SeriesDescription: meta.SeriesDescription,
		InstitutionName:   meta.InstitutionName,
		Modality:          meta.Modality,
	}
	if err := s.studies.Create(ctx, study); err != nil {
		log.Error().Err(err).Msg("Study insert failed")
		return models.StateErrorLoading, nil
	}

	studiesInserted.Inc()
	s.rememberDuplicate(ctx, dedupKey)
	return models.StateInserted, &study.ID
}

func (s *IngestService) rememberDuplicate(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, []byte("1"), s.cacheTTL); err != nil {
		log.Debug().Err(err).Msg("Dedup cache set failed")
	}
}

func (s *IngestService) writeAudit(ctx context.Context, userID uuid.UUID, item *models.UploadItem, duration time.Duration) {
	if s.audits == nil {
		return
	}
	audit := &models.UploadAudit{
		UserID:     userID,
		FileName:   item.Name,
		Outcome:    string(item.State),
		GroupCount: len(item.Groups),
		Duration:   duration.Milliseconds(),
	}
	if item.State == models.StateErrorLoading {
		audit.ErrorMessage = "processing failed"
	}
	if err := s.audits.Create(ctx, audit); err != nil {
		log.Warn().Err(err).Str("file", item.Name).Msg("Audit write failed")
	}
}
