package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	filesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dicom_ingest",
		Name:      "files_processed_total",
		Help:      "Uploaded files processed, by terminal state.",
	}, []string{"state"})

	studyGroupsDetected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "dicom_ingest",
		Name:      "study_groups_detected_total",
		Help:      "Study groups found inside multi-study archives.",
	})

	studiesInserted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "dicom_ingest",
		Name:      "studies_inserted_total",
		Help:      "Study records inserted into the store.",
	})

	duplicatesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "dicom_ingest",
		Name:      "duplicates_skipped_total",
		Help:      "Uploads skipped because a matching study already existed.",
	})

	dedupCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "dicom_ingest",
		Name:      "dedup_cache_hits_total",
		Help:      "Dedup checks answered from cache without a store query.",
	})
)
