package handlers

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/radpoint/dicom-ingest/internal/dicomtest"
	"github.com/radpoint/dicom-ingest/internal/middleware"
	"github.com/radpoint/dicom-ingest/internal/models"
	"github.com/radpoint/dicom-ingest/internal/services"
)

type stubStudyStore struct {
	studies []*models.Study
}

func (s *stubStudyStore) CountMatching(ctx context.Context, userID uuid.UUID, patientName, studyDate string) (int64, error) {
	var n int64
	for _, st := range s.studies {
		if st.UserID == userID && st.PatientName == patientName && st.StudyDate == studyDate {
			n++
		}
	}
	return n, nil
}

func (s *stubStudyStore) Create(ctx context.Context, study *models.Study) error {
	study.ID = uuid.New()
	s.studies = append(s.studies, study)
	return nil
}

func multipartUpload(t *testing.T, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, data := range files {
		part, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &body, mw.FormDataContentType()
}

func simpleZip(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("study1/IM001.dcm")
	if err != nil {
		t.Fatalf("zip create: %v", err)
	}
	if _, err := w.Write(dicomtest.SimpleStudy("DOE^JOHN", "20230101", "CHEST")); err != nil {
		t.Fatalf("zip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func newUploadServer(store *stubStudyStore, maxBytes int64) http.Handler {
	svc := services.NewIngestService(store, nil, nil, 0)
	handler := NewUploadHandler(svc, maxBytes)
	return middleware.UserID(http.HandlerFunc(handler.Upload))
}

func TestUploadInsertsAndReportsResults(t *testing.T) {
	store := &stubStudyStore{}
	server := newUploadServer(store, 10<<20)

	body, contentType := multipartUpload(t, map[string][]byte{
		"studies.zip": simpleZip(t),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/studies/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-User-ID", uuid.NewString())
	rec := httptest.NewRecorder()

	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Results     []models.FileResult `json:"results"`
		AnyInserted bool                `json:"any_inserted"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].State != models.StateInserted {
		t.Errorf("results = %+v", resp.Results)
	}
	if !resp.AnyInserted {
		t.Errorf("AnyInserted = false after a successful insert")
	}
	if len(store.studies) != 1 {
		t.Errorf("store rows = %d, want 1", len(store.studies))
	}
}

func TestUploadRequiresUserID(t *testing.T) {
	server := newUploadServer(&stubStudyStore{}, 10<<20)

	body, contentType := multipartUpload(t, map[string][]byte{
		"studies.zip": simpleZip(t),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/studies/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestUploadRejectsInvalidUserID(t *testing.T) {
	server := newUploadServer(&stubStudyStore{}, 10<<20)

	body, contentType := multipartUpload(t, map[string][]byte{
		"studies.zip": simpleZip(t),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/studies/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-User-ID", "not-a-uuid")
	rec := httptest.NewRecorder()

	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestUploadRejectsEmptyForm(t *testing.T) {
	server := newUploadServer(&stubStudyStore{}, 10<<20)

	body, contentType := multipartUpload(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/studies/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-User-ID", uuid.NewString())
	rec := httptest.NewRecorder()

	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestUploadEnforcesSizeLimit(t *testing.T) {
	server := newUploadServer(&stubStudyStore{}, 64)

	body, contentType := multipartUpload(t, map[string][]byte{
		"studies.zip": simpleZip(t),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/studies/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-User-ID", uuid.NewString())
	rec := httptest.NewRecorder()

	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestUploadMixedBatchReportsPerFileStates(t *testing.T) {
	store := &stubStudyStore{}
	server := newUploadServer(store, 10<<20)

	body, contentType := multipartUpload(t, map[string][]byte{
		"studies.zip": simpleZip(t),
		"report.pdf":  []byte("%PDF-1.4"),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/studies/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-User-ID", uuid.NewString())
	rec := httptest.NewRecorder()

	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Results []models.FileResult `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	states := map[string]models.UploadState{}
	for _, result := range resp.Results {
		states[result.FileName] = result.State
	}
	if states["studies.zip"] != models.StateInserted {
		t.Errorf("studies.zip state = %s", states["studies.zip"])
	}
	if states["report.pdf"] != models.StateUnsupportedFileType {
		t.Errorf("report.pdf state = %s", states["report.pdf"])
	}
}
