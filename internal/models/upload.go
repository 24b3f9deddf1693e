package models

import "github.com/google/uuid"

// UploadState is the per-item lifecycle state. Every state other than
// Selected and Processing is terminal; re-running a batch only reprocesses
// items still in Selected.
type UploadState string

const (
	StateSelected             UploadState = "selected"
	StateProcessing           UploadState = "processing"
	StateInserted             UploadState = "inserted"
	StateDuplicated           UploadState = "duplicated"
	StateNoDcmFileFound       UploadState = "no_dcm_file_found"
	StateNoDirectoryRecordTag UploadState = "no_directory_record_tag"
	StateUnsupportedFileType  UploadState = "unsupported_file_type"
	StateErrorLoading         UploadState = "error_loading"
)

// Terminal reports whether the state ends the item's lifecycle
func (s UploadState) Terminal() bool {
	return s != StateSelected && s != StateProcessing
}

// DisplayColor maps a state to the color tag the upload list renders
func (s UploadState) DisplayColor() string {
	switch s {
	case StateInserted:
		return "green"
	case StateDuplicated:
		return "yellow"
	case StateSelected, StateProcessing:
		return "gray"
	default:
		return "red"
	}
}

// GroupResult is the outcome of one study group found inside an uploaded
// archive. An archive bundling several distinct studies yields one result
// per group rather than collapsing them into a single file-level state.
type GroupResult struct {
	GroupName    string      `json:"group_name,omitempty"`
	State        UploadState `json:"state"`
	DisplayColor string      `json:"display_color"`
	StudyID      *uuid.UUID  `json:"study_id,omitempty"`
}

// UploadItem is one user-selected file moving through the ingestion state
// machine. State is mutated only by the orchestrator, never concurrently
// for the same item.
type UploadItem struct {
	Name   string
	Data   []byte
	State  UploadState
	Groups []GroupResult
}

// NewUploadItem creates an item in the Selected state
func NewUploadItem(name string, data []byte) *UploadItem {
	return &UploadItem{Name: name, Data: data, State: StateSelected}
}

// FileResult is the UI-facing summary for one uploaded file
type FileResult struct {
	FileName     string        `json:"file_name"`
	State        UploadState   `json:"state"`
	DisplayColor string        `json:"display_color"`
	Groups       []GroupResult `json:"groups"`
}

// Result builds the UI-facing tuple from a processed item
func (u *UploadItem) Result() FileResult {
	return FileResult{
		FileName:     u.Name,
		State:        u.State,
		DisplayColor: u.State.DisplayColor(),
		Groups:       u.Groups,
	}
}
