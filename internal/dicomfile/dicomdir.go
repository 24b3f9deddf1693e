package dicomfile

import (
	"errors"

	"github.com/suyashkumar/dicom/pkg/tag"
)

// ErrNoDirectoryRecords marks a parsed DICOMDIR whose root dataset has no
// Directory Record Sequence, or one with no items. Callers must surface this
// as its own terminal outcome; it is a malformed index, not "no DICOM found".
var ErrNoDirectoryRecords = errors.New("DICOMDIR has no directory record sequence")

// Directory record types relevant to metadata extraction. A DICOMDIR also
// carries SERIES and IMAGE records, which are ignored here.
const (
	recordTypePatient = "PATIENT"
	recordTypeStudy   = "STUDY"
)

// StudyMetadata is the flat record persisted per study. Fields absent from
// the header remain empty.
type StudyMetadata struct {
	PatientName       string
	PatientID         string
	PatientAge        string
	PatientBirthDate  string
	PatientSex        string
	StudyDate         string
	StudyDescription  string
	SeriesDescription string
	InstitutionName   string
	Modality          string
}

// DirectoryRecords returns the per-item datasets of the root dataset's
// Directory Record Sequence
func (d *Dataset) DirectoryRecords() ([]*Dataset, error) {
	items, ok := d.SequenceItems(tag.DirectoryRecordSequence)
	if !ok || len(items) == 0 {
		return nil, ErrNoDirectoryRecords
	}
	return items, nil
}

// ExtractPatientAndStudy scans the directory record items for the first
// PATIENT and first STUDY record and captures their fields. Institution and
// modality are taken opportunistically from whichever record carries them
// first. The scan stops once all four are satisfied; the early exit is an
// optimization, since an index routinely carries many SERIES/IMAGE records
// after the ones of interest.
func ExtractPatientAndStudy(items []*Dataset) StudyMetadata {
	var meta StudyMetadata
	var havePatient, haveStudy, haveInstitution, haveModality bool

	for _, item := range items {
		if havePatient && haveStudy && haveInstitution && haveModality {
			break
		}

		recordType, _ := item.StringValue(tag.DirectoryRecordType)
		switch {
		case recordType == recordTypePatient && !havePatient:
			meta.PatientName, _ = item.StringValue(tag.PatientName)
			meta.PatientID, _ = item.StringValue(tag.PatientID)
			meta.PatientBirthDate, _ = item.StringValue(tag.PatientBirthDate)
			meta.PatientSex, _ = item.StringValue(tag.PatientSex)
			meta.PatientAge, _ = item.StringValue(tag.PatientAge)
			havePatient = true

		case recordType == recordTypeStudy && !haveStudy:
			meta.StudyDate, _ = item.StringValue(tag.StudyDate)
			meta.StudyDescription, _ = item.StringValue(tag.StudyDescription)
			haveStudy = true
		}

		if !haveInstitution {
			if v, ok := item.StringValue(tag.InstitutionName); ok {
				meta.InstitutionName = v
				haveInstitution = true
			}
		}
		if !haveModality {
			if v, ok := item.StringValue(tag.Modality); ok {
				meta.Modality = v
				haveModality = true
			}
		}
	}

	return meta
}

// MetadataFromDataset builds a study record from a plain DICOM file header
func MetadataFromDataset(ds *Dataset) StudyMetadata {
	var meta StudyMetadata
	meta.PatientName, _ = ds.StringValue(tag.PatientName)
	meta.PatientID, _ = ds.StringValue(tag.PatientID)
	meta.PatientAge, _ = ds.StringValue(tag.PatientAge)
	meta.PatientBirthDate, _ = ds.StringValue(tag.PatientBirthDate)
	meta.PatientSex, _ = ds.StringValue(tag.PatientSex)
	meta.StudyDate, _ = ds.StringValue(tag.StudyDate)
	meta.StudyDescription, _ = ds.StringValue(tag.StudyDescription)
	meta.SeriesDescription, _ = ds.StringValue(tag.SeriesDescription)
	meta.InstitutionName, _ = ds.StringValue(tag.InstitutionName)
	meta.Modality, _ = ds.StringValue(tag.Modality)
	return meta
}
