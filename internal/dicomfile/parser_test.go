package dicomfile

import (
	"errors"
	"testing"

	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/radpoint/dicom-ingest/internal/dicomtest"
)

func TestIsDicomFile(t *testing.T) {
	valid := dicomtest.SimpleStudy("DOE^JOHN", "20230101", "CHEST")

	mismatched := make([]byte, 200)
	copy(mismatched[128:], "DCIM")

	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{"valid part 10 file", valid, true},
		{"empty buffer", nil, false},
		{"shorter than 132 bytes", make([]byte, 131), false},
		{"long enough but wrong magic", mismatched, false},
		{"magic at wrong offset", append([]byte("DICM"), make([]byte, 200)...), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDicomFile(tt.data); got != tt.want {
				t.Errorf("IsDicomFile = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseReadsStringValues(t *testing.T) {
	ds, err := Parse(dicomtest.SimpleStudy("DOE^JOHN", "20230101", "CHEST"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	name, ok := ds.StringValue(tag.PatientName)
	if !ok || name != "DOE^JOHN" {
		t.Errorf("PatientName = %q, %v", name, ok)
	}
	date, ok := ds.StringValue(tag.StudyDate)
	if !ok || date != "20230101" {
		t.Errorf("StudyDate = %q, %v", date, ok)
	}

	// Absent tag is distinct from an empty value
	if v, ok := ds.StringValue(tag.InstitutionName); ok {
		t.Errorf("InstitutionName should be absent, got %q", v)
	}
}

func TestParseRejectsNonDicom(t *testing.T) {
	_, err := Parse([]byte("definitely not a dicom header"))
	if !errors.Is(err, ErrParse) {
		t.Fatalf("err = %v, want ErrParse", err)
	}
}
