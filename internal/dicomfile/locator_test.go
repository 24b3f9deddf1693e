package dicomfile

import (
	"testing"

	"github.com/radpoint/dicom-ingest/internal/archive"
)

func TestFindFirstDicomReturnsNilWhenNothingQualifies(t *testing.T) {
	root := archive.NewDir("upload.zip")
	root.AddFile("readme.txt", []byte("hi"))
	root.AddFile("sub/image.jpg", []byte{0xff})

	if found := FindFirstDicom(root); found != nil {
		t.Fatalf("found %q, want nil", found.Name)
	}
}

func TestFindFirstDicomMatchesDcmSuffix(t *testing.T) {
	root := archive.NewDir("upload.zip")
	root.AddFile("a/readme.txt", nil)
	root.AddFile("b/IM001.DCM", []byte{1})

	found := FindFirstDicom(root)
	if found == nil || found.Name != "IM001.DCM" {
		t.Fatalf("found = %v, want IM001.DCM", found)
	}
}

func TestFindFirstDicomPrefersTraversalOrder(t *testing.T) {
	root := archive.NewDir("upload.zip")
	root.AddFile("z/late.dcm", nil)
	root.AddFile("a/early.dcm", nil)

	found := FindFirstDicom(root)
	if found == nil || found.Name != "early.dcm" {
		t.Fatalf("found = %v, want early.dcm from the first subtree", found)
	}
}

func TestFindFirstDicomMatchesBinaryDicomdir(t *testing.T) {
	root := archive.NewDir("upload.zip")
	root.AddFile("disc/DICOMDIR", []byte{1})

	found := FindFirstDicom(root)
	if found == nil || found.Name != "DICOMDIR" {
		t.Fatalf("found = %v, want DICOMDIR", found)
	}
}

func TestIsDicomdirEntryRequiresBinaryContentType(t *testing.T) {
	root := archive.NewDir("upload.zip")
	root.AddFile("DICOMDIR", []byte{1})
	root.AddFile("notes/dicomdir.txt", []byte("text"))

	binary := root.Children["DICOMDIR"]
	if !IsDicomdirEntry(binary) {
		t.Errorf("binary-typed DICOMDIR should qualify")
	}

	text := root.Children["notes"].Children["dicomdir.txt"]
	if IsDicomdirEntry(text) {
		t.Errorf("text-typed dicomdir.txt must not qualify")
	}
	if found := FindFirstDicom(root.Children["notes"]); found != nil {
		t.Errorf("locator matched %q inside notes/, want nothing", found.Name)
	}
}
