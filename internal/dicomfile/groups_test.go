package dicomfile

import (
	"testing"

	"github.com/radpoint/dicom-ingest/internal/archive"
	"github.com/radpoint/dicom-ingest/internal/dicomtest"
)

func TestFindDistinctStudyGroupsSplitsDifferingDescriptions(t *testing.T) {
	root := archive.NewDir("upload.zip")
	root.AddFile("folderA/IM001.dcm", dicomtest.SimpleStudy("DOE^JOHN", "20230101", "CHEST"))
	root.AddFile("folderB/IM001.dcm", dicomtest.SimpleStudy("DOE^JOHN", "20230101", "ABDOMEN"))

	groups := FindDistinctStudyGroups(root)
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}
	if groups[0].Name != "folderA" || groups[1].Name != "folderB" {
		t.Errorf("group names = %q, %q", groups[0].Name, groups[1].Name)
	}
}

func TestFindDistinctStudyGroupsKeepsIdenticalDescriptionsTogether(t *testing.T) {
	root := archive.NewDir("upload.zip")
	root.AddFile("1/IM001.dcm", dicomtest.SimpleStudy("DOE^JOHN", "20230101", "CHEST"))
	root.AddFile("2/IM001.dcm", dicomtest.SimpleStudy("DOE^JOHN", "20230101", "CHEST"))

	if groups := FindDistinctStudyGroups(root); groups != nil {
		t.Fatalf("identical descriptions must not partition, got %d groups", len(groups))
	}
}

func TestFindDistinctStudyGroupsRecursesThroughWrapperFolder(t *testing.T) {
	root := archive.NewDir("upload.zip")
	root.AddFile("export/folderA/IM001.dcm", dicomtest.SimpleStudy("A", "20230101", "CHEST"))
	root.AddFile("export/folderB/IM001.dcm", dicomtest.SimpleStudy("B", "20230102", "ABDOMEN"))

	groups := FindDistinctStudyGroups(root)
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2 found one level down", len(groups))
	}
}

func TestFindDistinctStudyGroupsEmptyDescriptionBlocksPartition(t *testing.T) {
	root := archive.NewDir("upload.zip")
	root.AddFile("folderA/IM001.dcm", dicomtest.SimpleStudy("A", "20230101", "CHEST"))
	root.AddFile("folderB/notes.txt", []byte("no dicom here"))

	if groups := FindDistinctStudyGroups(root); groups != nil {
		t.Fatalf("a subtree without a readable description must not partition")
	}
}

func TestFindDistinctStudyGroupsSingleFolder(t *testing.T) {
	root := archive.NewDir("upload.zip")
	root.AddFile("study/IM001.dcm", dicomtest.SimpleStudy("A", "20230101", "CHEST"))

	if groups := FindDistinctStudyGroups(root); groups != nil {
		t.Fatalf("single subtree is one study, got %d groups", len(groups))
	}
}
