package archive

import (
	"testing"
)

func TestAddFileBuildsNestedTree(t *testing.T) {
	root := NewDir("upload.zip")
	root.AddFile("study1/series1/IM001.dcm", []byte{1})
	root.AddFile("study1/series1/IM002.dcm", []byte{2})
	root.AddFile("study1/DICOMDIR", []byte{3})
	root.AddFile("readme.txt", []byte{4})

	if got := root.LeafCount(); got != 4 {
		t.Fatalf("LeafCount = %d, want 4", got)
	}

	study1, ok := root.Children["study1"]
	if !ok || !study1.IsDir() {
		t.Fatalf("study1 missing or not a directory")
	}

	dicomdir, ok := study1.Children["DICOMDIR"]
	if !ok || dicomdir.IsDir() {
		t.Fatalf("DICOMDIR missing or not a leaf")
	}
	if dicomdir.ContentType != "application/octet-stream" {
		t.Errorf("DICOMDIR content type = %q, want application/octet-stream", dicomdir.ContentType)
	}

	series1 := study1.Children["series1"]
	if series1 == nil || series1.LeafCount() != 2 {
		t.Fatalf("series1 should hold 2 leaves")
	}
}

func TestAddFileNormalizesBackslashPaths(t *testing.T) {
	root := NewDir("upload.zip")
	root.AddFile(`study\IM001.dcm`, []byte{1})

	study := root.Children["study"]
	if study == nil || study.Children["IM001.dcm"] == nil {
		t.Fatalf("backslash path was not split into directories")
	}
}

func TestSortedChildrenIsDeterministic(t *testing.T) {
	root := NewDir("upload.zip")
	root.AddFile("b.dcm", nil)
	root.AddFile("a.dcm", nil)
	root.AddFile("c.dcm", nil)

	want := []string{"a.dcm", "b.dcm", "c.dcm"}
	for i, child := range root.SortedChildren() {
		if child.Name != want[i] {
			t.Fatalf("child %d = %q, want %q", i, child.Name, want[i])
		}
	}
}

func TestSubdirsSkipsLeaves(t *testing.T) {
	root := NewDir("upload.zip")
	root.AddFile("loose.dcm", nil)
	root.AddFile("study1/IM001.dcm", nil)
	root.AddFile("study2/IM001.dcm", nil)

	dirs := root.Subdirs()
	if len(dirs) != 2 {
		t.Fatalf("Subdirs = %d entries, want 2", len(dirs))
	}
	if dirs[0].Name != "study1" || dirs[1].Name != "study2" {
		t.Fatalf("Subdirs order = %q, %q", dirs[0].Name, dirs[1].Name)
	}
}
