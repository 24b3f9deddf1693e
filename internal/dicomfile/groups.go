package dicomfile

import (
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/radpoint/dicom-ingest/internal/archive"
)

// FindDistinctStudyGroups decides whether an extracted tree bundles several
// distinct studies, one per sibling folder. At each level the immediate
// subdirectories are inspected: with two or more, each one's first DICOM
// file is located and its StudyDescription read. Only when every sibling has
// a different, non-empty description does the level partition the upload;
// folder names alone carry no semantic guarantee, while a single study split
// into numbered subfolders by scanner software shares one description.
// Returns the sibling subtrees as groups, or nil to treat the whole tree as
// a single study.
func FindDistinctStudyGroups(root *archive.Entry) []*archive.Entry {
	if root == nil || !root.IsDir() {
		return nil
	}

	subdirs := root.Subdirs()
	if len(subdirs) >= 2 {
		seen := make(map[string]struct{}, len(subdirs))
		distinct := true
		for _, dir := range subdirs {
			desc := firstStudyDescription(dir)
			if desc == "" {
				distinct = false
				break
			}
			if _, dup := seen[desc]; dup {
				distinct = false
				break
			}
			seen[desc] = struct{}{}
		}
		if distinct {
			return subdirs
		}
	}

	for _, dir := range subdirs {
		if groups := FindDistinctStudyGroups(dir); groups != nil {
			return groups
		}
	}
	return nil
}

// firstStudyDescription reads the single StudyDescription tag from the
// subtree's first DICOM file. Anything unreadable counts as no description.
func firstStudyDescription(root *archive.Entry) string {
	entry := FindFirstDicom(root)
	if entry == nil || !IsDicomFile(entry.Data) {
		return ""
	}
	ds, err := Parse(entry.Data)
	if err != nil {
		return ""
	}
	desc, _ := ds.StringValue(tag.StudyDescription)
	return desc
}
