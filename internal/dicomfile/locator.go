package dicomfile

import (
	"strings"

	"github.com/radpoint/dicom-ingest/internal/archive"
)

const octetStream = "application/octet-stream"

// FindFirstDicom walks the tree depth-first and returns the first leaf that
// is either a binary-typed DICOMDIR index or a .dcm-named file. Children are
// visited in lexicographic order, so the result is deterministic for a given
// tree. A nil return is a normal negative result, not an error.
func FindFirstDicom(root *archive.Entry) *archive.Entry {
	if root == nil {
		return nil
	}
	if !root.IsDir() {
		if qualifies(root) {
			return root
		}
		return nil
	}
	for _, child := range root.SortedChildren() {
		if found := FindFirstDicom(child); found != nil {
			return found
		}
	}
	return nil
}

// IsDicomdirEntry reports whether a leaf is a DICOMDIR index: the name must
// match case-insensitively AND the declared content type must be generic
// binary. A DICOMDIR-named leaf with a recognized content type (say, a
// stray DICOMDIR.txt renamed by a scanner) does not qualify.
func IsDicomdirEntry(e *archive.Entry) bool {
	return e != nil && !e.IsDir() &&
		strings.EqualFold(e.Name, "DICOMDIR") &&
		e.ContentType == octetStream
}

func qualifies(e *archive.Entry) bool {
	if IsDicomdirEntry(e) {
		return true
	}
	return strings.HasSuffix(strings.ToLower(e.Name), ".dcm")
}
