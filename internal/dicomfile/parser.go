// Package dicomfile reads DICOM Part 10 headers out of extracted archive
// trees: signature detection, header parsing, DICOMDIR record extraction,
// and study-group partitioning. Pixel data is never decoded.
package dicomfile

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// ErrParse marks a buffer that does not conform to the DICOM
// file-meta/header structure
var ErrParse = errors.New("not a valid DICOM header")

const magicOffset = 128

var dicomMagic = []byte("DICM")

// IsDicomFile reports whether the buffer carries the DICOM Part 10
// signature: bytes 128..131 equal "DICM". Buffers shorter than 132 bytes
// are never DICOM.
func IsDicomFile(b []byte) bool {
	if len(b) < magicOffset+len(dicomMagic) {
		return false
	}
	return bytes.Equal(b[magicOffset:magicOffset+len(dicomMagic)], dicomMagic)
}

// Dataset wraps a parsed DICOM header for tag-level access
type Dataset struct {
	ds dicom.Dataset
}

// Parse reads the header elements of a DICOM buffer. Pixel data is skipped;
// failures wrap ErrParse.
func Parse(b []byte) (*Dataset, error) {
	ds, err := dicom.Parse(bytes.NewReader(b), int64(len(b)), nil, dicom.SkipPixelData())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return &Dataset{ds: ds}, nil
}

// StringValue resolves a tag to its trimmed textual value. The second
// return distinguishes an absent tag from an empty value.
func (d *Dataset) StringValue(t tag.Tag) (string, bool) {
	elem, err := d.ds.FindElementByTag(t)
	if err != nil || elem.Value == nil {
		return "", false
	}
	vals, ok := elem.Value.GetValue().([]string)
	if !ok || len(vals) == 0 {
		return "", false
	}
	return strings.TrimSpace(vals[0]), true
}

// SequenceItems returns one Dataset per item of a sequence element, or
// false when the tag is absent or not a sequence
func (d *Dataset) SequenceItems(t tag.Tag) ([]*Dataset, bool) {
	elem, err := d.ds.FindElementByTag(t)
	if err != nil || elem.Value == nil {
		return nil, false
	}
	items, ok := elem.Value.GetValue().([]*dicom.SequenceItemValue)
	if !ok {
		return nil, false
	}

	out := make([]*Dataset, 0, len(items))
	for _, item := range items {
		elems, ok := item.GetValue().([]*dicom.Element)
		if !ok {
			continue
		}
		out = append(out, &Dataset{ds: dicom.Dataset{Elements: elems}})
	}
	return out, true
}
