// Package dicomtest builds minimal DICOM Part 10 buffers for tests:
// a 128-byte preamble, the DICM prefix, a file-meta group declaring
// explicit-VR little-endian, and whatever dataset elements a test needs.
package dicomtest

import (
	"bytes"
	"encoding/binary"

	"github.com/suyashkumar/dicom/pkg/tag"
)

const (
	// ExplicitVRLittleEndian is the transfer syntax all fixtures use
	ExplicitVRLittleEndian = "1.2.840.10008.1.2.1"

	secondaryCaptureSOPClass = "1.2.840.10008.5.1.4.1.1.7"
)

var itemTag = tag.Tag{Group: 0xFFFE, Element: 0xE000}

// Element encodes one string-valued dataset element in explicit VR little
// endian. Values are padded to even length per the standard.
func Element(t tag.Tag, vr, value string) []byte {
	padded := padValue(vr, value)

	var buf bytes.Buffer
	writeTag(&buf, t)
	buf.WriteString(vr)
	binary.Write(&buf, binary.LittleEndian, uint16(len(padded)))
	buf.Write(padded)
	return buf.Bytes()
}

// Sequence encodes a defined-length SQ element wrapping the given items
func Sequence(t tag.Tag, items ...[]byte) []byte {
	body := bytes.Join(items, nil)

	var buf bytes.Buffer
	writeTag(&buf, t)
	buf.WriteString("SQ")
	buf.Write([]byte{0, 0}) // reserved
	binary.Write(&buf, binary.LittleEndian, uint32(len(body)))
	buf.Write(body)
	return buf.Bytes()
}

// Item encodes a defined-length sequence item wrapping the given elements
func Item(elements ...[]byte) []byte {
	body := bytes.Join(elements, nil)

	var buf bytes.Buffer
	writeTag(&buf, itemTag)
	binary.Write(&buf, binary.LittleEndian, uint32(len(body)))
	buf.Write(body)
	return buf.Bytes()
}

// File wraps dataset elements into a complete Part 10 buffer
func File(elements ...[]byte) []byte {
	meta := bytes.Join([][]byte{
		Element(tag.MediaStorageSOPClassUID, "UI", secondaryCaptureSOPClass),
		Element(tag.MediaStorageSOPInstanceUID, "UI", "1.2.826.0.1.3680043.2.1125.1"),
		Element(tag.TransferSyntaxUID, "UI", ExplicitVRLittleEndian),
	}, nil)

	var buf bytes.Buffer
	buf.Write(make([]byte, 128))
	buf.WriteString("DICM")

	// File meta group length (0002,0000), UL
	writeTag(&buf, tag.FileMetaInformationGroupLength)
	buf.WriteString("UL")
	binary.Write(&buf, binary.LittleEndian, uint16(4))
	binary.Write(&buf, binary.LittleEndian, uint32(len(meta)))

	buf.Write(meta)
	buf.Write(bytes.Join(elements, nil))
	return buf.Bytes()
}

// SimpleStudy builds a plain DICOM file with the patient/study fields the
// ingestion pipeline reads
func SimpleStudy(patientName, studyDate, studyDescription string) []byte {
	return File(
		Element(tag.StudyDate, "DA", studyDate),
		Element(tag.Modality, "CS", "MR"),
		Element(tag.StudyDescription, "LO", studyDescription),
		Element(tag.PatientName, "PN", patientName),
		Element(tag.PatientID, "LO", "PID-0001"),
	)
}

// Dicomdir builds a DICOMDIR buffer whose Directory Record Sequence holds
// the given items; pass no items for an index missing the sequence entirely
func Dicomdir(items ...[]byte) []byte {
	if len(items) == 0 {
		return File()
	}
	return File(Sequence(tag.DirectoryRecordSequence, items...))
}

func writeTag(buf *bytes.Buffer, t tag.Tag) {
	binary.Write(buf, binary.LittleEndian, t.Group)
	binary.Write(buf, binary.LittleEndian, t.Element)
}

func padValue(vr, value string) []byte {
	b := []byte(value)
	if len(b)%2 != 0 {
		if vr == "UI" {
			b = append(b, 0x00)
		} else {
			b = append(b, ' ')
		}
	}
	return b
}
