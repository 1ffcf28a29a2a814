package dvbdesc

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/asticode/go-astikit"
)

// Errors
var (
	ErrPSISectionCRC32Mismatch = errors.New("dvbdesc: PSI section CRC32 mismatch")
	ErrPSISectionTruncated     = errors.New("dvbdesc: PSI section truncated")
	ErrPSIUnexpectedTableID    = errors.New("dvbdesc: unexpected PSI table id")
)

type PSITableID uint8

const (
	PSITableIDEITStart    PSITableID = 0x4e
	PSITableIDEITEnd      PSITableID = 0x6f
	PSITableIDNITVariant1 PSITableID = 0x40 // actual network
	PSITableIDNITVariant2 PSITableID = 0x41 // other network
)

func (t PSITableID) isEIT() bool {
	return t >= PSITableIDEITStart && t <= PSITableIDEITEnd
}

func (t PSITableID) isNIT() bool {
	return t == PSITableIDNITVariant1 || t == PSITableIDNITVariant2
}

// PSISectionHeader represents a PSI section header
type PSISectionHeader struct {
	SectionLength          uint16     // The number of bytes that follow for the syntax section (with CRC value) and/or table data. These bytes must not exceed a value of 1021.
	TableID                PSITableID // Table Identifier, that defines the structure of the syntax section and other contained data.
	SectionSyntaxIndicator bool       // A flag that indicates if the syntax section follows the section length.
	PrivateBit             bool
}

// PSISectionSyntaxHeader represents a PSI section syntax header
type PSISectionSyntaxHeader struct {
	CurrentNextIndicator bool   // Indicates if data is current in effect or is for future use. If the bit is flagged on, then the data is to be used at the present moment.
	LastSectionNumber    uint8  // This indicates which table is the last table in the sequence of tables.
	SectionNumber        uint8  // This is an index indicating which table this is in a related sequence of tables. The first table starts from 0.
	VersionNumber        uint8  // Syntax version number. Incremented when data is changed and wrapped around on overflow for values greater than 32.
	TableIDExtension     uint16 // Informational only identifier. The NIT uses this for the network id.
}

// parsePSISection parses the headers of a long form section whose table id is accepted by ok. The returned iterator
// is bounded to the section body, CRC32 excluded, and positioned right after the syntax header.
func parsePSISection(bs []byte, ok func(PSITableID) bool) (h PSISectionHeader, sh PSISectionSyntaxHeader, i *astikit.BytesIterator, err error) {
	i = astikit.NewBytesIterator(bs)

	// Section header
	var offsetSectionsEnd int
	if h, offsetSectionsEnd, err = parsePSISectionHeader(i); err != nil {
		err = fmt.Errorf("dvbdesc: parsing PSI section header failed: %w", err)
		return
	}
	if !ok(h.TableID) {
		err = fmt.Errorf("dvbdesc: table id 0x%02x: %w", uint8(h.TableID), ErrPSIUnexpectedTableID)
		return
	}

	// Syntax header
	if offsetSectionsEnd-i.Offset() < 5 {
		err = fmt.Errorf("dvbdesc: section length %d can't hold a syntax header: %w", h.SectionLength, ErrPSISectionTruncated)
		return
	}
	if err = sh.parsePSISectionSyntaxHeader(i); err != nil {
		err = fmt.Errorf("dvbdesc: parsing PSI section syntax header failed: %w", err)
		return
	}

	// Bound the iterator to the section body
	offset := i.Offset()
	i = astikit.NewBytesIterator(bs[:offsetSectionsEnd])
	i.Seek(offset)
	return
}

// parsePSISectionHeader parses a PSI section header and checks the section CRC32.
// offsetSectionsEnd points at the CRC32.
func parsePSISectionHeader(i *astikit.BytesIterator) (h PSISectionHeader, offsetSectionsEnd int, err error) {
	offsetStart := i.Offset()

	// Table ID
	var b byte
	if b, err = i.NextByte(); err != nil {
		err = fmt.Errorf("dvbdesc: fetching table id failed: %w: %w", ErrPSISectionTruncated, err)
		return
	}
	h.TableID = PSITableID(b)

	// Get next bytes
	var v uint16
	if v, err = readUint16(i); err != nil {
		err = fmt.Errorf("dvbdesc: fetching section length failed: %w: %w", ErrPSISectionTruncated, err)
		return
	}
	h.SectionSyntaxIndicator = v&0x8000 > 0
	h.PrivateBit = v&0x4000 > 0
	h.SectionLength = v & 0xfff

	// Offsets
	offsetEnd := i.Offset() + int(h.SectionLength)
	offsetSectionsEnd = offsetEnd - 4
	if h.SectionLength < 4 || offsetEnd > i.Len() {
		err = fmt.Errorf("dvbdesc: section length %d is invalid for a %d bytes buffer: %w", h.SectionLength, i.Len()-offsetStart, ErrPSISectionTruncated)
		return
	}

	// Check CRC32
	i.Seek(offsetStart)
	var bs []byte
	if bs, err = nextBytes(i, offsetEnd-offsetStart); err != nil {
		return
	}
	if c := computeCRC32(bs); c != 0 {
		err = fmt.Errorf("dvbdesc: table CRC32 %x doesn't match: %w", binary.BigEndian.Uint32(bs[len(bs)-4:]), ErrPSISectionCRC32Mismatch)
		return
	}
	i.Seek(offsetStart + 3)
	return
}

// parsePSISectionSyntaxHeader parses a PSI section syntax header
func (h *PSISectionSyntaxHeader) parsePSISectionSyntaxHeader(i *astikit.BytesIterator) (err error) {
	// Table ID extension
	if h.TableIDExtension, err = readUint16(i); err != nil {
		return
	}

	// Get next bytes
	var bs []byte
	if bs, err = nextBytes(i, 3); err != nil {
		return
	}

	// Version number
	h.VersionNumber = bs[0] & 0x3f >> 1

	// Current/Next indicator
	h.CurrentNextIndicator = bs[0]&0x1 > 0

	// Section numbers
	h.SectionNumber = bs[1]
	h.LastSectionNumber = bs[2]
	return
}
