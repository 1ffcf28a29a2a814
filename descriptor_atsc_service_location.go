package dvbdesc

import (
	"encoding/binary"

	"github.com/asticode/go-astikit"
)

// DescriptorATSCServiceLocation represents an ATSC service location descriptor
// Chapter: 6.9.5 | Link: https://www.atsc.org/wp-content/uploads/2015/03/Program-System-Information-Protocol-for-Terrestrial-Broadcast-and-Cable.pdf
type DescriptorATSCServiceLocation struct {
	Header         DescriptorHeader
	Elements       []ATSCServiceLocationElement
	PCRPID         uint16
	NumberElements uint8
	PCRPIDReserved uint8
}

// ATSCServiceLocationElement represents an elementary stream of an ATSC service location descriptor
type ATSCServiceLocationElement struct {
	ElementaryPID      uint16
	ISO639LanguageCode [3]byte
	Reserved           uint8
	StreamType         uint8
}

func newDescriptorATSCServiceLocation(d *Decoder, i *astikit.BytesIterator, h DescriptorHeader) (dd Descriptor, err error) {
	// Init
	s := &DescriptorATSCServiceLocation{Header: h}
	dd = s

	if err = checkMinLength(d, i, h, 3); err != nil {
		return
	}

	// PCR PID
	if s.PCRPID, s.PCRPIDReserved, err = readPID(i); err != nil {
		return
	}

	// Number of elements
	if s.NumberElements, err = readUint8(i); err != nil {
		return
	}

	// Elements
	s.Elements, err = decodeArray(d, i, h, "elements", int(s.NumberElements), 6, func(bs []byte) (e ATSCServiceLocationElement) {
		e.StreamType = bs[0]
		e.ElementaryPID, e.Reserved = splitPID(binary.BigEndian.Uint16(bs[1:]))
		copy(e.ISO639LanguageCode[:], bs[3:6])
		return
	})
	return
}

func (s *DescriptorATSCServiceLocation) header() *DescriptorHeader { return &s.Header }

func (s *DescriptorATSCServiceLocation) Release() {
	s.Elements = nil
}

func (s *DescriptorATSCServiceLocation) describe(p *printer) {
	p.field("pcr pid", s.PCRPID)
	p.field("pcr pid reserved", s.PCRPIDReserved)
	p.field("number of elements", s.NumberElements)
	for idx, e := range s.Elements {
		p.item("element", idx, func() {
			p.field("stream type", e.StreamType)
			p.field("reserved", e.Reserved)
			p.field("elementary pid", e.ElementaryPID)
			p.text("language", e.ISO639LanguageCode[:])
		})
	}
}
