package dvbdesc

import (
	"encoding/binary"

	"github.com/asticode/go-astikit"
)

// FrequencyCodingType tells which delivery system a frequency list belongs to
type FrequencyCodingType uint8

// Frequency coding types
// Chapter: 6.2.17 | Link: https://www.etsi.org/deliver/etsi_en/300400_300499/300468/01.15.01_60/en_300468v011501p.pdf
const (
	FrequencyCodingTypeUndefined   FrequencyCodingType = 0x0
	FrequencyCodingTypeSatellite   FrequencyCodingType = 0x1
	FrequencyCodingTypeCable       FrequencyCodingType = 0x2
	FrequencyCodingTypeTerrestrial FrequencyCodingType = 0x3
)

func (t FrequencyCodingType) String() string {
	switch t {
	case FrequencyCodingTypeSatellite:
		return "satellite"
	case FrequencyCodingTypeCable:
		return "cable"
	case FrequencyCodingTypeTerrestrial:
		return "terrestrial"
	}
	return "undefined"
}

// Multiplier returns the factor applied to raw wire values.
// Satellite values become kHz, cable and terrestrial values become Hz. Undefined values are left untouched.
func (t FrequencyCodingType) Multiplier() uint32 {
	switch t {
	case FrequencyCodingTypeSatellite, FrequencyCodingTypeTerrestrial:
		return 10
	case FrequencyCodingTypeCable:
		return 100
	}
	return 1
}

// DescriptorFrequencyList represents a frequency list descriptor
// Chapter: 6.2.17 | Link: https://www.etsi.org/deliver/etsi_en/300400_300499/300468/01.15.01_60/en_300468v011501p.pdf
type DescriptorFrequencyList struct {
	Header      DescriptorHeader
	Frequencies []uint32 // Already scaled, see FrequencyCodingType.Multiplier
	CodingType  FrequencyCodingType
	Reserved    uint8
}

func newDescriptorFrequencyList(d *Decoder, i *astikit.BytesIterator, h DescriptorHeader) (dd Descriptor, err error) {
	// Init
	f := &DescriptorFrequencyList{Header: h}
	dd = f

	if err = checkMinLength(d, i, h, 1); err != nil {
		return
	}

	// Get next byte
	var b byte
	if b, err = readUint8(i); err != nil {
		return
	}
	f.Reserved = b >> 2
	f.CodingType = FrequencyCodingType(b & 0x3)

	// Frequencies
	m := f.CodingType.Multiplier()
	f.Frequencies, err = decodeArray(d, i, h, "frequencies", countFromRemaining(d, i, h, "frequencies", 4), 4, func(bs []byte) uint32 {
		return binary.BigEndian.Uint32(bs) * m
	})
	return
}

func (f *DescriptorFrequencyList) header() *DescriptorHeader { return &f.Header }

func (f *DescriptorFrequencyList) Release() {
	f.Frequencies = nil
}

func (f *DescriptorFrequencyList) describe(p *printer) {
	p.field("coding type", f.CodingType)
	p.field("reserved", f.Reserved)
	for idx, v := range f.Frequencies {
		p.indexed("frequency", idx, v)
	}
}
