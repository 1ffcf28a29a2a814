package dvbdesc

import (
	"encoding/binary"
	"fmt"

	"github.com/asticode/go-astikit"
	"go.uber.org/zap"
)

// T2 bandwidths in Hz, indexed by the 4 bits bandwidth field. Reserved values are 0.
var t2Bandwidths = [16]uint32{
	0: 8000000,
	1: 7000000,
	2: 6000000,
	3: 5000000,
	4: 10000000,
	5: 1712000,
}

// T2 guard intervals, indexed by the 3 bits guard interval field
var t2GuardIntervals = [8]string{
	0: "1/32",
	1: "1/16",
	2: "1/8",
	3: "1/4",
	4: "1/128",
	5: "19/128",
	6: "19/256",
	7: "auto",
}

// T2 transmission modes, indexed by the 3 bits transmission mode field
var t2TransmissionModes = [8]string{
	0: "2k",
	1: "8k",
	2: "4k",
	3: "1k",
	4: "16k",
	5: "32k",
	6: "auto",
	7: "auto",
}

// DescriptorExtensionT2Delivery represents a T2 delivery system extension descriptor.
// Fields after T2SystemID are only set when HasExtendedBody is true.
// Chapter: 6.4.6.3 | Link: https://www.etsi.org/deliver/etsi_en/300400_300499/300468/01.15.01_60/en_300468v011501p.pdf
type DescriptorExtensionT2Delivery struct {
	CentreFrequencies  []uint32
	Subcells           []T2DeliverySubcell
	T2SystemID         uint16
	Bandwidth          uint8
	GuardInterval      uint8
	HasExtendedBody    bool
	OtherFrequencyFlag bool
	PLPID              uint8
	Reserved           uint8
	SISOMISO           uint8
	TFSFlag            bool
	TransmissionMode   uint8
}

// T2DeliverySubcell represents a T2 delivery subcell
type T2DeliverySubcell struct {
	TransposerFrequency uint32
	CellIDExtension     uint8
}

func newDescriptorExtensionT2Delivery(d *Decoder, i *astikit.BytesIterator, h DescriptorHeader) (eb ExtensionBody, err error) {
	// Init
	t := &DescriptorExtensionT2Delivery{}
	eb = t

	if err = checkMinLength(d, i, h, 3); err != nil {
		return
	}

	// Get next byte
	if t.PLPID, err = readUint8(i); err != nil {
		return
	}

	// T2 system ID
	if t.T2SystemID, err = readUint16(i); err != nil {
		return
	}

	// The extended body is optional
	if left := remaining(i); left < 2 {
		d.l.Warn("t2 delivery descriptor is truncated, extended body is missing",
			zap.Stringer("tag", h.Tag),
			zap.Int("length", int(h.Length)),
		)
		if left > 0 {
			err = fmt.Errorf("dvbdesc: %d dangling bytes after t2 delivery header: %w", left, ErrTruncatedDescriptor)
		}
		return
	}

	// Get next bytes
	var v uint16
	if v, err = readUint16(i); err != nil {
		return
	}
	t.HasExtendedBody = true
	t.SISOMISO = uint8(v >> 14)
	t.Bandwidth = uint8(v>>10) & 0xf
	t.Reserved = uint8(v>>8) & 0x3
	t.GuardInterval = uint8(v>>5) & 0x7
	t.TransmissionMode = uint8(v>>2) & 0x7
	t.OtherFrequencyFlag = v&0x2 > 0
	t.TFSFlag = v&0x1 > 0

	// Centre frequencies: a single one unless TFS is off, in which case a count byte precedes them
	count := 1
	if !t.TFSFlag {
		if count, err = countFromByte(d, i, h); err != nil {
			return
		}
	}
	if t.CentreFrequencies, err = decodeArray(d, i, h, "centre frequencies", count, 4, func(bs []byte) uint32 {
		return binary.BigEndian.Uint32(bs)
	}); err != nil {
		return
	}

	// Subcells
	if count, err = countFromByte(d, i, h); err != nil {
		return
	}
	t.Subcells, err = decodeArray(d, i, h, "subcells", count, 5, func(bs []byte) T2DeliverySubcell {
		return T2DeliverySubcell{
			CellIDExtension:     bs[0],
			TransposerFrequency: binary.BigEndian.Uint32(bs[1:]),
		}
	})
	return
}

// BandwidthHz returns the bandwidth in Hz, 0 when the value is reserved
func (t *DescriptorExtensionT2Delivery) BandwidthHz() uint32 {
	return t2Bandwidths[t.Bandwidth&0xf]
}

// GuardIntervalName returns the guard interval as a fraction
func (t *DescriptorExtensionT2Delivery) GuardIntervalName() string {
	return t2GuardIntervals[t.GuardInterval&0x7]
}

// TransmissionModeName returns the FFT size
func (t *DescriptorExtensionT2Delivery) TransmissionModeName() string {
	return t2TransmissionModes[t.TransmissionMode&0x7]
}

func (t *DescriptorExtensionT2Delivery) Release() {
	t.CentreFrequencies = nil
	t.Subcells = nil
}

func (t *DescriptorExtensionT2Delivery) describe(p *printer) {
	p.field("plp id", t.PLPID)
	p.field("system id", t.T2SystemID)
	if !t.HasExtendedBody {
		return
	}
	p.field("SISO/MISO", t.SISOMISO)
	p.field("bandwidth", fmt.Sprintf("%d (%d Hz)", t.Bandwidth, t.BandwidthHz()))
	p.field("reserved", t.Reserved)
	p.field("guard interval", fmt.Sprintf("%d (%s)", t.GuardInterval, t.GuardIntervalName()))
	p.field("transmission mode", fmt.Sprintf("%d (%s)", t.TransmissionMode, t.TransmissionModeName()))
	p.flag("other frequency flag", t.OtherFrequencyFlag)
	p.flag("tfs flag", t.TFSFlag)
	for idx, f := range t.CentreFrequencies {
		p.indexed("centre frequency", idx, f)
	}
	for idx, s := range t.Subcells {
		p.item("subcell", idx, func() {
			p.field("cell id extension", s.CellIDExtension)
			p.field("transposer frequency", s.TransposerFrequency)
		})
	}
}
