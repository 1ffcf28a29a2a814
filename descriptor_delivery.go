package dvbdesc

import (
	"github.com/asticode/go-astikit"
)

// DescriptorSatelliteDelivery represents a satellite delivery system descriptor
// Chapter: 6.2.13.2 | Link: https://www.etsi.org/deliver/etsi_en/300400_300499/300468/01.15.01_60/en_300468v011501p.pdf
type DescriptorSatelliteDelivery struct {
	Header           DescriptorHeader
	Frequency        uint32 // kHz
	SymbolRate       uint32 // symbols/s
	OrbitalPosition  uint16 // tenths of degree
	FECInner         uint8
	ModulationSystem uint8
	ModulationType   uint8
	Polarization     uint8
	RollOff          uint8
	WestEastFlag     bool
}

func newDescriptorSatelliteDelivery(d *Decoder, i *astikit.BytesIterator, h DescriptorHeader) (dd Descriptor, err error) {
	// Init
	s := &DescriptorSatelliteDelivery{Header: h}
	dd = s

	if err = checkMinLength(d, i, h, 11); err != nil {
		return
	}

	// Get next bytes
	var bs []byte
	if bs, err = nextBytes(i, 11); err != nil {
		return
	}

	// Frequency is coded in 10 kHz units
	s.Frequency = parseBCD(bs[0:4]) * 10
	s.OrbitalPosition = uint16(parseBCD(bs[4:6]))

	// Flags
	s.WestEastFlag = bs[6]&0x80 > 0
	s.Polarization = bs[6] >> 5 & 0x3
	s.RollOff = bs[6] >> 3 & 0x3
	s.ModulationSystem = bs[6] >> 2 & 0x1
	s.ModulationType = bs[6] & 0x3

	// Symbol rate is coded on 7 digits in 100 symbols/s units
	s.SymbolRate = (parseBCD(bs[7:10])*10 + uint32(bs[10]>>4)) * 100
	s.FECInner = bs[10] & 0xf
	return
}

func (s *DescriptorSatelliteDelivery) header() *DescriptorHeader { return &s.Header }

func (s *DescriptorSatelliteDelivery) Release() {}

func (s *DescriptorSatelliteDelivery) describe(p *printer) {
	p.field("frequency", s.Frequency)
	p.field("orbital position", s.OrbitalPosition)
	p.flag("west east flag", s.WestEastFlag)
	p.field("polarization", s.Polarization)
	p.field("roll off", s.RollOff)
	p.field("modulation system", s.ModulationSystem)
	p.field("modulation type", s.ModulationType)
	p.field("symbol rate", s.SymbolRate)
	p.field("fec inner", s.FECInner)
}

// DescriptorCableDelivery represents a cable delivery system descriptor
// Chapter: 6.2.13.1 | Link: https://www.etsi.org/deliver/etsi_en/300400_300499/300468/01.15.01_60/en_300468v011501p.pdf
type DescriptorCableDelivery struct {
	Header     DescriptorHeader
	Frequency  uint32 // Hz
	SymbolRate uint32 // symbols/s
	FECInner   uint8
	FECOuter   uint8
	Modulation uint8
}

func newDescriptorCableDelivery(d *Decoder, i *astikit.BytesIterator, h DescriptorHeader) (dd Descriptor, err error) {
	// Init
	c := &DescriptorCableDelivery{Header: h}
	dd = c

	if err = checkMinLength(d, i, h, 11); err != nil {
		return
	}

	// Get next bytes
	var bs []byte
	if bs, err = nextBytes(i, 11); err != nil {
		return
	}

	// Frequency is coded in 100 Hz units
	c.Frequency = parseBCD(bs[0:4]) * 100
	c.FECOuter = bs[5] & 0xf
	c.Modulation = bs[6]

	// Symbol rate is coded on 7 digits in 100 symbols/s units
	c.SymbolRate = (parseBCD(bs[7:10])*10 + uint32(bs[10]>>4)) * 100
	c.FECInner = bs[10] & 0xf
	return
}

func (c *DescriptorCableDelivery) header() *DescriptorHeader { return &c.Header }

func (c *DescriptorCableDelivery) Release() {}

func (c *DescriptorCableDelivery) describe(p *printer) {
	p.field("frequency", c.Frequency)
	p.field("fec outer", c.FECOuter)
	p.field("modulation", c.Modulation)
	p.field("symbol rate", c.SymbolRate)
	p.field("fec inner", c.FECInner)
}

// DescriptorTerrestrialDelivery represents a terrestrial delivery system descriptor
// Chapter: 6.2.13.4 | Link: https://www.etsi.org/deliver/etsi_en/300400_300499/300468/01.15.01_60/en_300468v011501p.pdf
type DescriptorTerrestrialDelivery struct {
	Header               DescriptorHeader
	CentreFrequency      uint32 // Hz
	Bandwidth            uint8
	CodeRateHP           uint8
	CodeRateLP           uint8
	Constellation        uint8
	GuardInterval        uint8
	HierarchyInformation uint8
	MPEFECIndicator      bool
	OtherFrequencyFlag   bool
	Priority             bool
	TimeSlicingIndicator bool
	TransmissionMode     uint8
}

func newDescriptorTerrestrialDelivery(d *Decoder, i *astikit.BytesIterator, h DescriptorHeader) (dd Descriptor, err error) {
	// Init
	t := &DescriptorTerrestrialDelivery{Header: h}
	dd = t

	if err = checkMinLength(d, i, h, 7); err != nil {
		return
	}

	// Centre frequency is coded in 10 Hz units
	var f uint32
	if f, err = readUint32(i); err != nil {
		return
	}
	t.CentreFrequency = f * 10

	// Get next bytes
	var bs []byte
	if bs, err = nextBytes(i, 3); err != nil {
		return
	}
	t.Bandwidth = bs[0] >> 5
	t.Priority = bs[0]&0x10 > 0
	t.TimeSlicingIndicator = bs[0]&0x8 > 0
	t.MPEFECIndicator = bs[0]&0x4 > 0
	t.Constellation = bs[1] >> 6
	t.HierarchyInformation = bs[1] >> 3 & 0x7
	t.CodeRateHP = bs[1] & 0x7
	t.CodeRateLP = bs[2] >> 5
	t.GuardInterval = bs[2] >> 3 & 0x3
	t.TransmissionMode = bs[2] >> 1 & 0x3
	t.OtherFrequencyFlag = bs[2]&0x1 > 0

	// The last 4 bytes are reserved for future use
	return
}

func (t *DescriptorTerrestrialDelivery) header() *DescriptorHeader { return &t.Header }

func (t *DescriptorTerrestrialDelivery) Release() {}

func (t *DescriptorTerrestrialDelivery) describe(p *printer) {
	p.field("centre frequency", t.CentreFrequency)
	p.field("bandwidth", t.Bandwidth)
	p.flag("priority", t.Priority)
	p.flag("time slicing indicator", t.TimeSlicingIndicator)
	p.flag("MPE-FEC indicator", t.MPEFECIndicator)
	p.field("constellation", t.Constellation)
	p.field("hierarchy information", t.HierarchyInformation)
	p.field("code rate HP", t.CodeRateHP)
	p.field("code rate LP", t.CodeRateLP)
	p.field("guard interval", t.GuardInterval)
	p.field("transmission mode", t.TransmissionMode)
	p.flag("other frequency flag", t.OtherFrequencyFlag)
}
