package dvbdesc

import (
	"encoding/binary"
	"time"

	"github.com/asticode/go-astikit"
)

// DescriptorCA represents a conditional access descriptor
// Chapter: 2.6.16 | Link: https://www.itu.int/rec/T-REC-H.222.0
type DescriptorCA struct {
	Header      DescriptorHeader
	PrivateData []byte
	CAPID       uint16
	CASystemID  uint16
	Reserved    uint8
}

func newDescriptorCA(d *Decoder, i *astikit.BytesIterator, h DescriptorHeader) (dd Descriptor, err error) {
	// Init
	c := &DescriptorCA{Header: h}
	dd = c

	if err = checkMinLength(d, i, h, 4); err != nil {
		return
	}

	// CA system ID
	if c.CASystemID, err = readUint16(i); err != nil {
		return
	}

	// CA PID
	if c.CAPID, c.Reserved, err = readPID(i); err != nil {
		return
	}

	// Private data
	c.PrivateData, err = copyBytes(i, remaining(i))
	return
}

func (c *DescriptorCA) header() *DescriptorHeader { return &c.Header }

func (c *DescriptorCA) Release() {
	c.PrivateData = nil
}

func (c *DescriptorCA) describe(p *printer) {
	p.field("ca system id", c.CASystemID)
	p.field("ca pid", c.CAPID)
	if len(c.PrivateData) > 0 {
		p.bytes("private data", c.PrivateData)
	}
}

// DescriptorISO639LanguageAndAudioType represents an ISO639 language descriptor
// Chapter: 2.6.18 | Link: https://www.itu.int/rec/T-REC-H.222.0
type DescriptorISO639LanguageAndAudioType struct {
	Header DescriptorHeader
	Items  []DescriptorISO639LanguageAndAudioTypeItem
}

// DescriptorISO639LanguageAndAudioTypeItem represents an ISO639 language item
type DescriptorISO639LanguageAndAudioTypeItem struct {
	Language [3]byte
	Type     uint8
}

// Audio types
// Page: 683 | https://books.google.fr/books?id=6dgWB3-rChYC&printsec=frontcover&hl=fr
const (
	AudioTypeCleanEffects             = 0x1
	AudioTypeHearingImpaired          = 0x2
	AudioTypeVisualImpairedCommentary = 0x3
)

func newDescriptorISO639LanguageAndAudioType(d *Decoder, i *astikit.BytesIterator, h DescriptorHeader) (dd Descriptor, err error) {
	// Init
	l := &DescriptorISO639LanguageAndAudioType{Header: h}
	dd = l

	// Items
	l.Items, err = decodeArray(d, i, h, "languages", countFromRemaining(d, i, h, "languages", 4), 4, func(bs []byte) (it DescriptorISO639LanguageAndAudioTypeItem) {
		copy(it.Language[:], bs)
		it.Type = bs[3]
		return
	})
	return
}

func (l *DescriptorISO639LanguageAndAudioType) header() *DescriptorHeader { return &l.Header }

func (l *DescriptorISO639LanguageAndAudioType) Release() {
	l.Items = nil
}

func (l *DescriptorISO639LanguageAndAudioType) describe(p *printer) {
	for idx, it := range l.Items {
		p.item("language", idx, func() {
			p.text("code", it.Language[:])
			p.field("audio type", it.Type)
		})
	}
}

// DescriptorNetworkName represents a network name descriptor
// Chapter: 6.2.27 | Link: https://www.etsi.org/deliver/etsi_en/300400_300499/300468/01.15.01_60/en_300468v011501p.pdf
type DescriptorNetworkName struct {
	Header DescriptorHeader
	Name   []byte
}

func newDescriptorNetworkName(_ *Decoder, i *astikit.BytesIterator, h DescriptorHeader) (dd Descriptor, err error) {
	// Create descriptor
	n := &DescriptorNetworkName{Header: h}
	dd = n

	// Name
	n.Name, err = copyBytes(i, remaining(i))
	return
}

func (n *DescriptorNetworkName) header() *DescriptorHeader { return &n.Header }

func (n *DescriptorNetworkName) Release() {
	n.Name = nil
}

func (n *DescriptorNetworkName) describe(p *printer) {
	p.text("name", n.Name)
}

// DescriptorServiceList represents a service list descriptor
// Chapter: 6.2.35 | Link: https://www.etsi.org/deliver/etsi_en/300400_300499/300468/01.15.01_60/en_300468v011501p.pdf
type DescriptorServiceList struct {
	Header DescriptorHeader
	Items  []DescriptorServiceListItem
}

// DescriptorServiceListItem represents a service list item
type DescriptorServiceListItem struct {
	ServiceID   uint16
	ServiceType uint8
}

func newDescriptorServiceList(d *Decoder, i *astikit.BytesIterator, h DescriptorHeader) (dd Descriptor, err error) {
	// Init
	s := &DescriptorServiceList{Header: h}
	dd = s

	// Items
	s.Items, err = decodeArray(d, i, h, "services", countFromRemaining(d, i, h, "services", 3), 3, func(bs []byte) DescriptorServiceListItem {
		return DescriptorServiceListItem{
			ServiceID:   binary.BigEndian.Uint16(bs),
			ServiceType: bs[2],
		}
	})
	return
}

func (s *DescriptorServiceList) header() *DescriptorHeader { return &s.Header }

func (s *DescriptorServiceList) Release() {
	s.Items = nil
}

func (s *DescriptorServiceList) describe(p *printer) {
	for idx, it := range s.Items {
		p.item("service", idx, func() {
			p.field("service id", it.ServiceID)
			p.field("service type", it.ServiceType)
		})
	}
}

// Service types
// Chapter: 6.2.33 | Link: https://www.etsi.org/deliver/etsi_en/300400_300499/300468/01.15.01_60/en_300468v011501p.pdf
const (
	ServiceTypeDigitalTelevisionService = 0x1
	ServiceTypeDigitalRadioSoundService = 0x2
)

// DescriptorService represents a service descriptor
// Chapter: 6.2.33 | Link: https://www.etsi.org/deliver/etsi_en/300400_300499/300468/01.15.01_60/en_300468v011501p.pdf
type DescriptorService struct {
	Header   DescriptorHeader
	Name     []byte
	Provider []byte
	Type     uint8
}

func newDescriptorService(d *Decoder, i *astikit.BytesIterator, h DescriptorHeader) (dd Descriptor, err error) {
	// Init
	s := &DescriptorService{Header: h}
	dd = s

	if err = checkMinLength(d, i, h, 3); err != nil {
		return
	}

	// Type
	if s.Type, err = readUint8(i); err != nil {
		return
	}

	// Provider
	if s.Provider, err = copyPrefixed(d, i, h, "provider"); err != nil {
		return
	}

	// Name
	s.Name, err = copyPrefixed(d, i, h, "name")
	return
}

func (s *DescriptorService) header() *DescriptorHeader { return &s.Header }

func (s *DescriptorService) Release() {
	s.Name = nil
	s.Provider = nil
}

func (s *DescriptorService) describe(p *printer) {
	p.field("service type", s.Type)
	p.text("provider", s.Provider)
	p.text("name", s.Name)
}

// DescriptorStreamIdentifier represents a stream identifier descriptor
// Chapter: 6.2.39 | Link: https://www.etsi.org/deliver/etsi_en/300400_300499/300468/01.15.01_60/en_300468v011501p.pdf
type DescriptorStreamIdentifier struct {
	Header       DescriptorHeader
	ComponentTag uint8
}

func newDescriptorStreamIdentifier(d *Decoder, i *astikit.BytesIterator, h DescriptorHeader) (dd Descriptor, err error) {
	s := &DescriptorStreamIdentifier{Header: h}
	dd = s
	if err = checkMinLength(d, i, h, 1); err != nil {
		return
	}
	s.ComponentTag, err = readUint8(i)
	return
}

func (s *DescriptorStreamIdentifier) header() *DescriptorHeader { return &s.Header }

func (s *DescriptorStreamIdentifier) Release() {}

func (s *DescriptorStreamIdentifier) describe(p *printer) {
	p.field("component tag", s.ComponentTag)
}

// DescriptorLocalTimeOffset represents a local time offset descriptor
// Chapter: 6.2.20 | Link: https://www.etsi.org/deliver/etsi_en/300400_300499/300468/01.15.01_60/en_300468v011501p.pdf
type DescriptorLocalTimeOffset struct {
	Header DescriptorHeader
	Items  []DescriptorLocalTimeOffsetItem
}

// DescriptorLocalTimeOffsetItem represents a local time offset item descriptor
// Chapter: 6.2.20 | Link: https://www.etsi.org/deliver/etsi_en/300400_300499/300468/01.15.01_60/en_300468v011501p.pdf
type DescriptorLocalTimeOffsetItem struct {
	LocalTimeOffset         time.Duration
	NextTimeOffset          time.Duration
	TimeOfChange            time.Time
	CountryCode             [3]byte
	CountryRegionID         uint8
	LocalTimeOffsetPolarity bool
}

func newDescriptorLocalTimeOffset(d *Decoder, i *astikit.BytesIterator, h DescriptorHeader) (dd Descriptor, err error) {
	// Init
	l := &DescriptorLocalTimeOffset{Header: h}
	dd = l

	// Items
	l.Items, err = decodeArray(d, i, h, "offsets", countFromRemaining(d, i, h, "offsets", 13), 13, func(bs []byte) (it DescriptorLocalTimeOffsetItem) {
		copy(it.CountryCode[:], bs)
		it.CountryRegionID = bs[3] >> 2
		it.LocalTimeOffsetPolarity = bs[3]&0x1 > 0
		it.LocalTimeOffset = parseDVBDurationMinutes(bs[4:6])
		it.TimeOfChange = parseDVBTime(bs[6:11])
		it.NextTimeOffset = parseDVBDurationMinutes(bs[11:13])
		return
	})
	return
}

func (l *DescriptorLocalTimeOffset) header() *DescriptorHeader { return &l.Header }

func (l *DescriptorLocalTimeOffset) Release() {
	l.Items = nil
}

func (l *DescriptorLocalTimeOffset) describe(p *printer) {
	for idx, it := range l.Items {
		p.item("offset", idx, func() {
			p.text("country code", it.CountryCode[:])
			p.field("country region id", it.CountryRegionID)
			p.flag("polarity", it.LocalTimeOffsetPolarity)
			p.field("local time offset", it.LocalTimeOffset)
			p.field("time of change", it.TimeOfChange.Format(time.RFC3339))
			p.field("next time offset", it.NextTimeOffset)
		})
	}
}

// DescriptorPrivateDataSpecifier represents a private data specifier descriptor
type DescriptorPrivateDataSpecifier struct {
	Header    DescriptorHeader
	Specifier uint32
}

func newDescriptorPrivateDataSpecifier(d *Decoder, i *astikit.BytesIterator, h DescriptorHeader) (dd Descriptor, err error) {
	s := &DescriptorPrivateDataSpecifier{Header: h}
	dd = s
	if err = checkMinLength(d, i, h, 4); err != nil {
		return
	}
	s.Specifier, err = readUint32(i)
	return
}

func (s *DescriptorPrivateDataSpecifier) header() *DescriptorHeader { return &s.Header }

func (s *DescriptorPrivateDataSpecifier) Release() {}

func (s *DescriptorPrivateDataSpecifier) describe(p *printer) {
	p.field("specifier", s.Specifier)
}

// DescriptorLogicalChannelNumber represents a logical channel number descriptor
// Chapter: 6.2.1 | Link: https://www.nordig.org/wp-content/uploads/2016/03/NorDig-Unified_ver_2.6.pdf
type DescriptorLogicalChannelNumber struct {
	Header DescriptorHeader
	Items  []DescriptorLogicalChannelNumberItem
}

// DescriptorLogicalChannelNumberItem represents a logical channel number item
type DescriptorLogicalChannelNumberItem struct {
	LogicalChannelNumber uint16
	ServiceID            uint16
	Reserved             uint8
	VisibleServiceFlag   bool
}

func newDescriptorLogicalChannelNumber(d *Decoder, i *astikit.BytesIterator, h DescriptorHeader) (dd Descriptor, err error) {
	// Init
	l := &DescriptorLogicalChannelNumber{Header: h}
	dd = l

	// Items
	l.Items, err = decodeArray(d, i, h, "channels", countFromRemaining(d, i, h, "channels", 4), 4, func(bs []byte) DescriptorLogicalChannelNumberItem {
		v := binary.BigEndian.Uint16(bs[2:])
		return DescriptorLogicalChannelNumberItem{
			ServiceID:            binary.BigEndian.Uint16(bs),
			VisibleServiceFlag:   v&0x8000 > 0,
			Reserved:             uint8(v>>10) & 0x1f,
			LogicalChannelNumber: v & 0x3ff,
		}
	})
	return
}

func (l *DescriptorLogicalChannelNumber) header() *DescriptorHeader { return &l.Header }

func (l *DescriptorLogicalChannelNumber) Release() {
	l.Items = nil
}

func (l *DescriptorLogicalChannelNumber) describe(p *printer) {
	for idx, it := range l.Items {
		p.item("channel", idx, func() {
			p.field("service id", it.ServiceID)
			p.flag("visible", it.VisibleServiceFlag)
			p.field("logical channel number", it.LogicalChannelNumber)
		})
	}
}
