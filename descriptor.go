package dvbdesc

import (
	"fmt"

	"github.com/asticode/go-astikit"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type DescriptorTag uint8

// Descriptor tags
// Chapter: 6.1 | Link: https://www.etsi.org/deliver/etsi_en/300400_300499/300468/01.15.01_60/en_300468v011501p.pdf
// ATSC: A/65 Table 6.25
const (
	DescriptorTagATSCServiceLocation        DescriptorTag = 0xa1
	DescriptorTagCA                         DescriptorTag = 0x09
	DescriptorTagCableDelivery              DescriptorTag = 0x44
	DescriptorTagExtension                  DescriptorTag = 0x7f
	DescriptorTagFrequencyList              DescriptorTag = 0x62
	DescriptorTagISO639LanguageAndAudioType DescriptorTag = 0x0a
	DescriptorTagLocalTimeOffset            DescriptorTag = 0x58
	DescriptorTagLogicalChannelNumber       DescriptorTag = 0x83
	DescriptorTagNetworkName                DescriptorTag = 0x40
	DescriptorTagPrivateDataSpecifier       DescriptorTag = 0x5f
	DescriptorTagSatelliteDelivery          DescriptorTag = 0x43
	DescriptorTagService                    DescriptorTag = 0x48
	DescriptorTagServiceList                DescriptorTag = 0x41
	DescriptorTagStreamIdentifier           DescriptorTag = 0x52
	DescriptorTagTerrestrialDelivery        DescriptorTag = 0x5a
)

// descriptorParser parses the payload of a descriptor whose tag and length have already been consumed.
// The iterator is bounded to the declared length. A parser always returns a non nil descriptor, even on error.
type descriptorParser func(d *Decoder, i *astikit.BytesIterator, h DescriptorHeader) (Descriptor, error)

type descriptorHandler struct {
	name  string
	parse descriptorParser
}

var descriptorHandlers = [256]descriptorHandler{
	DescriptorTagATSCServiceLocation:        {name: "atsc_service_location", parse: newDescriptorATSCServiceLocation},
	DescriptorTagCA:                         {name: "ca", parse: newDescriptorCA},
	DescriptorTagCableDelivery:              {name: "cable_delivery_system", parse: newDescriptorCableDelivery},
	DescriptorTagExtension:                  {name: "extension", parse: newDescriptorExtension},
	DescriptorTagFrequencyList:              {name: "frequency_list", parse: newDescriptorFrequencyList},
	DescriptorTagISO639LanguageAndAudioType: {name: "iso639_language", parse: newDescriptorISO639LanguageAndAudioType},
	DescriptorTagLocalTimeOffset:            {name: "local_time_offset", parse: newDescriptorLocalTimeOffset},
	DescriptorTagLogicalChannelNumber:       {name: "logical_channel_number", parse: newDescriptorLogicalChannelNumber},
	DescriptorTagNetworkName:                {name: "network_name", parse: newDescriptorNetworkName},
	DescriptorTagPrivateDataSpecifier:       {name: "private_data_specifier", parse: newDescriptorPrivateDataSpecifier},
	DescriptorTagSatelliteDelivery:          {name: "satellite_delivery_system", parse: newDescriptorSatelliteDelivery},
	DescriptorTagService:                    {name: "service", parse: newDescriptorService},
	DescriptorTagServiceList:                {name: "service_list", parse: newDescriptorServiceList},
	DescriptorTagStreamIdentifier:           {name: "stream_identifier", parse: newDescriptorStreamIdentifier},
	DescriptorTagTerrestrialDelivery:        {name: "terrestrial_delivery_system", parse: newDescriptorTerrestrialDelivery},
}

func init() {
	for i := range descriptorHandlers {
		if descriptorHandlers[i].parse == nil {
			descriptorHandlers[i].parse = newDescriptorUnknown
		}
	}
}

// String returns the descriptor name, or its hex value when no decoder is registered for it
func (t DescriptorTag) String() string {
	if n := descriptorHandlers[t].name; n != "" {
		return n
	}
	return fmt.Sprintf("0x%02x", uint8(t))
}

// DecodeStatus tells how far the decoding of a descriptor went
type DecodeStatus uint8

const (
	// DecodeStatusComplete means every field has been decoded
	DecodeStatusComplete DecodeStatus = iota
	// DecodeStatusPartial means decoding stopped early. Fields after the failure point are zeroed and the
	// descriptor must not be treated as valid, though it can still be inspected and released.
	DecodeStatusPartial
	// DecodeStatusRaw means the tag is unknown and only the raw payload is available
	DecodeStatusRaw
)

func (s DecodeStatus) String() string {
	switch s {
	case DecodeStatusComplete:
		return "complete"
	case DecodeStatusPartial:
		return "partial"
	case DecodeStatusRaw:
		return "raw"
	}
	return fmt.Sprintf("DecodeStatus(%d)", uint8(s))
}

// DescriptorHeader represents the envelope shared by all descriptors
type DescriptorHeader struct {
	Tag    DescriptorTag // the tag defines the structure of the contained data following the descriptor length.
	Length uint8         // payload length as declared on the wire, tag and length bytes excluded
	Status DecodeStatus
}

// Descriptor is implemented by every decoded descriptor type.
// Use a type switch on *DescriptorXXX to access typed fields.
type Descriptor interface {
	// Release drops every nested array owned by the descriptor. It's safe on partially decoded descriptors and
	// when called more than once.
	Release()

	describe(p *printer)
	header() *DescriptorHeader
}

// HeaderOf returns the header of a descriptor
func HeaderOf(d Descriptor) DescriptorHeader {
	return *d.header()
}

// DecodeDescriptor decodes a single descriptor whose tag and length have already been read by the caller.
// Only the first length bytes of payload are read even if payload is longer.
// The returned descriptor is never nil: on error its status is DecodeStatusPartial.
func (d *Decoder) DecodeDescriptor(tag DescriptorTag, length uint8, payload []byte) (o Descriptor, err error) {
	h := DescriptorHeader{
		Tag:    tag,
		Length: length,
	}

	// Bound payload to the declared length
	var short bool
	if len(payload) > int(length) {
		payload = payload[:length]
	} else if len(payload) < int(length) {
		short = true
		d.l.Warn("descriptor payload is shorter than its declared length",
			zap.Stringer("tag", tag),
			zap.Int("length", int(length)),
			zap.Int("available", len(payload)),
		)
	}

	// Parse
	if o, err = descriptorHandlers[tag].parse(d, astikit.NewBytesIterator(payload), h); err == nil && short {
		err = fmt.Errorf("dvbdesc: %d bytes declared, %d available: %w", length, len(payload), ErrTruncatedDescriptor)
	}

	if err != nil {
		o.header().Status = DecodeStatusPartial
		err = fmt.Errorf("dvbdesc: decoding %s descriptor failed: %w", tag, err)
	}
	return
}

// DecodeDescriptors decodes a run of descriptors laid out back to back.
// A descriptor failing to decode never prevents its siblings from being decoded: its error is appended to the
// returned error and the loop resumes at the declared end of the descriptor. The loop only stops early when the
// tag and length of a descriptor can't be read. The returned list is never nil.
func (d *Decoder) DecodeDescriptors(bs []byte) (l *DescriptorList, err error) {
	l = &DescriptorList{}
	i := astikit.NewBytesIterator(bs)
	for idx := 0; i.HasBytesLeft(); idx++ {
		// Get next 2 bytes
		hb, errNext := i.NextBytesNoCopy(2)
		if errNext != nil || len(hb) < 2 {
			d.l.Warn("descriptor loop ends with a dangling byte", zap.Int("index", idx))
			err = multierr.Append(err, fmt.Errorf("dvbdesc: fetching descriptor %d header failed: %w", idx, ErrTruncatedDescriptor))
			break
		}

		// Payload
		tag, length := DescriptorTag(hb[0]), int(hb[1])
		offsetStart := i.Offset()
		offsetEnd := offsetStart + length
		if offsetEnd > len(bs) {
			offsetEnd = len(bs)
		}

		o, errDecode := d.DecodeDescriptor(tag, uint8(length), bs[offsetStart:offsetEnd])
		if errDecode != nil {
			err = multierr.Append(err, fmt.Errorf("dvbdesc: descriptor %d: %w", idx, errDecode))
		}
		l.append(o)

		// Seek to the end of the descriptor since its content may be corrupted
		i.Seek(offsetEnd)
	}
	return
}

// DecodeDescriptorLoop decodes a descriptor loop prefixed with 4 reserved bits and a 12 bits loop length, as found
// in NIT, SDT or PMT sections. It returns the number of bytes consumed, loop length included.
func (d *Decoder) DecodeDescriptorLoop(bs []byte) (l *DescriptorList, n int, err error) {
	i := astikit.NewBytesIterator(bs)
	l, err = d.decodeDescriptorLoop(i)
	n = i.Offset()
	return
}

func (d *Decoder) decodeDescriptorLoop(i *astikit.BytesIterator) (l *DescriptorList, err error) {
	// Get next 2 bytes
	var v uint16
	if v, err = readUint16(i); err != nil {
		l = &DescriptorList{}
		return
	}

	// Get loop bytes
	length := int(v & 0xfff)
	var errLength error
	if left := remaining(i); length > left {
		d.l.Warn("descriptor loop overruns its buffer",
			zap.Int("length", length),
			zap.Int("left", left),
		)
		errLength = fmt.Errorf("dvbdesc: descriptor loop needs %d bytes but only %d are left: %w", length, left, ErrTruncatedDescriptor)
		length = left
	}
	var bs []byte
	if bs, err = nextBytes(i, length); err != nil {
		l = &DescriptorList{}
		return
	}
	l, err = d.DecodeDescriptors(bs)
	err = multierr.Append(errLength, err)
	return
}

// checkMinLength makes sure there are at least n bytes left to decode
func checkMinLength(d *Decoder, i *astikit.BytesIterator, h DescriptorHeader, n int) error {
	if left := remaining(i); left < n {
		d.l.Warn("descriptor is too short",
			zap.Stringer("tag", h.Tag),
			zap.Int("length", left),
			zap.Int("min", n),
		)
		return fmt.Errorf("dvbdesc: %d bytes needed, %d available: %w", n, left, ErrTruncatedDescriptor)
	}
	return nil
}

// DescriptorUnknown holds the raw payload of a descriptor no decoder is registered for
type DescriptorUnknown struct {
	Header  DescriptorHeader
	Content []byte
}

func newDescriptorUnknown(d *Decoder, i *astikit.BytesIterator, h DescriptorHeader) (dd Descriptor, err error) {
	// Create descriptor
	h.Status = DecodeStatusRaw
	u := &DescriptorUnknown{Header: h}
	dd = u

	d.l.Debug("no decoder registered, keeping raw payload", zap.Stringer("tag", h.Tag))

	// Content
	u.Content, err = copyBytes(i, remaining(i))
	return
}

func (u *DescriptorUnknown) header() *DescriptorHeader { return &u.Header }

func (u *DescriptorUnknown) Release() {
	u.Content = nil
}

func (u *DescriptorUnknown) describe(p *printer) {
	p.bytes("content", u.Content)
}
