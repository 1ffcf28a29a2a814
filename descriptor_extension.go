package dvbdesc

import (
	"fmt"

	"github.com/asticode/go-astikit"
	"go.uber.org/zap"
)

type DescriptorExtensionTag uint8

// Descriptor extension tags
// Chapter: 6.3 | Link: https://www.etsi.org/deliver/etsi_en/300400_300499/300468/01.15.01_60/en_300468v011501p.pdf
const (
	DescriptorExtensionTagC2Delivery         DescriptorExtensionTag = 0x0d
	DescriptorExtensionTagSupplementaryAudio DescriptorExtensionTag = 0x06
	DescriptorExtensionTagT2Delivery         DescriptorExtensionTag = 0x04
)

// extensionParser parses an extension body. The iterator starts right after the extension tag and h carries the
// outer descriptor header, so the body is h.Length-1 bytes long at most.
// A parser always returns a non nil body, even on error.
type extensionParser func(d *Decoder, i *astikit.BytesIterator, h DescriptorHeader) (ExtensionBody, error)

type extensionHandler struct {
	name  string
	parse extensionParser
}

var extensionHandlers = [256]extensionHandler{
	DescriptorExtensionTagC2Delivery:         {name: "c2_delivery_system", parse: newDescriptorExtensionC2Delivery},
	DescriptorExtensionTagSupplementaryAudio: {name: "supplementary_audio", parse: newDescriptorExtensionSupplementaryAudio},
	DescriptorExtensionTagT2Delivery:         {name: "t2_delivery_system", parse: newDescriptorExtensionT2Delivery},
}

func (t DescriptorExtensionTag) String() string {
	if n := extensionHandlers[t].name; n != "" {
		return n
	}
	return fmt.Sprintf("0x%02x", uint8(t))
}

// ExtensionBody is implemented by every decoded extension body
type ExtensionBody interface {
	Release()

	describe(p *printer)
}

// DescriptorExtension represents an extension descriptor
// Body is nil when no decoder is registered for Tag, in which case Unknown holds the raw body.
// Chapter: 6.2.16 | Link: https://www.etsi.org/deliver/etsi_en/300400_300499/300468/01.15.01_60/en_300468v011501p.pdf
type DescriptorExtension struct {
	Header  DescriptorHeader
	Body    ExtensionBody
	Unknown []byte
	Tag     DescriptorExtensionTag
}

func newDescriptorExtension(d *Decoder, i *astikit.BytesIterator, h DescriptorHeader) (dd Descriptor, err error) {
	// Create descriptor
	e := &DescriptorExtension{Header: h}
	dd = e

	if err = checkMinLength(d, i, h, 1); err != nil {
		return
	}

	// Get next byte
	var b byte
	if b, err = readUint8(i); err != nil {
		return
	}
	e.Tag = DescriptorExtensionTag(b)

	// Switch on tag
	hd := extensionHandlers[e.Tag]
	if hd.parse == nil {
		d.l.Debug("no extension decoder registered, keeping raw body", zap.Stringer("extension_tag", e.Tag))
		e.Header.Status = DecodeStatusRaw
		e.Unknown, err = copyBytes(i, remaining(i))
		return
	}
	if e.Body, err = hd.parse(d, i, h); err != nil {
		err = fmt.Errorf("dvbdesc: decoding %s extension failed: %w", e.Tag, err)
	}
	return
}

func (e *DescriptorExtension) header() *DescriptorHeader { return &e.Header }

func (e *DescriptorExtension) Release() {
	if e.Body != nil {
		e.Body.Release()
	}
	e.Unknown = nil
}

func (e *DescriptorExtension) describe(p *printer) {
	p.field("extension", fmt.Sprintf("%s (0x%02x)", e.Tag, uint8(e.Tag)))
	if e.Body != nil {
		e.Body.describe(p)
		return
	}
	p.bytes("content", e.Unknown)
}

// DescriptorExtensionSupplementaryAudio represents a supplementary audio extension descriptor
// Chapter: 6.4.10 | Link: https://www.etsi.org/deliver/etsi_en/300400_300499/300468/01.15.01_60/en_300468v011501p.pdf
type DescriptorExtensionSupplementaryAudio struct {
	LanguageCode            [3]byte
	PrivateData             []byte
	EditorialClassification uint8
	HasLanguageCode         bool
	MixType                 bool
}

func newDescriptorExtensionSupplementaryAudio(d *Decoder, i *astikit.BytesIterator, h DescriptorHeader) (eb ExtensionBody, err error) {
	// Init
	a := &DescriptorExtensionSupplementaryAudio{}
	eb = a

	if err = checkMinLength(d, i, h, 1); err != nil {
		return
	}

	// Get next byte
	var b byte
	if b, err = readUint8(i); err != nil {
		return
	}
	a.EditorialClassification = b >> 2 & 0x1f
	a.HasLanguageCode = b&0x1 > 0
	a.MixType = b&0x80 > 0

	// Language code
	if a.HasLanguageCode {
		if err = checkMinLength(d, i, h, 3); err != nil {
			return
		}
		var bs []byte
		if bs, err = nextBytes(i, 3); err != nil {
			return
		}
		copy(a.LanguageCode[:], bs)
	}

	// Private data
	a.PrivateData, err = copyBytes(i, remaining(i))
	return
}

func (a *DescriptorExtensionSupplementaryAudio) Release() {
	a.PrivateData = nil
}

func (a *DescriptorExtensionSupplementaryAudio) describe(p *printer) {
	p.flag("mix type", a.MixType)
	p.field("editorial classification", a.EditorialClassification)
	if a.HasLanguageCode {
		p.text("language code", a.LanguageCode[:])
	}
	if len(a.PrivateData) > 0 {
		p.bytes("private data", a.PrivateData)
	}
}

// DescriptorExtensionC2Delivery represents a C2 delivery system extension descriptor
// Chapter: 6.4.6.1 | Link: https://www.etsi.org/deliver/etsi_en/300400_300499/300468/01.15.01_60/en_300468v011501p.pdf
type DescriptorExtensionC2Delivery struct {
	TuningFrequency          uint32 // Hz
	ActiveOFDMSymbolDuration uint8
	DataSliceID              uint8
	GuardInterval            uint8
	PLPID                    uint8
	TuningFrequencyType      uint8
}

func newDescriptorExtensionC2Delivery(d *Decoder, i *astikit.BytesIterator, h DescriptorHeader) (eb ExtensionBody, err error) {
	// Init
	c := &DescriptorExtensionC2Delivery{}
	eb = c

	if err = checkMinLength(d, i, h, 7); err != nil {
		return
	}

	// Get next bytes
	var bs []byte
	if bs, err = nextBytes(i, 2); err != nil {
		return
	}
	c.PLPID = bs[0]
	c.DataSliceID = bs[1]

	// Tuning frequency
	if c.TuningFrequency, err = readUint32(i); err != nil {
		return
	}

	// Get next byte
	var b byte
	if b, err = readUint8(i); err != nil {
		return
	}
	c.TuningFrequencyType = b >> 6
	c.ActiveOFDMSymbolDuration = b >> 3 & 0x7
	c.GuardInterval = b & 0x7
	return
}

func (c *DescriptorExtensionC2Delivery) Release() {}

func (c *DescriptorExtensionC2Delivery) describe(p *printer) {
	p.field("plp id", c.PLPID)
	p.field("data slice id", c.DataSliceID)
	p.field("tuning frequency", c.TuningFrequency)
	p.field("tuning frequency type", c.TuningFrequencyType)
	p.field("active OFDM symbol duration", c.ActiveOFDMSymbolDuration)
	p.field("guard interval", c.GuardInterval)
}
