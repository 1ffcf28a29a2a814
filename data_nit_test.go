package dvbdesc

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

// nitSectionBytes wraps a NIT body with its section header and CRC32
func nitSectionBytes(tableID uint8, body []byte) []byte {
	l := len(body) + 4
	bs := append([]byte{tableID, 0xf0 | uint8(l>>8), uint8(l)}, body...)
	return binary.BigEndian.AppendUint32(bs, computeCRC32(bs))
}

func nitBody(transportDescriptors []byte) []byte {
	bs := []byte{
		0x12, 0x34, // network id
		0xcb,     // version 5, current
		0x0, 0x0, // section numbers
		0xf0, 0x5, 0x40, 0x3, 'n', 'e', 't',
	}
	ts := append([]byte{0x0, 0x1, 0x0, 0x2, 0xf0, uint8(len(transportDescriptors))}, transportDescriptors...)
	bs = append(bs, 0xf0, uint8(len(ts)))
	return append(bs, ts...)
}

func TestParseNITSection(t *testing.T) {
	d, _ := newTestDecoder()
	n, err := d.ParseNITSection(nitSectionBytes(uint8(PSITableIDNITVariant1), nitBody([]byte{0x41, 0x3, 0x01, 0x01, 0x1})))
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x1234), n.NetworkID)
	assert.Equal(t, PSITableIDNITVariant1, n.SectionHeader.TableID)
	assert.True(t, n.SectionHeader.SectionSyntaxIndicator)
	assert.Equal(t, PSISectionSyntaxHeader{
		CurrentNextIndicator: true,
		TableIDExtension:     0x1234,
		VersionNumber:        5,
	}, n.SyntaxHeader)
	assert.Equal(t, 1, n.NetworkDescriptors.Len())
	assert.Equal(t, []byte("net"), n.NetworkDescriptors.At(0).(*DescriptorNetworkName).Name)
	assert.Len(t, n.TransportStreams, 1)
	ts := n.TransportStreams[0]
	assert.Equal(t, uint16(0x1), ts.TransportStreamID)
	assert.Equal(t, uint16(0x2), ts.OriginalNetworkID)
	assert.Equal(t, []*DescriptorServiceList{{
		Header: DescriptorHeader{Tag: DescriptorTagServiceList, Length: 3},
		Items:  []DescriptorServiceListItem{{ServiceID: 0x0101, ServiceType: 0x1}},
	}}, DescriptorsOf[*DescriptorServiceList](ts.TransportDescriptors))

	n.Release()
	assert.Equal(t, 0, n.NetworkDescriptors.Len())
	assert.Nil(t, n.TransportStreams)
}

func TestParseNITSectionDescriptorErrors(t *testing.T) {
	d, _ := newTestDecoder()
	n, err := d.ParseNITSection(nitSectionBytes(uint8(PSITableIDNITVariant2), nitBody([]byte{0x43, 0x2, 0x1, 0x2, 0x52, 0x1, 0x7})))
	assert.ErrorIs(t, err, ErrTruncatedDescriptor)
	assert.NotNil(t, n)
	ts := n.TransportStreams[0]
	assert.Equal(t, 2, ts.TransportDescriptors.Len())
	assert.Equal(t, DecodeStatusPartial, HeaderOf(ts.TransportDescriptors.At(0)).Status)
	assert.Equal(t, DecodeStatusComplete, HeaderOf(ts.TransportDescriptors.At(1)).Status)
}

func TestParseNITSectionInvalid(t *testing.T) {
	d, _ := newTestDecoder()

	// Bad CRC32
	bs := nitSectionBytes(uint8(PSITableIDNITVariant1), nitBody(nil))
	bs[len(bs)-1] ^= 0xff
	n, err := d.ParseNITSection(bs)
	assert.ErrorIs(t, err, ErrPSISectionCRC32Mismatch)
	assert.Nil(t, n)

	// Not a NIT
	n, err = d.ParseNITSection(nitSectionBytes(0x42, nitBody(nil)))
	assert.ErrorIs(t, err, ErrPSIUnexpectedTableID)
	assert.Nil(t, n)

	// Section length overruns the buffer
	bs = nitSectionBytes(uint8(PSITableIDNITVariant1), nitBody(nil))
	n, err = d.ParseNITSection(bs[:len(bs)-2])
	assert.ErrorIs(t, err, ErrPSISectionTruncated)
	assert.NotErrorIs(t, err, ErrTruncatedDescriptor)
	assert.Nil(t, n)

	// Section too short for a syntax header
	n, err = d.ParseNITSection(nitSectionBytes(uint8(PSITableIDNITVariant1), []byte{0x12}))
	assert.ErrorIs(t, err, ErrPSISectionTruncated)
	assert.Nil(t, n)

	// Empty buffer
	n, err = d.ParseNITSection(nil)
	assert.ErrorIs(t, err, ErrPSISectionTruncated)
	assert.Nil(t, n)

	// Transport stream header is cut
	n, err = d.ParseNITSection(nitSectionBytes(uint8(PSITableIDNITVariant1), []byte{
		0x12, 0x34, 0xcb, 0x0, 0x0,
		0xf0, 0x0,
		0xf0, 0x2, 0x0, 0x1,
	}))
	assert.ErrorIs(t, err, ErrPSISectionTruncated)
	assert.Nil(t, n)
}
