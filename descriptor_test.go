package dvbdesc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/multierr"
)

func TestDescriptorTagString(t *testing.T) {
	assert.Equal(t, "frequency_list", DescriptorTagFrequencyList.String())
	assert.Equal(t, "atsc_service_location", DescriptorTagATSCServiceLocation.String())
	assert.Equal(t, "0xfe", DescriptorTag(0xfe).String())
	assert.Equal(t, "partial", DecodeStatusPartial.String())
}

func TestDescriptorUnknown(t *testing.T) {
	d, logs := newTestDecoder()
	payload := []byte{0x1, 0x2, 0x3}
	o, err := d.DecodeDescriptor(0xfe, 3, payload)
	assert.NoError(t, err)
	assert.Equal(t, DescriptorHeader{Tag: 0xfe, Length: 3, Status: DecodeStatusRaw}, HeaderOf(o))
	u := o.(*DescriptorUnknown)
	payload[0] = 0xff
	assert.Equal(t, []byte{0x1, 0x2, 0x3}, u.Content)
	assert.Equal(t, 0, logs.Len())

	// Empty
	o, err = d.DecodeDescriptor(0xfe, 0, nil)
	assert.NoError(t, err)
	assert.Nil(t, o.(*DescriptorUnknown).Content)
}

func TestDecodeDescriptorBounds(t *testing.T) {
	d, logs := newTestDecoder()

	// Longer payload
	o, err := d.DecodeDescriptor(DescriptorTagNetworkName, 3, []byte("abcdef"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("abc"), o.(*DescriptorNetworkName).Name)

	// Exact payload
	o, err = d.DecodeDescriptor(DescriptorTagStreamIdentifier, 1, []byte{0x7})
	assert.NoError(t, err)
	assert.Equal(t, uint8(0x7), o.(*DescriptorStreamIdentifier).ComponentTag)
	assert.Equal(t, 0, logs.Len())

	// Shorter payload
	o, err = d.DecodeDescriptor(DescriptorTagNetworkName, 5, []byte("abc"))
	assert.ErrorIs(t, err, ErrTruncatedDescriptor)
	assert.Equal(t, DecodeStatusPartial, HeaderOf(o).Status)
	assert.Equal(t, []byte("abc"), o.(*DescriptorNetworkName).Name)
	assert.Equal(t, 1, logs.FilterMessageSnippet("shorter than its declared length").Len())
}

func TestDecodeDescriptors(t *testing.T) {
	d, _ := newTestDecoder()

	// Corrupted descriptor followed by a valid one
	l, err := d.DecodeDescriptors([]byte{
		0xa1, 0x4, 0xe1, 0x01, 0x5, 0x0, // service location announcing 5 elements
		0x52, 0x1, 0x7, // stream identifier
	})
	assert.Error(t, err)
	assert.Len(t, multierr.Errors(err), 1)
	assert.ErrorIs(t, err, ErrTruncatedDescriptor)
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, DecodeStatusPartial, HeaderOf(l.At(0)).Status)
	assert.Equal(t, DecodeStatusComplete, HeaderOf(l.At(1)).Status)
	assert.Equal(t, uint8(0x7), l.At(1).(*DescriptorStreamIdentifier).ComponentTag)

	// Unknown descriptors are kept
	l, err = d.DecodeDescriptors([]byte{0xfe, 0x1, 0xaa, 0x52, 0x1, 0x7})
	assert.NoError(t, err)
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, DecodeStatusRaw, HeaderOf(l.At(0)).Status)

	// Dangling byte
	l, err = d.DecodeDescriptors([]byte{0x52, 0x1, 0x7, 0x52})
	assert.ErrorIs(t, err, ErrTruncatedDescriptor)
	assert.Equal(t, 1, l.Len())

	// Length overruns the buffer
	l, err = d.DecodeDescriptors([]byte{0x52, 0x1, 0x7, 0x40, 0xa, 'a', 'b'})
	assert.ErrorIs(t, err, ErrTruncatedDescriptor)
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, []byte("ab"), l.At(1).(*DescriptorNetworkName).Name)
	assert.Equal(t, DecodeStatusPartial, HeaderOf(l.At(1)).Status)

	// Empty
	l, err = d.DecodeDescriptors(nil)
	assert.NoError(t, err)
	assert.NotNil(t, l)
	assert.Equal(t, 0, l.Len())
}

func TestDecodeDescriptorLoop(t *testing.T) {
	d, _ := newTestDecoder()
	l, n, err := d.DecodeDescriptorLoop([]byte{0xf0, 0x3, 0x52, 0x1, 0x7, 0xaa})
	assert.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, 1, l.Len())

	// Loop length overruns the buffer
	l, n, err = d.DecodeDescriptorLoop([]byte{0xf0, 0x9, 0x52, 0x1, 0x7})
	assert.ErrorIs(t, err, ErrTruncatedDescriptor)
	assert.Equal(t, 5, n)
	assert.Equal(t, 1, l.Len())

	// Missing loop length
	l, _, err = d.DecodeDescriptorLoop([]byte{0xf0})
	assert.ErrorIs(t, err, ErrTruncatedDescriptor)
	assert.Equal(t, 0, l.Len())
}

func TestDescriptorRelease(t *testing.T) {
	d, _ := newTestDecoder()
	l, err := d.DecodeDescriptors([]byte{
		0x62, 0x5, 0x3, 0x0, 0x0, 0x0, 0x64,
		0xa1, 0x4, 0xe1, 0x01, 0x5, 0x0,
	})
	assert.Error(t, err)
	fl := l.FrequencyLists()[0]
	assert.Len(t, fl.Frequencies, 1)

	l.Release()
	assert.Equal(t, 0, l.Len())
	assert.Nil(t, fl.Frequencies)
	l.Release()
	assert.Equal(t, 0, l.Len())
}
