package dvbdesc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescriptorFrequencyList(t *testing.T) {
	d, logs := newTestDecoder()

	// Terrestrial
	o, err := d.DecodeDescriptor(DescriptorTagFrequencyList, 9, []byte{0xff, 0x0, 0x0, 0x0, 0x64, 0x0, 0x0, 0x0, 0xc8})
	assert.NoError(t, err)
	f, ok := o.(*DescriptorFrequencyList)
	assert.True(t, ok)
	assert.Equal(t, FrequencyCodingTypeTerrestrial, f.CodingType)
	assert.Equal(t, uint8(0x3f), f.Reserved)
	assert.Equal(t, []uint32{1000, 2000}, f.Frequencies)
	assert.Equal(t, DecodeStatusComplete, HeaderOf(o).Status)
	assert.Equal(t, 0, logs.Len())

	// No frequencies
	o, err = d.DecodeDescriptor(DescriptorTagFrequencyList, 1, []byte{0x1})
	assert.NoError(t, err)
	assert.Nil(t, o.(*DescriptorFrequencyList).Frequencies)

	// Empty payload
	o, err = d.DecodeDescriptor(DescriptorTagFrequencyList, 0, nil)
	assert.ErrorIs(t, err, ErrTruncatedDescriptor)
	assert.Equal(t, DecodeStatusPartial, HeaderOf(o).Status)
}

func TestDescriptorFrequencyListScaling(t *testing.T) {
	d, _ := newTestDecoder()
	for _, v := range []struct {
		t FrequencyCodingType
		e uint32
	}{
		{t: FrequencyCodingTypeUndefined, e: 100},
		{t: FrequencyCodingTypeSatellite, e: 1000},
		{t: FrequencyCodingTypeCable, e: 10000},
		{t: FrequencyCodingTypeTerrestrial, e: 1000},
	} {
		o, err := d.DecodeDescriptor(DescriptorTagFrequencyList, 5, []byte{uint8(v.t), 0x0, 0x0, 0x0, 0x64})
		assert.NoError(t, err)
		assert.Equal(t, []uint32{v.e}, o.(*DescriptorFrequencyList).Frequencies, v.t.String())
	}
}

func TestDescriptorFrequencyListRemainder(t *testing.T) {
	d, logs := newTestDecoder()
	o, err := d.DecodeDescriptor(DescriptorTagFrequencyList, 7, []byte{0x2, 0x0, 0x0, 0x0, 0x1, 0xaa, 0xbb})
	assert.NoError(t, err)
	assert.Equal(t, []uint32{100}, o.(*DescriptorFrequencyList).Frequencies)
	assert.Equal(t, DecodeStatusComplete, HeaderOf(o).Status)
	assert.Equal(t, 1, logs.Len())
	assert.Equal(t, 1, logs.FilterMessageSnippet("not a multiple").Len())
}
