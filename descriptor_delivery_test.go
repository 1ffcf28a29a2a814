package dvbdesc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescriptorSatelliteDelivery(t *testing.T) {
	d, _ := newTestDecoder()
	o, err := d.DecodeDescriptor(DescriptorTagSatelliteDelivery, 11, []byte{0x01, 0x17, 0x66, 0x10, 0x01, 0x92, 0xa1, 0x02, 0x75, 0x00, 0x03})
	assert.NoError(t, err)
	assert.Equal(t, &DescriptorSatelliteDelivery{
		Header:          DescriptorHeader{Tag: DescriptorTagSatelliteDelivery, Length: 11},
		FECInner:        0x3,
		Frequency:       11766100,
		ModulationType:  0x1,
		OrbitalPosition: 192,
		Polarization:    0x1,
		SymbolRate:      27500000,
		WestEastFlag:    true,
	}, o)

	// Too short
	o, err = d.DecodeDescriptor(DescriptorTagSatelliteDelivery, 5, []byte{0x01, 0x17, 0x66, 0x10, 0x01})
	assert.ErrorIs(t, err, ErrTruncatedDescriptor)
	assert.Equal(t, DecodeStatusPartial, HeaderOf(o).Status)
	assert.Equal(t, uint32(0), o.(*DescriptorSatelliteDelivery).Frequency)
}

func TestDescriptorCableDelivery(t *testing.T) {
	d, _ := newTestDecoder()
	o, err := d.DecodeDescriptor(DescriptorTagCableDelivery, 11, []byte{0x03, 0x46, 0x00, 0x00, 0xff, 0xf2, 0x03, 0x00, 0x69, 0x00, 0x05})
	assert.NoError(t, err)
	assert.Equal(t, &DescriptorCableDelivery{
		Header:     DescriptorHeader{Tag: DescriptorTagCableDelivery, Length: 11},
		FECInner:   0x5,
		FECOuter:   0x2,
		Frequency:  346000000,
		Modulation: 0x3,
		SymbolRate: 6900000,
	}, o)
}

func TestDescriptorTerrestrialDelivery(t *testing.T) {
	d, _ := newTestDecoder()
	o, err := d.DecodeDescriptor(DescriptorTagTerrestrialDelivery, 11, []byte{0x02, 0xfa, 0xf0, 0x80, 0x13, 0x82, 0x33, 0xff, 0xff, 0xff, 0xff})
	assert.NoError(t, err)
	assert.Equal(t, &DescriptorTerrestrialDelivery{
		Header:             DescriptorHeader{Tag: DescriptorTagTerrestrialDelivery, Length: 11},
		CentreFrequency:    500000000,
		CodeRateHP:         0x2,
		CodeRateLP:         0x1,
		Constellation:      0x2,
		GuardInterval:      0x2,
		OtherFrequencyFlag: true,
		Priority:           true,
		TransmissionMode:   0x1,
	}, o)
}
