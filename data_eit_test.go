package dvbdesc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func eitBody(event []byte) []byte {
	return append([]byte{
		0x0, 0x1, // service id
		0xc1,     // version 0, current
		0x0, 0x0, // section numbers
		0x0, 0x2, // transport stream id
		0x0, 0x3, // original network id
		0x0, 0x4e,
	}, event...)
}

func TestParseEITSection(t *testing.T) {
	d, _ := newTestDecoder()
	e, err := d.ParseEITSection(nitSectionBytes(uint8(PSITableIDEITStart), eitBody([]byte{
		0x0, 0x10, // event id
		0xc0, 0x79, 0x12, 0x45, 0x0, // start time
		0x1, 0x45, 0x30, // duration
		0x90, 0x3, 0x52, 0x1, 0x7,
	})))
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x1), e.ServiceID)
	assert.Equal(t, uint16(0x2), e.TransportStreamID)
	assert.Equal(t, uint16(0x3), e.OriginalNetworkID)
	assert.Equal(t, uint8(0x4e), e.LastTableID)
	assert.Len(t, e.Events, 1)
	ev := e.Events[0]
	assert.Equal(t, uint16(0x10), ev.EventID)
	assert.Equal(t, time.Date(1993, 10, 13, 12, 45, 0, 0, time.UTC), ev.StartTime)
	assert.Equal(t, time.Hour+45*time.Minute+30*time.Second, ev.Duration)
	assert.Equal(t, uint8(4), ev.RunningStatus)
	assert.True(t, ev.HasFreeCSAMode)
	assert.Equal(t, 1, ev.Descriptors.Len())
	assert.Equal(t, uint8(0x7), ev.Descriptors.At(0).(*DescriptorStreamIdentifier).ComponentTag)

	e.Release()
	assert.Nil(t, e.Events)
}

func TestParseEITSectionInvalid(t *testing.T) {
	d, _ := newTestDecoder()

	// Not an EIT
	e, err := d.ParseEITSection(nitSectionBytes(uint8(PSITableIDNITVariant1), eitBody(nil)))
	assert.ErrorIs(t, err, ErrPSIUnexpectedTableID)
	assert.Nil(t, e)

	// Truncated event
	e, err = d.ParseEITSection(nitSectionBytes(uint8(PSITableIDEITEnd), eitBody([]byte{0x0, 0x10, 0xc0})))
	assert.ErrorIs(t, err, ErrPSISectionTruncated)
	assert.Nil(t, e)

	// Descriptor loop overruns the section
	e, err = d.ParseEITSection(nitSectionBytes(uint8(PSITableIDEITEnd), eitBody([]byte{
		0x0, 0x10, 0xc0, 0x79, 0x12, 0x45, 0x0, 0x1, 0x45, 0x30,
		0x90, 0x9, 0x52, 0x1, 0x7,
	})))
	assert.ErrorIs(t, err, ErrTruncatedDescriptor)
	assert.NotNil(t, e)
	assert.Equal(t, 1, e.Events[0].Descriptors.Len())
}
