package dvbdesc

import (
	"fmt"
	"time"

	"go.uber.org/multierr"
)

// EITData represents an EIT data
// Page: 36 | Chapter: 5.2.4 | Link: https://dvb.org/wp-content/uploads/2019/12/a038_tm1217r37_en300468v1_17_1_-_rev-134_-_si_specification.pdf
type EITData struct {
	Events                   []EITDataEvent
	SectionHeader            PSISectionHeader
	SyntaxHeader             PSISectionSyntaxHeader
	OriginalNetworkID        uint16
	ServiceID                uint16
	TransportStreamID        uint16
	LastTableID              uint8
	SegmentLastSectionNumber uint8
}

// EITDataEvent represents an EIT data event
type EITDataEvent struct {
	Descriptors    *DescriptorList
	Duration       time.Duration
	StartTime      time.Time
	EventID        uint16
	HasFreeCSAMode bool // When true indicates that access to one or more streams may be controlled by a CA system.
	RunningStatus  uint8
}

// Release releases every descriptor of the section
func (e *EITData) Release() {
	for idx := range e.Events {
		e.Events[idx].Descriptors.Release()
	}
	e.Events = nil
}

// ParseEITSection parses a complete EIT section, starting at its table id and ending with its CRC32.
// Errors follow the same rules as ParseNITSection.
func (d *Decoder) ParseEITSection(bs []byte) (e *EITData, err error) {
	// Headers
	h, sh, i, err := parsePSISection(bs, PSITableID.isEIT)
	if err != nil {
		return
	}

	// Create data
	o := &EITData{
		SectionHeader: h,
		ServiceID:     sh.TableIDExtension,
		SyntaxHeader:  sh,
	}

	// Get next bytes
	var b []byte
	if b, err = nextBytes(i, 6); err != nil {
		err = fmt.Errorf("dvbdesc: fetching EIT header failed: %w: %w", ErrPSISectionTruncated, err)
		return
	}
	o.TransportStreamID = uint16(b[0])<<8 | uint16(b[1])
	o.OriginalNetworkID = uint16(b[2])<<8 | uint16(b[3])
	o.SegmentLastSectionNumber = b[4]
	o.LastTableID = b[5]

	// Loop until end of section data is reached
	var errs error
	for i.HasBytesLeft() {
		// Get next bytes
		if b, err = nextBytes(i, 10); err != nil {
			o.Release()
			err = fmt.Errorf("dvbdesc: fetching EIT event failed: %w: %w", ErrPSISectionTruncated, err)
			return
		}

		// Create event
		ev := EITDataEvent{
			Duration:  parseDVBDurationSeconds(b[7:10]),
			EventID:   uint16(b[0])<<8 | uint16(b[1]),
			StartTime: parseDVBTime(b[2:7]),
		}

		// Get next byte
		var st byte
		if st, err = readUint8(i); err != nil {
			o.Release()
			err = fmt.Errorf("dvbdesc: fetching EIT event status failed: %w: %w", ErrPSISectionTruncated, err)
			return
		}
		ev.RunningStatus = st >> 5
		ev.HasFreeCSAMode = st&0x10 > 0

		// We need to rewind since the current byte is used by the descriptors loop length as well
		i.Skip(-1)

		// Descriptors
		var errLoop error
		if ev.Descriptors, errLoop = d.decodeDescriptorLoop(i); errLoop != nil {
			errs = multierr.Append(errs, fmt.Errorf("dvbdesc: event 0x%04x descriptors: %w", ev.EventID, errLoop))
		}

		// Add event
		o.Events = append(o.Events, ev)
	}

	e, err = o, errs
	return
}
