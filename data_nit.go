package dvbdesc

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// NITData represents a NIT data
// Page: 29 | Chapter: 5.2.1 | Link: https://dvb.org/wp-content/uploads/2019/12/a038_tm1217r37_en300468v1_17_1_-_rev-134_-_si_specification.pdf
type NITData struct {
	NetworkDescriptors *DescriptorList
	TransportStreams   []NITDataTransportStream
	SectionHeader      PSISectionHeader
	SyntaxHeader       PSISectionSyntaxHeader
	NetworkID          uint16
}

// NITDataTransportStream represents a NIT data transport stream
type NITDataTransportStream struct {
	TransportDescriptors *DescriptorList
	TransportStreamID    uint16
	OriginalNetworkID    uint16
}

// Release releases every descriptor of the section
func (n *NITData) Release() {
	n.NetworkDescriptors.Release()
	for idx := range n.TransportStreams {
		n.TransportStreams[idx].TransportDescriptors.Release()
	}
	n.TransportStreams = nil
}

// ParseNITSection parses a complete NIT section, starting at its table id and ending with its CRC32.
// Section level failures (bad table id, bad CRC32, truncated loops) return a nil NITData.
// Descriptor level failures are aggregated in err while the returned NITData stays usable.
func (d *Decoder) ParseNITSection(bs []byte) (n *NITData, err error) {
	// Headers
	h, sh, i, err := parsePSISection(bs, PSITableID.isNIT)
	if err != nil {
		return
	}

	// Create data
	o := &NITData{
		NetworkID:     sh.TableIDExtension,
		SectionHeader: h,
		SyntaxHeader:  sh,
	}

	// Network descriptors
	var errs error
	var errLoop error
	if o.NetworkDescriptors, errLoop = d.decodeDescriptorLoop(i); errLoop != nil {
		errs = multierr.Append(errs, fmt.Errorf("dvbdesc: network descriptors: %w", errLoop))
	}

	// Transport stream loop length
	var v uint16
	if v, err = readUint16(i); err != nil {
		o.Release()
		err = fmt.Errorf("dvbdesc: fetching transport stream loop length failed: %w: %w", ErrPSISectionTruncated, err)
		return
	}
	offsetEnd := i.Offset() + int(v&0xfff)
	if offsetEnd > i.Len() {
		d.l.Warn("NIT transport stream loop overruns the section",
			zap.Int("length", int(v&0xfff)),
			zap.Int("left", remaining(i)),
		)
		offsetEnd = i.Len()
	}

	// Transport stream loop
	for i.Offset() < offsetEnd {
		// Create transport stream
		ts := NITDataTransportStream{}

		// Transport stream ID
		if ts.TransportStreamID, err = readUint16(i); err != nil {
			o.Release()
			err = fmt.Errorf("dvbdesc: fetching transport stream id failed: %w: %w", ErrPSISectionTruncated, err)
			return
		}

		// Original network ID
		if ts.OriginalNetworkID, err = readUint16(i); err != nil {
			o.Release()
			err = fmt.Errorf("dvbdesc: fetching original network id failed: %w: %w", ErrPSISectionTruncated, err)
			return
		}

		// Transport descriptors
		if ts.TransportDescriptors, errLoop = d.decodeDescriptorLoop(i); errLoop != nil {
			errs = multierr.Append(errs, fmt.Errorf("dvbdesc: transport stream 0x%04x descriptors: %w", ts.TransportStreamID, errLoop))
		}

		// Append transport stream
		o.TransportStreams = append(o.TransportStreams, ts)
	}

	n, err = o, errs
	return
}
