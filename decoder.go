package dvbdesc

import (
	"errors"

	"go.uber.org/zap"
)

// Errors
var (
	ErrAllocationFailure   = errors.New("dvbdesc: allocation failure")
	ErrInconsistentLength  = errors.New("dvbdesc: inconsistent descriptor length")
	ErrTruncatedDescriptor = errors.New("dvbdesc: truncated descriptor")
)

// Decoder decodes descriptors into typed records.
// It holds no mutable state once created and can be shared between goroutines decoding independent buffers.
type Decoder struct {
	l *zap.Logger

	optAllocationLimit int
}

// NewDecoder creates a new descriptor decoder
func NewDecoder(opts ...func(*Decoder)) (d *Decoder) {
	// Init
	d = &Decoder{
		l: zap.NewNop(),
	}

	// Apply options
	for _, opt := range opts {
		opt(d)
	}
	return
}

// DecoderOptLogger returns the option to set the logger receiving decoding warnings
func DecoderOptLogger(l *zap.Logger) func(*Decoder) {
	return func(d *Decoder) {
		if l != nil {
			d.l = l
		}
	}
}

// DecoderOptAllocationLimit returns the option to cap the number of elements a single nested array may hold.
// A descriptor asking for more fails with ErrAllocationFailure. 0 means unlimited.
func DecoderOptAllocationLimit(n int) func(*Decoder) {
	return func(d *Decoder) {
		if n >= 0 {
			d.optAllocationLimit = n
		}
	}
}
