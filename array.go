package dvbdesc

import (
	"fmt"

	"github.com/asticode/go-astikit"
	"go.uber.org/zap"
)

// decodeArray decodes count fixed size elements starting at the iterator offset.
// fn receives exactly size bytes and converts them into an element.
// When count is above the allocation limit nothing is allocated and ErrAllocationFailure is returned.
// When count elements don't fit in what's left of the descriptor, count is clamped, the elements that fit are
// returned and ErrTruncatedDescriptor is returned alongside.
func decodeArray[T any](d *Decoder, i *astikit.BytesIterator, h DescriptorHeader, name string, count, size int, fn func(bs []byte) T) (o []T, err error) {
	// Allocation limit
	if d.optAllocationLimit > 0 && count > d.optAllocationLimit {
		d.l.Warn("descriptor array exceeds allocation limit",
			zap.Stringer("tag", h.Tag),
			zap.String("array", name),
			zap.Int("count", count),
			zap.Int("limit", d.optAllocationLimit),
		)
		err = fmt.Errorf("dvbdesc: allocating %d %s failed: %w", count, name, ErrAllocationFailure)
		return
	}

	// Clamp
	if left := remaining(i); count*size > left {
		d.l.Warn("descriptor array overruns declared length",
			zap.Stringer("tag", h.Tag),
			zap.String("array", name),
			zap.Int("count", count),
			zap.Int("size", size),
			zap.Int("left", left),
		)
		err = fmt.Errorf("dvbdesc: %d %s need %d bytes but only %d are left: %w", count, name, count*size, left, ErrTruncatedDescriptor)
		count = left / size
	}

	if count == 0 {
		return
	}

	// Decode
	o = make([]T, count)
	for idx := range o {
		bs, errNext := nextBytes(i, size)
		if errNext != nil {
			err = errNext
			o = o[:idx]
			return
		}
		o[idx] = fn(bs)
	}
	return
}

// countFromRemaining derives an element count from the bytes left in the descriptor.
// A remainder is dropped with a warning.
func countFromRemaining(d *Decoder, i *astikit.BytesIterator, h DescriptorHeader, name string, size int) int {
	n := remaining(i)
	if n%size != 0 {
		d.l.Warn("descriptor array length is not a multiple of its element size",
			zap.Stringer("tag", h.Tag),
			zap.String("array", name),
			zap.Int("bytes", n),
			zap.Int("size", size),
			zap.Error(ErrInconsistentLength),
		)
	}
	return n / size
}

// countFromByte reads an explicit 1 byte element count at the iterator offset
func countFromByte(d *Decoder, i *astikit.BytesIterator, h DescriptorHeader) (n int, err error) {
	if err = checkMinLength(d, i, h, 1); err != nil {
		return
	}
	var b uint8
	if b, err = readUint8(i); err != nil {
		return
	}
	n = int(b)
	return
}

// copyPrefixed copies a byte string prefixed with its 1 byte length
func copyPrefixed(d *Decoder, i *astikit.BytesIterator, h DescriptorHeader, name string) (bs []byte, err error) {
	var n int
	if n, err = countFromByte(d, i, h); err != nil {
		return
	}
	if left := remaining(i); n > left {
		d.l.Warn("descriptor string overruns declared length",
			zap.Stringer("tag", h.Tag),
			zap.String("string", name),
			zap.Int("length", n),
			zap.Int("left", left),
		)
		err = fmt.Errorf("dvbdesc: %s needs %d bytes but only %d are left: %w", name, n, left, ErrTruncatedDescriptor)
		return
	}
	bs, err = copyBytes(i, n)
	return
}
