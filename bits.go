package dvbdesc

import (
	"encoding/binary"
	"fmt"

	"github.com/asticode/go-astikit"
)

// nextBytes fetches the next n bytes without copying them. Running out of bytes is reported as
// ErrTruncatedDescriptor.
func nextBytes(i *astikit.BytesIterator, n int) (bs []byte, err error) {
	if bs, err = i.NextBytesNoCopy(n); err != nil {
		err = fmt.Errorf("dvbdesc: fetching next %d bytes failed: %w: %w", n, ErrTruncatedDescriptor, err)
		return
	}
	if len(bs) < n {
		err = fmt.Errorf("dvbdesc: fetching next %d bytes failed: %w", n, ErrTruncatedDescriptor)
	}
	return
}

// copyBytes fetches a copy of the next n bytes so that the descriptor doesn't alias the caller's buffer
func copyBytes(i *astikit.BytesIterator, n int) (bs []byte, err error) {
	var b []byte
	if b, err = nextBytes(i, n); err != nil {
		return
	}
	if n > 0 {
		bs = append(make([]byte, 0, n), b...)
	}
	return
}

// readUint8 reads the next byte
func readUint8(i *astikit.BytesIterator) (v uint8, err error) {
	if v, err = i.NextByte(); err != nil {
		err = fmt.Errorf("dvbdesc: fetching next byte failed: %w: %w", ErrTruncatedDescriptor, err)
	}
	return
}

// readUint16 reads the next 2 bytes as a big endian integer
func readUint16(i *astikit.BytesIterator) (v uint16, err error) {
	var bs []byte
	if bs, err = nextBytes(i, 2); err != nil {
		return
	}
	v = binary.BigEndian.Uint16(bs)
	return
}

// readUint24 reads the next 3 bytes as a big endian integer
func readUint24(i *astikit.BytesIterator) (v uint32, err error) {
	var bs []byte
	if bs, err = nextBytes(i, 3); err != nil {
		return
	}
	v = uint32(bs[0])<<16 | uint32(bs[1])<<8 | uint32(bs[2])
	return
}

// readUint32 reads the next 4 bytes as a big endian integer
func readUint32(i *astikit.BytesIterator) (v uint32, err error) {
	var bs []byte
	if bs, err = nextBytes(i, 4); err != nil {
		return
	}
	v = binary.BigEndian.Uint32(bs)
	return
}

// readPID reads a 16 bits word made of 3 reserved bits followed by a 13 bits PID
func readPID(i *astikit.BytesIterator) (pid uint16, reserved uint8, err error) {
	var v uint16
	if v, err = readUint16(i); err != nil {
		return
	}
	pid, reserved = splitPID(v)
	return
}

// splitPID splits an already assembled host order word
func splitPID(v uint16) (pid uint16, reserved uint8) {
	return v & 0x1fff, uint8(v >> 13)
}

// remaining returns the number of bytes left before the end of the iterator
func remaining(i *astikit.BytesIterator) int {
	if n := i.Len() - i.Offset(); n > 0 {
		return n
	}
	return 0
}

// parseBCD parses packed BCD digits, 2 per byte, most significant first
func parseBCD(bs []byte) (v uint32) {
	for _, b := range bs {
		v = v*100 + uint32(b>>4)*10 + uint32(b&0xf)
	}
	return
}

func b2u(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
