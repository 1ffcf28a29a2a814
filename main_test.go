package dvbdesc

import (
	"bytes"
	"testing"

	"github.com/asticode/go-astikit"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// newTestDecoder returns a decoder whose warnings are recorded
func newTestDecoder(opts ...func(*Decoder)) (*Decoder, *observer.ObservedLogs) {
	core, logs := observer.New(zap.WarnLevel)
	return NewDecoder(append([]func(*Decoder){DecoderOptLogger(zap.New(core))}, opts...)...), logs
}

// descriptorBytes prefixes what fn writes with the tag and the length
func descriptorBytes(tag DescriptorTag, fn func(w *astikit.BitsWriter)) []byte {
	buf := &bytes.Buffer{}
	w := astikit.NewBitsWriter(astikit.BitsWriterOptions{Writer: buf})
	fn(w)
	return append([]byte{uint8(tag), uint8(buf.Len())}, buf.Bytes()...)
}
