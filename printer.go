package dvbdesc

import (
	"fmt"
	"io"
	"strings"
)

// printer renders descriptors line by line. The first write error sticks and stops any further output.
type printer struct {
	err    error
	indent int
	w      io.Writer
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w}
}

// PrintDescriptor writes a human readable dump of a descriptor
func PrintDescriptor(w io.Writer, d Descriptor) error {
	p := newPrinter(w)
	p.descriptor(d)
	return p.err
}

func (p *printer) descriptor(d Descriptor) {
	h := d.header()
	p.line(fmt.Sprintf("|- %s (0x%02x) length %d", h.Tag, uint8(h.Tag), h.Length))
	p.indent++
	if h.Status != DecodeStatusComplete {
		p.field("status", h.Status)
	}
	d.describe(p)
	p.indent--
}

func (p *printer) line(s string) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("    ", p.indent), s)
}

func (p *printer) field(name string, v interface{}) {
	p.line(fmt.Sprintf("|   %-28s %v", name, v))
}

func (p *printer) indexed(name string, idx int, v interface{}) {
	p.field(fmt.Sprintf("%s[%d]", name, idx), v)
}

func (p *printer) flag(name string, v bool) {
	p.field(name, b2u(v))
}

func (p *printer) bytes(name string, bs []byte) {
	p.field(name, fmt.Sprintf("% x", bs))
}

func (p *printer) text(name string, bs []byte) {
	p.field(name, fmt.Sprintf("%q", bs))
}

// item prints a nested array element as a sub block
func (p *printer) item(name string, idx int, fn func()) {
	p.line(fmt.Sprintf("|   %s[%d]", name, idx))
	p.indent++
	fn()
	p.indent--
}
