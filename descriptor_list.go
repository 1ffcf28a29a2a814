package dvbdesc

import (
	"io"

	"github.com/samber/lo"
)

// DescriptorList owns the descriptors decoded from one descriptor loop, in wire order.
// It's built by a single writer and is read only afterwards. Release hands every descriptor its Release call
// exactly once, in list order, and empties the list.
type DescriptorList struct {
	descriptors []Descriptor
}

func (l *DescriptorList) append(d Descriptor) {
	l.descriptors = append(l.descriptors, d)
}

// Len returns the number of descriptors
func (l *DescriptorList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.descriptors)
}

// At returns the descriptor at position idx
func (l *DescriptorList) At(idx int) Descriptor {
	return l.descriptors[idx]
}

// Descriptors returns a copy of the list content
func (l *DescriptorList) Descriptors() []Descriptor {
	if l == nil {
		return nil
	}
	return append([]Descriptor(nil), l.descriptors...)
}

// ByTag returns the descriptors with the provided tag
func (l *DescriptorList) ByTag(t DescriptorTag) []Descriptor {
	if l == nil {
		return nil
	}
	return lo.Filter(l.descriptors, func(d Descriptor, _ int) bool {
		return d.header().Tag == t
	})
}

// Find returns the first descriptor with the provided tag
func (l *DescriptorList) Find(t DescriptorTag) (d Descriptor, ok bool) {
	if l == nil {
		return
	}
	return lo.Find(l.descriptors, func(d Descriptor) bool {
		return d.header().Tag == t
	})
}

// DescriptorsOf returns the descriptors of type T, for instance DescriptorsOf[*DescriptorService](l)
func DescriptorsOf[T Descriptor](l *DescriptorList) []T {
	if l == nil {
		return nil
	}
	return lo.FilterMap(l.descriptors, func(d Descriptor, _ int) (T, bool) {
		t, ok := d.(T)
		return t, ok
	})
}

// FrequencyLists returns the frequency list descriptors
func (l *DescriptorList) FrequencyLists() []*DescriptorFrequencyList {
	return DescriptorsOf[*DescriptorFrequencyList](l)
}

// ServiceLocations returns the ATSC service location descriptors
func (l *DescriptorList) ServiceLocations() []*DescriptorATSCServiceLocation {
	return DescriptorsOf[*DescriptorATSCServiceLocation](l)
}

// T2Deliveries returns the bodies of the T2 delivery system extension descriptors
func (l *DescriptorList) T2Deliveries() []*DescriptorExtensionT2Delivery {
	return lo.FilterMap(DescriptorsOf[*DescriptorExtension](l), func(e *DescriptorExtension, _ int) (*DescriptorExtensionT2Delivery, bool) {
		t, ok := e.Body.(*DescriptorExtensionT2Delivery)
		return t, ok
	})
}

// Print writes a human readable dump of every descriptor
func (l *DescriptorList) Print(w io.Writer) error {
	if l == nil {
		return nil
	}
	p := newPrinter(w)
	for _, d := range l.descriptors {
		p.descriptor(d)
	}
	return p.err
}

// Release releases every descriptor in list order and empties the list
func (l *DescriptorList) Release() {
	if l == nil {
		return
	}
	for idx, d := range l.descriptors {
		d.Release()
		l.descriptors[idx] = nil
	}
	l.descriptors = nil
}
