package dvbdesc

// crc32Table is the MPEG-2 CRC32 table: polynomial 0x04c11db7, MSB first, no reflection
var crc32Table = func() (t [256]uint32) {
	for i := range t {
		k := uint32(i) << 24
		for j := 0; j < 8; j++ {
			if k&0x80000000 > 0 {
				k = k<<1 ^ 0x04c11db7
			} else {
				k <<= 1
			}
		}
		t[i] = k
	}
	return
}()

// computeCRC32 computes the MPEG-2 CRC32 of bs. Run over a whole section, CRC included, it returns 0.
func computeCRC32(bs []byte) uint32 {
	c := uint32(0xffffffff)
	for _, b := range bs {
		c = c<<8 ^ crc32Table[byte(c>>24)^b]
	}
	return c
}
