package dvbdesc

import (
	"encoding/binary"
	"math"
	"time"
)

// parseDVBTime parses a 5 bytes DVB time
// This field is coded as 16 bits giving the 16 LSBs of MJD followed by 24 bits coded as 6 digits in 4 - bit Binary
// Coded Decimal (BCD). If the start time is undefined (e.g. for an event in a NVOD reference service) all bits of the
// field are set to "1".
// Page: 160 | Annex C | Link: https://dvb.org/wp-content/uploads/2019/12/a038_tm1217r37_en300468v1_17_1_-_rev-134_-_si_specification.pdf
func parseDVBTime(bs []byte) time.Time {
	// Date
	mjd := float64(binary.BigEndian.Uint16(bs))
	ytf := math.Floor((mjd - 15078.2) / 365.25)
	mtf := math.Floor((mjd - 14956.1 - math.Floor(ytf*365.25)) / 30.6001)
	mt := int(mtf)
	d := int(mjd - 14956 - math.Floor(ytf*365.25) - math.Floor(mtf*30.6001))

	k := 0
	if mt == 14 || mt == 15 {
		k = 1
	}
	y := int(ytf) + k
	m := mt - 1 - k*12

	return time.Date(1900+y, time.Month(m), d,
		int(parseDVBDurationByte(bs[2])),
		int(parseDVBDurationByte(bs[3])),
		int(parseDVBDurationByte(bs[4])),
		0, time.UTC)
}

// parseDVBDurationMinutes parses a 2 bytes duration
// 16 bit field containing the duration in hours, minutes. format: 4 digits, 4 - bit BCD
func parseDVBDurationMinutes(bs []byte) time.Duration {
	return parseDVBDurationByte(bs[0])*time.Hour + parseDVBDurationByte(bs[1])*time.Minute
}

// parseDVBDurationByte parses a 2 digits BCD byte
func parseDVBDurationByte(i byte) time.Duration {
	return time.Duration(i>>4*10 + i&0xf)
}

// parseDVBDurationSeconds parses a 3 bytes duration
// 24 bit field containing the duration of the event in hours, minutes, seconds. format: 6 digits, 4 - bit BCD
func parseDVBDurationSeconds(bs []byte) time.Duration {
	return parseDVBDurationByte(bs[0])*time.Hour + parseDVBDurationByte(bs[1])*time.Minute + parseDVBDurationByte(bs[2])*time.Second
}
