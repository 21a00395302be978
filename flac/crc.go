// SPDX-License-Identifier: EPL-2.0

package flac

// Frame checksums use the two CRC variants the FLAC format prescribes:
// CRC-8 with polynomial x^8 + x^2 + x + 1 (0x07) over the frame header,
// and CRC-16 with polynomial x^16 + x^15 + x^2 + 1 (0x8005) over the whole
// frame. Both start from zero and are neither reflected nor inverted, so
// the stdlib hash/crc* packages do not cover them.

var crc8Table = makeCRC8Table(0x07)

func makeCRC8Table(poly byte) [256]byte {
	var table [256]byte
	for i := range table {
		crc := byte(i)
		for _i := 0; _i < 8; _i++ {
			if crc&0x80 != 0 {
				crc = crc<<1 ^ poly
			} else {
				crc <<= 1
			}
		}
		table[i] = crc
	}
	return table
}

func crc8(data []byte) byte {
	var crc byte
	for _, b := range data {
		crc = crc8Table[crc^b]
	}
	return crc
}

var crc16Table = makeCRC16Table(0x8005)

func makeCRC16Table(poly uint16) [256]uint16 {
	var table [256]uint16
	for i := range table {
		crc := uint16(i) << 8
		for _i := 0; _i < 8; _i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ poly
			} else {
				crc <<= 1
			}
		}
		table[i] = crc
	}
	return table
}

func crc16(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc = crc<<8 ^ crc16Table[byte(crc>>8)^b]
	}
	return crc
}
