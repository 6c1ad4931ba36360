package bit

// Combine combines two 8 bit values into a single 16 bit value.
// The high byte will be the most significant one.
func Combine(high, low uint8) uint16 {
	return (uint16(high) << 8) | uint16(low)
}

// Low returns the low (LSB) part of a 16 bit number.
func Low(value uint16) uint8 {
	return uint8(value)
}

// High returns the high (MSB) part of a 16 bit number.
func High(value uint16) uint8 {
	return uint8(value >> 8)
}

// HighNibble returns bits 7-4 of a byte.
func HighNibble(value uint8) uint8 {
	return value >> 4
}

// LowNibble returns bits 3-0 of a byte.
func LowNibble(value uint8) uint8 {
	return value & 0x0F
}

// PackNibbles builds a byte out of two 4 bit values, extra bits are dropped.
func PackNibbles(high, low uint8) uint8 {
	return (high&0x0F)<<4 | low&0x0F
}

// Word reads the big-endian 16 bit value at offset. Bytes past the end of
// buf read as zero.
func Word(buf []byte, offset int) uint16 {
	var high, low uint8
	if offset >= 0 && offset < len(buf) {
		high = buf[offset]
	}
	if offset+1 >= 0 && offset+1 < len(buf) {
		low = buf[offset+1]
	}
	return Combine(high, low)
}

// AppendWord appends value to buf in big-endian order.
func AppendWord(buf []byte, value uint16) []byte {
	return append(buf, High(value), Low(value))
}
