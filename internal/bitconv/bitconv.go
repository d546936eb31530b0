package bitconv

// BytesToBools expands each byte into eight booleans, most significant bit first.
func BytesToBools(data []byte) []bool {
	bits := make([]bool, len(data)*8)
	for i, b := range data {
		for j := range 8 {
			bits[i*8+j] = b&(1<<(7-j)) != 0
		}
	}
	return bits
}

// BoolsToBytes packs booleans into bytes, most significant bit first.
// A trailing group shorter than eight bits is padded with zero bits.
func BoolsToBytes(bits []bool) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, bit := range bits {
		if bit {
			out[i/8] |= 1 << (7 - i%8)
		}
	}
	return out
}
