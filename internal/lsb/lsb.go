// Package lsb implements bit placement into the least significant bits of
// flat pixel samples and the heuristic scan that recovers embedded content.
package lsb

import "fmt"

// Terminator marks the end of an embedded message in the bitstream.
const Terminator = "<<<END>>>"

// Enable reports whether a bit sequence of bitCount fits into sampleCount
// samples, one bit per sample.
func Enable(sampleCount, bitCount int) error {
	if sampleCount < bitCount {
		return fmt.Errorf("capacity %d bits < message %d bits", sampleCount, bitCount)
	}
	return nil
}

// Embed returns a copy of samples with bits written into the least
// significant bit of the leading samples. Samples beyond the bit sequence
// are copied unchanged, and no bit above the LSB is ever touched.
func Embed(samples []byte, bits []bool) []byte {
	out := make([]byte, len(samples))
	copy(out, samples)
	for i, bit := range bits {
		out[i] &= 0xFE
		if bit {
			out[i] |= 1
		}
	}
	return out
}

// Plausible reports whether b can appear in an embedded message: printable
// ASCII or one of tab, newline, carriage return.
func Plausible(b byte) bool {
	return (32 <= b && b <= 126) || b == '\t' || b == '\n' || b == '\r'
}
