package armor

var (
	DefaultShuffleSeed int64 = 1234567890
)

type (
	// Option is a function for selecting how frames are protected before
	// they are textualized. It allows choosing whether to use error
	// correction codes (ECC) and whether the payload is compressed.
	Option func(*Armor)

	scheme interface {
		protect(frame []byte) []byte
		recover(raw []byte) []byte
	}
)

// WithoutECC is an option that does not use error correction codes.
// The frame is textualized as-is without encoding.
func WithoutECC() Option {
	return func(a *Armor) {
		a.s = withoutecc{}
	}
}

// WithGolay is an option that uses Golay code for error correction.
// seed is the seed value for shuffling the protected bits.
// The frame is deterministically shuffled to distribute the effects
// of localized damage across codewords.
func WithGolay(seed int64) Option {
	return func(a *Armor) {
		a.s = shuffledgolay(seed)
	}
}

// WithZstd compresses the payload with zstd before framing. Decoding
// detects compression from the frame, so no matching option is needed.
func WithZstd() Option {
	return func(a *Armor) {
		a.zstd = true
	}
}
