// Package armor wraps binary payloads for transport through the codec's
// plausible ASCII channel.
//
// The codec carries printable text only, so raw bytes must be framed and
// base64 encoded before embedding. On top of that, armor can compress the
// payload with zstd and protect the frame with Golay error correction,
// shuffled so burst damage spreads across codewords. Every armored string
// is plain base64 and always passes the decoder's plausibility filter.
package armor

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
)

// MaxPayload is the largest payload a single frame can carry.
const MaxPayload = 1<<16 - 1

const flagZstd byte = 1 << 0

var (
	ErrTooLarge  = errors.New("payload exceeds armor capacity")
	ErrMalformed = errors.New("malformed armored payload")
)

// Armor frames, protects and textualizes binary payloads. The zero value is
// not usable; construct instances with New.
type Armor struct {
	s    scheme
	zstd bool
}

// New initializes an Armor. By default frames are protected with the Golay
// code and shuffle scheme; custom options can change the protection.
func New(opts ...Option) *Armor {
	a := &Armor{s: shuffledgolay(DefaultShuffleSeed)}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Encode wraps payload into an armored string ready for embedding.
func (a *Armor) Encode(payload []byte) (string, error) {
	var flags byte
	if a.zstd {
		payload = compress(payload)
		flags |= flagZstd
	}
	if len(payload) > MaxPayload {
		return "", fmt.Errorf("%w: %d bytes", ErrTooLarge, len(payload))
	}
	frame := make([]byte, 3+len(payload))
	frame[0] = flags
	binary.BigEndian.PutUint16(frame[1:3], uint16(len(payload)))
	copy(frame[3:], payload)
	return base64.StdEncoding.EncodeToString(a.s.protect(frame)), nil
}

// Decode unwraps an armored string produced by Encode with the same options.
// Protection schemes and seeds are not recorded in the frame, so a mismatch
// surfaces as ErrMalformed.
func (a *Armor) Decode(armored string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(armored)
	if err != nil {
		return nil, fmt.Errorf("%w:%w", ErrMalformed, err)
	}
	// recover may append padding bytes; the length prefix trims them
	frame := a.s.recover(raw)
	if len(frame) < 3 {
		return nil, fmt.Errorf("%w: truncated frame", ErrMalformed)
	}
	flags := frame[0]
	if flags&^flagZstd != 0 {
		return nil, fmt.Errorf("%w: unknown flags 0x%02x", ErrMalformed, flags)
	}
	n := int(binary.BigEndian.Uint16(frame[1:3]))
	if 3+n > len(frame) {
		return nil, fmt.Errorf("%w: frame shorter than declared payload", ErrMalformed)
	}
	payload := frame[3 : 3+n]
	if flags&flagZstd != 0 {
		out, err := decompress(payload)
		if err != nil {
			return nil, fmt.Errorf("%w:%w", ErrMalformed, err)
		}
		return out, nil
	}
	return append([]byte(nil), payload...), nil
}

// Encode wraps payload with a one-off Armor.
func Encode(payload []byte, opts ...Option) (string, error) {
	return New(opts...).Encode(payload)
}

// Decode unwraps armored with a one-off Armor.
func Decode(armored string, opts ...Option) ([]byte, error) {
	return New(opts...).Decode(armored)
}
