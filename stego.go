// Package stego hides text messages in the least significant bits of flat
// RGB pixel samples and recovers them with a bounded heuristic scan.
package stego

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yyyoichi/stego_lsb/internal/bitconv"
	"github.com/yyyoichi/stego_lsb/internal/lsb"
)

// Terminator is appended to every message before embedding and marks its
// end in the sample bitstream. It is never part of a recovered message.
const Terminator = lsb.Terminator

var (
	ErrEmptyMessage    = errors.New("message is empty")
	ErrMessageTooLarge = errors.New("message is too large for the image")
	ErrInvalidMessage  = errors.New("message cannot survive decoding")
	ErrNoMessage       = errors.New("no hidden message found")
)

// PartialMessageError reports message-like content that ended without a
// terminator inside the scan budget: something was embedded but is
// incomplete or corrupted. It is a decode failure, not a success.
type PartialMessageError struct {
	// Preview holds at most the first 50 recovered characters.
	Preview string
}

func (e *PartialMessageError) Error() string {
	return fmt.Sprintf("message appears incomplete or corrupted: %q", e.Preview)
}

// Encode embeds a message into a copy of the sample buffer with the specified options.
// This is a convenience function that creates a Stego instance and calls its Encode method.
func Encode(ctx context.Context, samples []byte, message string, opts ...Option) ([]byte, error) {
	s, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return s.Encode(ctx, samples, message)
}

// Decode recovers an embedded message from a sample buffer with the specified options.
// This is a convenience function that creates a Stego instance and calls its Decode method.
func Decode(ctx context.Context, samples []byte, opts ...Option) (string, error) {
	s, err := New(opts...)
	if err != nil {
		return "", err
	}
	return s.Decode(ctx, samples)
}

// Stego embeds and extracts messages one bit per sample, in linear sample
// order. A value is stateless after construction and safe for concurrent
// use on distinct buffers.
type Stego struct {
	scanLimit  int
	abortAfter int
}

// New initializes a codec.
// The decode scan budget and the early-abort threshold can be optionally
// specified. For default values, refer to the init function.
func New(opts ...Option) (*Stego, error) {
	s := new(Stego)
	if err := s.init(opts...); err != nil {
		return nil, err
	}
	return s, nil
}

// Encode embeds a message into a copy of the sample buffer.
//
// Process:
//  1. Validates the message: non-empty, free of the terminator sequence,
//     and limited to bytes the decode scan accepts.
//  2. Appends the terminator and expands each byte into bits, most
//     significant bit first.
//  3. Writes bit i into the least significant bit of sample i; samples
//     beyond the message are copied unchanged.
//
// The input buffer is never mutated. Returns ErrMessageTooLarge if the
// extended message needs more bits than there are samples.
func (s *Stego) Encode(ctx context.Context, samples []byte, message string) ([]byte, error) {
	if message == "" {
		return nil, ErrEmptyMessage
	}
	if err := validateMessage(message); err != nil {
		return nil, err
	}
	bits := bitconv.BytesToBools([]byte(message + Terminator))
	if err := lsb.Enable(len(samples), len(bits)); err != nil {
		return nil, fmt.Errorf("%w:%w", ErrMessageTooLarge, err)
	}
	return lsb.Embed(samples, bits), nil
}

// Decode recovers an embedded message from a sample buffer.
//
// Process:
//  1. Extracts the least significant bit of each sample, left to right,
//     and groups the bits into bytes, most significant bit first.
//  2. Accepts printable ASCII and tab, newline, carriage return; an
//     implausible byte aborts an early scan and is skipped later on.
//  3. Watches the last 20 accepted characters for the terminator and
//     returns everything before its first confirmed occurrence.
//
// The scan inspects at most the configured bit budget and never mutates
// the buffer. Returns ErrNoMessage when nothing plausible was present and
// a *PartialMessageError when message-like content ran out unterminated.
func (s *Stego) Decode(ctx context.Context, samples []byte) (string, error) {
	sc := lsb.NewScanner(s.abortAfter)
	limit := s.scanLimit
	if len(samples) < limit {
		limit = len(samples)
	}
	for i := range limit {
		if sc.Feed(samples[i]&1 == 1) {
			break
		}
	}
	sc.Exhaust()
	switch sc.State() {
	case lsb.Found:
		return sc.Payload(), nil
	case lsb.Aborted:
		return "", ErrNoMessage
	default:
		if preview, ok := sc.Partial(); ok {
			return "", &PartialMessageError{Preview: preview}
		}
		return "", ErrNoMessage
	}
}

func (s *Stego) init(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return err
		}
	}
	if s.scanLimit == 0 {
		s.scanLimit = DefaultScanLimit
	}
	if s.abortAfter == 0 {
		s.abortAfter = DefaultAbortThreshold
	}
	return nil
}

// Capacity returns the maximum message length in bytes that fits into
// sampleCount samples once the terminator is accounted for.
func Capacity(sampleCount int) int {
	n := sampleCount/8 - len(Terminator)
	if n < 0 {
		return 0
	}
	return n
}

func validateMessage(message string) error {
	if strings.Contains(message, Terminator) {
		return fmt.Errorf("%w: message contains the terminator sequence %q", ErrInvalidMessage, Terminator)
	}
	for i := 0; i < len(message); i++ {
		if !lsb.Plausible(message[i]) {
			return fmt.Errorf("%w: byte 0x%02x at offset %d is filtered out by the decode scan", ErrInvalidMessage, message[i], i)
		}
	}
	return nil
}
