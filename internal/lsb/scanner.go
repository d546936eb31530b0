package lsb

import "bytes"

const (
	// windowSize is the number of trailing accepted characters checked for
	// the terminator after each accepted character.
	windowSize = 20
	// previewLen caps the preview reported for unterminated content.
	previewLen = 50
	// minPartial is the accepted character count a scan must exceed before
	// unterminated content counts as a partial message.
	minPartial = 5
)

var terminator = []byte(Terminator)

// State is the position in the decode state machine. Every state other
// than Scanning is terminal.
type State uint8

const (
	// Scanning is still consuming bits.
	Scanning State = iota
	// Found confirmed a terminator and holds the recovered message.
	Found
	// Aborted hit an implausible byte before enough content accumulated.
	Aborted
	// Exhausted ran out of bit budget without a terminator.
	Exhausted
)

// Scanner assembles extracted bits into bytes, filters them for
// plausibility and watches for the terminator. Single pass, no
// backtracking; scratch grows with accepted content, not with the carrier.
type Scanner struct {
	abortAfter int

	cur   byte
	nbits int

	message []byte
	window  []byte

	state   State
	payload string
}

// NewScanner returns a scanner that aborts on an implausible byte while
// fewer than abortAfter bytes have been accepted.
func NewScanner(abortAfter int) *Scanner {
	return &Scanner{abortAfter: abortAfter}
}

// Feed consumes one extracted bit and reports whether the scan reached a
// terminal state. Trailing bits that do not complete a byte are discarded.
func (s *Scanner) Feed(bit bool) bool {
	if s.state != Scanning {
		return true
	}
	s.cur <<= 1
	if bit {
		s.cur |= 1
	}
	if s.nbits++; s.nbits < 8 {
		return false
	}
	b := s.cur
	s.cur, s.nbits = 0, 0
	return s.accept(b)
}

func (s *Scanner) accept(b byte) bool {
	if !Plausible(b) {
		// Implausible this early means no message is present; past the
		// threshold the byte is dropped as transient noise.
		if len(s.message) < s.abortAfter {
			s.state = Aborted
			return true
		}
		return false
	}
	s.message = append(s.message, b)
	s.window = append(s.window, b)
	if len(s.window) > windowSize {
		s.window = s.window[1:]
	}
	if bytes.Contains(s.window, terminator) {
		cut := bytes.LastIndex(s.message, terminator)
		s.payload = string(s.message[:cut])
		s.state = Found
		return true
	}
	return false
}

// Exhaust ends the scan once the caller runs out of bit budget. It keeps
// any terminal state already reached.
func (s *Scanner) Exhaust() {
	if s.state == Scanning {
		s.state = Exhausted
	}
}

// State returns the current scan state.
func (s *Scanner) State() State { return s.state }

// Payload returns the recovered message. Valid only in the Found state.
func (s *Scanner) Payload() string { return s.payload }

// Partial reports whether the accumulated content looks like an incomplete
// message, and returns a bounded preview of it.
func (s *Scanner) Partial() (string, bool) {
	if len(s.message) <= minPartial || !containsAlpha(s.message) {
		return "", false
	}
	preview := s.message
	if len(preview) > previewLen {
		preview = preview[:previewLen]
	}
	return string(preview), true
}

func containsAlpha(p []byte) bool {
	for _, b := range p {
		if ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') {
			return true
		}
	}
	return false
}
