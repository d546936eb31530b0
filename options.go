package stego

import "fmt"

type Option func(*Stego) error

var (
	// DefaultScanLimit is the decode scan budget in bits, 1,250 candidate
	// bytes.
	DefaultScanLimit = 10000
	// DefaultAbortThreshold is the accepted character count below which an
	// implausible byte ends the scan as "no message".
	DefaultAbortThreshold = 10
)

// WithScanLimit bounds how many leading sample bits the decode scan may
// examine before giving up. The bound is a cost and false-positive limit,
// not a protocol value: a message whose bits extend past it decodes as
// partial or absent. The minimum is 8 bits, one candidate byte.
func WithScanLimit(bits int) Option {
	return func(s *Stego) error {
		if bits < 8 {
			return fmt.Errorf("scan limit %d is below one byte", bits)
		}
		s.scanLimit = bits
		return nil
	}
}

// WithAbortThreshold sets how many characters must have been accepted
// before an implausible byte is skipped as noise instead of ending the
// scan. Lower values give up on noisy carriers sooner.
func WithAbortThreshold(accepted int) Option {
	return func(s *Stego) error {
		if accepted < 1 {
			return fmt.Errorf("abort threshold %d must be positive", accepted)
		}
		s.abortAfter = accepted
		return nil
	}
}
