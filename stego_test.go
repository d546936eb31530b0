package stego_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stego "github.com/yyyoichi/stego_lsb"
)

// fill returns n samples all holding v.
func fill(n int, v byte) []byte {
	samples := make([]byte, n)
	for i := range samples {
		samples[i] = v
	}
	return samples
}

// rawEmbed writes the bits of content into the sample LSBs without going
// through Encode, so tests can craft buffers Encode would refuse.
func rawEmbed(samples, content []byte) []byte {
	out := append([]byte(nil), samples...)
	for i := range len(content) * 8 {
		bit := content[i/8] >> (7 - i%8) & 1
		out[i] = out[i]&0xFE | bit
	}
	return out
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	gradient := make([]byte, 2048)
	for i := range gradient {
		gradient[i] = byte(i * 7)
	}
	test := []struct {
		name    string
		samples []byte
		message string
	}{
		{name: "short", samples: fill(1000, 200), message: "hi"},
		{name: "punctuation", samples: fill(1000, 200), message: "Hello, World! #42 (ok?)"},
		{name: "whitespace", samples: fill(1000, 201), message: "line one\n\tline two\rdone"},
		{name: "gradient_carrier", samples: gradient, message: "carried on a gradient"},
		{name: "single_char", samples: fill(80, 255), message: "x"},
	}
	ctx := context.Background()
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := stego.Encode(ctx, tt.samples, tt.message)
			require.NoError(t, err)
			require.Len(t, encoded, len(tt.samples))

			decoded, err := stego.Decode(ctx, encoded)
			require.NoError(t, err)
			assert.Equal(t, tt.message, decoded)
		})
	}
}

func TestEncodeRejects(t *testing.T) {
	test := []struct {
		name    string
		message string
		exp     error
	}{
		{name: "empty", message: "", exp: stego.ErrEmptyMessage},
		{name: "non_ascii", message: "héllo", exp: stego.ErrInvalidMessage},
		{name: "control_byte", message: "a\x07b", exp: stego.ErrInvalidMessage},
		{name: "embedded_terminator", message: "x<<<END>>>y", exp: stego.ErrInvalidMessage},
	}
	ctx := context.Background()
	samples := fill(1000, 200)
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			_, err := stego.Encode(ctx, samples, tt.message)
			assert.ErrorIs(t, err, tt.exp)
		})
	}
}

func TestEncodeCapacityBoundary(t *testing.T) {
	ctx := context.Background()
	// "hi" plus the terminator is 11 bytes, 88 bits
	t.Run("exact_fit", func(t *testing.T) {
		encoded, err := stego.Encode(ctx, fill(88, 200), "hi")
		require.NoError(t, err)
		assert.Len(t, encoded, 88)
	})
	t.Run("one_sample_short", func(t *testing.T) {
		_, err := stego.Encode(ctx, fill(87, 200), "hi")
		assert.ErrorIs(t, err, stego.ErrMessageTooLarge)
	})
	t.Run("ten_samples", func(t *testing.T) {
		_, err := stego.Encode(ctx, fill(10, 200), "hello world")
		assert.ErrorIs(t, err, stego.ErrMessageTooLarge)
	})
}

func TestEncodeMutatesOnlyLSB(t *testing.T) {
	ctx := context.Background()
	samples := make([]byte, 512)
	r := rand.New(rand.NewSource(7))
	for i := range samples {
		samples[i] = byte(r.Intn(256))
	}
	before := append([]byte(nil), samples...)

	message := "only the lowest bit moves"
	encoded, err := stego.Encode(ctx, samples, message)
	require.NoError(t, err)

	embedded := (len(message) + len(stego.Terminator)) * 8
	for i := range encoded {
		if i < embedded {
			assert.Equal(t, samples[i]&0xFE, encoded[i]&0xFE, "sample %d upper bits", i)
		} else {
			assert.Equal(t, samples[i], encoded[i], "sample %d beyond message", i)
		}
	}
	// the input buffer is untouched
	assert.Equal(t, before, samples)
}

func TestDecodeNoMessage(t *testing.T) {
	ctx := context.Background()
	test := []struct {
		name    string
		samples []byte
	}{
		{name: "all_zero_bits", samples: fill(1000, 200)},
		{name: "all_one_bits", samples: fill(1000, 255)},
		{name: "tiny_buffer", samples: fill(4, 201)},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			_, err := stego.Decode(ctx, tt.samples)
			assert.ErrorIs(t, err, stego.ErrNoMessage)
		})
	}
}

func TestDecodeRandomCarrierNeverFound(t *testing.T) {
	ctx := context.Background()
	r := rand.New(rand.NewSource(1))
	samples := make([]byte, 2000)
	for i := range samples {
		samples[i] = byte(r.Intn(256))
	}
	_, err := stego.Decode(ctx, samples)
	require.Error(t, err)

	var partial *stego.PartialMessageError
	if !errors.As(err, &partial) {
		assert.ErrorIs(t, err, stego.ErrNoMessage)
	}
}

func TestDecodeIgnoresSamplesPastTerminator(t *testing.T) {
	ctx := context.Background()
	samples := fill(1000, 200)
	encoded, err := stego.Encode(ctx, samples, "one")
	require.NoError(t, err)

	// trash every sample past the embedded range
	embedded := (len("one") + len(stego.Terminator)) * 8
	for i := embedded; i < len(encoded); i++ {
		encoded[i] = 0xFF
	}

	decoded, err := stego.Decode(ctx, encoded)
	require.NoError(t, err)
	assert.Equal(t, "one", decoded)
}

func TestDecodeDoesNotMutate(t *testing.T) {
	ctx := context.Background()
	encoded, err := stego.Encode(ctx, fill(1000, 200), "check me")
	require.NoError(t, err)
	before := append([]byte(nil), encoded...)

	_, err = stego.Decode(ctx, encoded)
	require.NoError(t, err)
	assert.Equal(t, before, encoded)
}

func TestDecodePartialMessage(t *testing.T) {
	ctx := context.Background()
	t.Run("unterminated_content", func(t *testing.T) {
		// six readable characters and not a bit more
		samples := rawEmbed(fill(48, 200), []byte("hello!"))

		_, err := stego.Decode(ctx, samples)
		var partial *stego.PartialMessageError
		require.ErrorAs(t, err, &partial)
		assert.Equal(t, "hello!", partial.Preview)
	})
	t.Run("preview_truncated", func(t *testing.T) {
		content := make([]byte, 80)
		for i := range content {
			content[i] = byte('a' + i%26)
		}
		samples := rawEmbed(fill(80*8, 200), content)

		_, err := stego.Decode(ctx, samples)
		var partial *stego.PartialMessageError
		require.ErrorAs(t, err, &partial)
		assert.Len(t, partial.Preview, 50)
		assert.Equal(t, string(content[:50]), partial.Preview)
	})
	t.Run("scan_limit_cuts_message", func(t *testing.T) {
		encoded, err := stego.Encode(ctx, fill(1000, 200), "The quick brown fox jumps over the lazy dog")
		require.NoError(t, err)

		_, err = stego.Decode(ctx, encoded, stego.WithScanLimit(80))
		var partial *stego.PartialMessageError
		require.ErrorAs(t, err, &partial)
		assert.Equal(t, "The quick ", partial.Preview)
	})
}

func TestDecodeAbortThreshold(t *testing.T) {
	ctx := context.Background()
	content := append([]byte("Hello!"), 0x00)
	content = append(content, []byte("ab<<<END>>>")...)
	samples := rawEmbed(fill(1000, 200), content)

	t.Run("default_aborts", func(t *testing.T) {
		_, err := stego.Decode(ctx, samples)
		assert.ErrorIs(t, err, stego.ErrNoMessage)
	})
	t.Run("lowered_threshold_skips_noise", func(t *testing.T) {
		decoded, err := stego.Decode(ctx, samples, stego.WithAbortThreshold(3))
		require.NoError(t, err)
		assert.Equal(t, "Hello!ab", decoded)
	})
}

func TestOptionValidation(t *testing.T) {
	test := []struct {
		name string
		opt  stego.Option
	}{
		{name: "scan_limit_below_byte", opt: stego.WithScanLimit(7)},
		{name: "zero_threshold", opt: stego.WithAbortThreshold(0)},
		{name: "negative_threshold", opt: stego.WithAbortThreshold(-1)},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			_, err := stego.New(tt.opt)
			assert.Error(t, err)

			_, err = stego.Encode(context.Background(), fill(100, 0), "m", tt.opt)
			assert.Error(t, err)
		})
	}
}

func TestCapacity(t *testing.T) {
	test := []struct {
		sampleCount int
		exp         int
	}{
		{sampleCount: 1000, exp: 116},
		{sampleCount: 88, exp: 2},
		{sampleCount: 72, exp: 0},
		{sampleCount: 40, exp: 0},
		{sampleCount: 0, exp: 0},
	}
	for _, tt := range test {
		assert.Equal(t, tt.exp, stego.Capacity(tt.sampleCount), "sampleCount=%d", tt.sampleCount)
	}
}

func TestInstanceReuse(t *testing.T) {
	ctx := context.Background()
	s, err := stego.New(stego.WithScanLimit(20000))
	require.NoError(t, err)

	for _, message := range []string{"first", "second", "third"} {
		encoded, err := s.Encode(ctx, fill(2048, 123), message)
		require.NoError(t, err)
		decoded, err := s.Decode(ctx, encoded)
		require.NoError(t, err)
		assert.Equal(t, message, decoded)
	}
}
