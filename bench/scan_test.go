package bench

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/yyyoichi/stego_lsb/internal/bitconv"
	"github.com/yyyoichi/stego_lsb/internal/lsb"
)

// BenchmarkScanner compares feeding bits straight off the sample buffer
// against expanding every bit up front. The carrier LSBs spell plausible
// text with no terminator, so the scan always runs the full length.
func BenchmarkScanner(b *testing.B) {
	genSrc := func(n int) []byte {
		content := bytes.Repeat([]byte("abcdefgh"), n/64)
		return lsb.Embed(make([]byte, n), bitconv.BytesToBools(content))
	}

	for _, n := range []int{10_000, 100_000, 1_000_000} {
		embedded := genSrc(n)

		b.Run(fmt.Sprintf("inline_%d", n), func(b *testing.B) {
			for b.Loop() {
				sc := lsb.NewScanner(10)
				for i := range embedded {
					if sc.Feed(embedded[i]&1 == 1) {
						break
					}
				}
				sc.Exhaust()
				if sc.State() == lsb.Found {
					b.Fatal("Expected an exhausted scan")
				}
			}
		})

		b.Run(fmt.Sprintf("expanded_%d", n), func(b *testing.B) {
			for b.Loop() {
				bits := make([]bool, len(embedded))
				for i := range embedded {
					bits[i] = embedded[i]&1 == 1
				}
				sc := lsb.NewScanner(10)
				for _, bit := range bits {
					if sc.Feed(bit) {
						break
					}
				}
				sc.Exhaust()
				if sc.State() == lsb.Found {
					b.Fatal("Expected an exhausted scan")
				}
			}
		})
	}
}

// BenchmarkEmbedRaw measures the copy-and-overwrite cost for common sizes
func BenchmarkEmbedRaw(b *testing.B) {
	bits := bitconv.BytesToBools([]byte("The quick brown fox jumps over the lazy dog." + lsb.Terminator))

	for _, size := range [][2]int{{1280, 720}, {1920, 1080}, {3840, 2160}} {
		n := size[0] * size[1] * 3
		samples := make([]byte, n)
		for i := range samples {
			samples[i] = byte(i % 256)
		}
		b.Run(fmt.Sprintf("%dx%d", size[0], size[1]), func(b *testing.B) {
			for b.Loop() {
				dist := lsb.Embed(samples, bits)
				_ = dist
			}
		})
	}
}
