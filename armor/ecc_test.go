package armor

import (
	"testing"

	"github.com/yyyoichi/golay"
)

func TestShuffledGolay(t *testing.T) {
	var sg shuffledgolay = 12345
	t.Run("protect length", func(t *testing.T) {
		for n := 3; n < 64; n++ {
			protected := sg.protect(make([]byte, n))
			if exp := golay.EncodedBits(n*8) / 8; len(protected) != exp {
				t.Errorf("frame of %d bytes: expected %d protected bytes, got %d", n, exp, len(protected))
			}
		}
	})

	t.Run("protect/recover", func(t *testing.T) {
		frame := []byte{0x00, 0x00, 0x05, 'h', 'e', 'l', 'l', 'o'}
		recovered := sg.recover(sg.protect(frame))
		if len(recovered) < len(frame) {
			t.Fatalf("recovered %d bytes, want at least %d", len(recovered), len(frame))
		}
		for i := range frame {
			if recovered[i] != frame[i] {
				t.Errorf("byte %d: expected %#x, got %#x", i, frame[i], recovered[i])
			}
		}
	})

	t.Run("permutation determinism", func(t *testing.T) {
		a := sg.generatePermutation(48)
		b := sg.generatePermutation(48)
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("permutation not deterministic at %d", i)
			}
		}
		other := shuffledgolay(54321).generatePermutation(48)
		same := true
		for i := range a {
			if a[i] != other[i] {
				same = false
				break
			}
		}
		if same {
			t.Errorf("different seeds produced the same permutation")
		}
	})
}

func TestWithoutECCIdentity(t *testing.T) {
	var we withoutecc
	frame := []byte{0x00, 0x00, 0x02, 0xab, 0xcd}
	protected := we.protect(frame)
	if len(protected) != len(frame) {
		t.Errorf("expected %d bytes, got %d", len(frame), len(protected))
	}
	recovered := we.recover(protected)
	for i := range frame {
		if recovered[i] != frame[i] {
			t.Errorf("byte %d: expected %#x, got %#x", i, frame[i], recovered[i])
		}
	}
}
