package corpus

import (
	"bytes"
	"strings"
	"testing"
)

func TestSyntheticDeterministic(t *testing.T) {
	for _, name := range SyntheticNames {
		a, err := Synthetic(name, 64, 48)
		if err != nil {
			t.Fatalf("Synthetic(%q) returned error: %v", name, err)
		}
		if len(a.Pixels) != 64*48*3 {
			t.Errorf("Synthetic(%q) pixel count = %d, want %d", name, len(a.Pixels), 64*48*3)
		}
		b, err := Synthetic(name, 64, 48)
		if err != nil {
			t.Fatalf("Synthetic(%q) returned error: %v", name, err)
		}
		if !bytes.Equal(a.Pixels, b.Pixels) {
			t.Errorf("Synthetic(%q) is not deterministic", name)
		}
	}
}

func TestSyntheticUnknown(t *testing.T) {
	if _, err := Synthetic("plasma", 8, 8); err == nil {
		t.Error("expected an error for an unknown carrier name")
	}
}

func TestParseURLs(t *testing.T) {
	urls := ParseURLs()
	if len(urls) == 0 {
		t.Fatal("expected at least one corpus URL")
	}
	for _, u := range urls {
		if !strings.HasPrefix(u, "http") {
			t.Errorf("unexpected URL line: %q", u)
		}
	}
}
