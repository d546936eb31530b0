package main

import (
	"bufio"
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yyyoichi/stego_lsb/imgio"
)

// newScriptedTerminal wires a terminal to a canned input script and a
// capture buffer.
func newScriptedTerminal(t *testing.T, cfg Config, lines ...string) (*terminal, *bytes.Buffer) {
	t.Helper()
	term, err := newTerminal(cfg, nil)
	require.NoError(t, err)
	var out bytes.Buffer
	term.in = bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
	term.out = &out
	return term, &out
}

func writeCarrier(t *testing.T, path string, width, height int) {
	t.Helper()
	img := imgio.Image{Width: width, Height: height, Pixels: make([]byte, width*height*3)}
	for i := range img.Pixels {
		img.Pixels[i] = byte(i % 251)
	}
	require.NoError(t, imgio.Save(path, img))
}

// writeFlatCarrier emits a carrier whose samples are all zero, so a decode
// scan aborts immediately.
func writeFlatCarrier(t *testing.T, path string, width, height int) {
	t.Helper()
	img := imgio.Image{Width: width, Height: height, Pixels: make([]byte, width*height*3)}
	require.NoError(t, imgio.Save(path, img))
}

func TestTerminalEncodeDecode(t *testing.T) {
	dir := t.TempDir()
	carrier := filepath.Join(dir, "carrier.png")
	encoded := filepath.Join(dir, "encoded.png")
	writeCarrier(t, carrier, 60, 40)

	term, out := newScriptedTerminal(t, Config{},
		"1", carrier, "the cache invalidation strikes again", "n", encoded,
		"2", encoded, "n",
		"4",
	)
	term.run()

	require.FileExists(t, encoded)
	assert.Contains(t, out.String(), "Message successfully hidden in "+encoded)
	assert.Contains(t, out.String(), "Decoded message:\nthe cache invalidation strikes again")
	assert.Contains(t, out.String(), "Goodbye!")
}

func TestTerminalEncodeDecodeArmored(t *testing.T) {
	dir := t.TempDir()
	carrier := filepath.Join(dir, "carrier.png")
	encoded := filepath.Join(dir, "encoded.png")
	writeCarrier(t, carrier, 60, 40)

	term, out := newScriptedTerminal(t, Config{},
		"1", carrier, "armored payload", "y", encoded,
		"2", encoded, "y",
		"4",
	)
	term.run()

	assert.Contains(t, out.String(), "Decoded message:\narmored payload")
}

func TestTerminalDecodeNoMessage(t *testing.T) {
	flat := filepath.Join(t.TempDir(), "flat.png")
	writeFlatCarrier(t, flat, 40, 40)

	term, out := newScriptedTerminal(t, Config{},
		"2", flat, "n",
		"4",
	)
	term.run()

	assert.Contains(t, out.String(), "No hidden message found.")
}

func TestTerminalValidation(t *testing.T) {
	dir := t.TempDir()
	carrier := filepath.Join(dir, "carrier.png")
	writeCarrier(t, carrier, 20, 20)

	term, out := newScriptedTerminal(t, Config{},
		"7",
		"1", filepath.Join(dir, "missing.png"),
		"1", carrier, "",
		"4",
	)
	term.run()

	assert.Contains(t, out.String(), "Invalid choice. Please try again.")
	assert.Contains(t, out.String(), "Error: Image not found!")
	assert.Contains(t, out.String(), "Error: Message cannot be empty!")
}

func TestTerminalRefusesLossyOutput(t *testing.T) {
	dir := t.TempDir()
	carrier := filepath.Join(dir, "carrier.png")
	writeCarrier(t, carrier, 20, 20)

	term, out := newScriptedTerminal(t, Config{},
		"1", carrier, "secret", "n", filepath.Join(dir, "encoded.jpg"),
		"4",
	)
	term.run()

	assert.Contains(t, out.String(), "Encoding cancelled. Please use PNG format.")
	assert.NoFileExists(t, filepath.Join(dir, "encoded.jpg"))
}

func TestTerminalMessageTooLong(t *testing.T) {
	dir := t.TempDir()
	carrier := filepath.Join(dir, "tiny.png")
	writeCarrier(t, carrier, 2, 2)

	term, out := newScriptedTerminal(t, Config{},
		"1", carrier, "this will never fit in twelve samples", "n", filepath.Join(dir, "out.png"),
		"4",
	)
	term.run()

	assert.Contains(t, out.String(), "Error: Message too long for this image.")
}

func TestTerminalInspect(t *testing.T) {
	dir := t.TempDir()
	carrier := filepath.Join(dir, "carrier.png")
	writeCarrier(t, carrier, 60, 40)

	t.Run("report", func(t *testing.T) {
		term, out := newScriptedTerminal(t, Config{},
			"3", carrier, "",
			"4",
		)
		term.run()

		assert.Contains(t, out.String(), "Dimensions:  60x40")
		assert.Contains(t, out.String(), "Samples:     7200")
		assert.Contains(t, out.String(), "Capacity:    891 bytes")
		assert.Contains(t, out.String(), "Embedding probability:")
	})
	t.Run("psnr against itself", func(t *testing.T) {
		term, out := newScriptedTerminal(t, Config{},
			"3", carrier, carrier,
			"4",
		)
		term.run()

		assert.Contains(t, out.String(), "PSNR vs original: +Inf dB")
	})
	t.Run("missing image", func(t *testing.T) {
		term, out := newScriptedTerminal(t, Config{},
			"3", filepath.Join(dir, "missing.png"),
			"4",
		)
		term.run()

		assert.Contains(t, out.String(), "Error: Image not found!")
	})
}

func TestTerminalExitsOnClosedInput(t *testing.T) {
	term, err := newTerminal(Config{}, nil)
	require.NoError(t, err)
	var out bytes.Buffer
	term.in = bufio.NewReader(strings.NewReader(""))
	term.out = &out

	term.run()

	assert.NotContains(t, out.String(), "Goodbye!")
}
