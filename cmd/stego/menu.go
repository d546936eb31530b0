package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	stego "github.com/yyyoichi/stego_lsb"
	"github.com/yyyoichi/stego_lsb/armor"
	"github.com/yyyoichi/stego_lsb/imgio"
	"github.com/yyyoichi/stego_lsb/steganalysis"
)

// terminal drives the interactive menu. Input and output are fields so
// tests can script a session.
type terminal struct {
	in     *bufio.Reader
	out    io.Writer
	codec  *stego.Stego
	armor  *armor.Armor
	logger *zap.Logger
}

func newTerminal(cfg Config, logger *zap.Logger) (*terminal, error) {
	var opts []stego.Option
	if cfg.ScanLimit > 0 {
		opts = append(opts, stego.WithScanLimit(cfg.ScanLimit))
	}
	if cfg.AbortThreshold > 0 {
		opts = append(opts, stego.WithAbortThreshold(cfg.AbortThreshold))
	}
	codec, err := stego.New(opts...)
	if err != nil {
		return nil, err
	}
	seed := cfg.ArmorSeed
	if seed == 0 {
		seed = armor.DefaultShuffleSeed
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &terminal{
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		codec:  codec,
		armor:  armor.New(armor.WithGolay(seed), armor.WithZstd()),
		logger: logger,
	}, nil
}

func (t *terminal) run() {
	for {
		fmt.Fprintln(t.out)
		fmt.Fprintln(t.out, strings.Repeat("=", 50))
		fmt.Fprintln(t.out, "IMAGE STEGANOGRAPHY TOOL - TERMINAL MODE")
		fmt.Fprintln(t.out, strings.Repeat("=", 50))
		fmt.Fprintln(t.out, "1. Encode message into image")
		fmt.Fprintln(t.out, "2. Decode message from image")
		fmt.Fprintln(t.out, "3. Inspect image for hidden data")
		fmt.Fprintln(t.out, "4. Exit")

		choice, ok := t.prompt("Enter your choice (1-4): ")
		if !ok {
			return
		}
		switch choice {
		case "1":
			t.encode()
		case "2":
			t.decode()
		case "3":
			t.inspect()
		case "4":
			fmt.Fprintln(t.out, "Goodbye!")
			return
		default:
			fmt.Fprintln(t.out, "Invalid choice. Please try again.")
		}
	}
}

func (t *terminal) encode() {
	fmt.Fprintln(t.out)
	fmt.Fprintln(t.out, "--- ENCODE MESSAGE ---")
	path, ok := t.prompt("Enter path to input image: ")
	if !ok {
		return
	}
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintln(t.out, "Error: Image not found!")
		return
	}
	message, ok := t.prompt("Enter secret message: ")
	if !ok {
		return
	}
	if message == "" {
		fmt.Fprintln(t.out, "Error: Message cannot be empty!")
		return
	}
	armored, ok := t.promptYesNo("Protect message with error correction? (y/N): ")
	if !ok {
		return
	}
	outPath, ok := t.prompt("Enter output image path (with extension): ")
	if !ok {
		return
	}
	if outPath == "" {
		outPath = "encoded_image.png"
		fmt.Fprintf(t.out, "Using default output path: %s\n", outPath)
	}

	img, err := imgio.Load(path)
	if err != nil {
		fmt.Fprintf(t.out, "Error encoding message: %v\n", err)
		return
	}
	payload := message
	if armored {
		payload, err = t.armor.Encode([]byte(message))
		if err != nil {
			fmt.Fprintf(t.out, "Error encoding message: %v\n", err)
			return
		}
	}
	samples, err := t.codec.Encode(context.Background(), img.Pixels, payload)
	if err != nil {
		if errors.Is(err, stego.ErrMessageTooLarge) {
			fmt.Fprintln(t.out, "Error: Message too long for this image.")
			return
		}
		fmt.Fprintf(t.out, "Error encoding message: %v\n", err)
		return
	}
	encoded, err := img.WithPixels(samples)
	if err != nil {
		fmt.Fprintf(t.out, "Error encoding message: %v\n", err)
		return
	}
	if err := imgio.Save(outPath, encoded); err != nil {
		if errors.Is(err, imgio.ErrLossyFormat) {
			fmt.Fprintln(t.out, "Encoding cancelled. Please use PNG format.")
			return
		}
		fmt.Fprintf(t.out, "Error encoding message: %v\n", err)
		return
	}
	t.logger.Info("message encoded",
		zap.String("carrier", path),
		zap.String("output", outPath),
		zap.Int("message_bytes", len(message)),
		zap.Bool("armored", armored),
	)
	fmt.Fprintf(t.out, "Message successfully hidden in %s\n", outPath)
}

func (t *terminal) decode() {
	fmt.Fprintln(t.out)
	fmt.Fprintln(t.out, "--- DECODE MESSAGE ---")
	path, ok := t.prompt("Enter path to encoded image: ")
	if !ok {
		return
	}
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintln(t.out, "Error: Image not found!")
		return
	}
	armored, ok := t.promptYesNo("Was the message protected with error correction? (y/N): ")
	if !ok {
		return
	}

	img, err := imgio.Load(path)
	if err != nil {
		fmt.Fprintf(t.out, "Error decoding message: %v\n", err)
		return
	}
	message, err := t.codec.Decode(context.Background(), img.Pixels)
	if err != nil {
		var partial *stego.PartialMessageError
		if errors.As(err, &partial) {
			fmt.Fprintf(t.out, "Message appears incomplete or corrupted: %q\n", partial.Preview)
			return
		}
		fmt.Fprintln(t.out, "No hidden message found.")
		return
	}
	if armored {
		payload, err := t.armor.Decode(message)
		if err != nil {
			fmt.Fprintf(t.out, "Error decoding message: %v\n", err)
			return
		}
		message = string(payload)
	}
	t.logger.Info("message decoded",
		zap.String("carrier", path),
		zap.Int("message_bytes", len(message)),
		zap.Bool("armored", armored),
	)
	fmt.Fprintln(t.out, "Decoded message:")
	fmt.Fprintln(t.out, message)
}

func (t *terminal) inspect() {
	fmt.Fprintln(t.out)
	fmt.Fprintln(t.out, "--- INSPECT IMAGE ---")
	path, ok := t.prompt("Enter path to image: ")
	if !ok {
		return
	}
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintln(t.out, "Error: Image not found!")
		return
	}
	img, err := imgio.Load(path)
	if err != nil {
		fmt.Fprintf(t.out, "Error inspecting image: %v\n", err)
		return
	}

	samples := len(img.Pixels)
	fmt.Fprintf(t.out, "Dimensions:  %dx%d\n", img.Width, img.Height)
	fmt.Fprintf(t.out, "Samples:     %d\n", samples)
	fmt.Fprintf(t.out, "Capacity:    %d bytes\n", stego.Capacity(samples))
	fmt.Fprintf(t.out, "Embedding probability: %.4f\n", steganalysis.EmbeddingProbability(img.Pixels))
	profile := steganalysis.Profile(img.Pixels, 0)
	if len(profile) > 8 {
		profile = profile[:8]
	}
	if len(profile) > 0 {
		fmt.Fprint(t.out, "Window profile:")
		for _, p := range profile {
			fmt.Fprintf(t.out, " %.2f", p)
		}
		fmt.Fprintln(t.out)
	}

	refPath, ok := t.prompt("Enter path to original image for PSNR (optional): ")
	if !ok || refPath == "" {
		return
	}
	ref, err := imgio.Load(refPath)
	if err != nil {
		fmt.Fprintf(t.out, "Error inspecting image: %v\n", err)
		return
	}
	psnr, err := steganalysis.PSNR(ref.Pixels, img.Pixels)
	if err != nil {
		fmt.Fprintf(t.out, "Error inspecting image: %v\n", err)
		return
	}
	fmt.Fprintf(t.out, "PSNR vs original: %.2f dB\n", psnr)
}

// prompt prints a label and returns the trimmed input line. The second
// return value is false once input is exhausted.
func (t *terminal) prompt(label string) (string, bool) {
	fmt.Fprint(t.out, label)
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}

func (t *terminal) promptYesNo(label string) (bool, bool) {
	answer, ok := t.prompt(label)
	if !ok {
		return false, false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, true
	default:
		return false, true
	}
}
