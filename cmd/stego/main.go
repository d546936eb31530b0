// Command stego hides and recovers text messages in images.
//
// It runs in two modes, picked interactively at startup or forced with
// --serve: a terminal menu for encode/decode/inspect on local files, and
// a web UI with the same operations over HTTP.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

func main() {
	args := os.Args[1:]
	cfg, err := loadConfig(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	logger, err := buildLogger(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if hasFlag(args, "--serve") {
		if err := runWeb(cfg, logger); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("WELCOME TO IMAGE STEGANOGRAPHY TOOL")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("Choose your preferred mode:")
	fmt.Println("1. Terminal Mode")
	fmt.Println("2. GUI Mode (Web)")

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("\nEnter your choice (1 or 2): ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		switch strings.TrimSpace(line) {
		case "1":
			t, err := newTerminal(cfg, logger)
			if err != nil {
				fmt.Fprintln(os.Stderr, "Error:", err)
				os.Exit(1)
			}
			t.run()
			return
		case "2":
			if err := runWeb(cfg, logger); err != nil {
				fmt.Fprintln(os.Stderr, "Error:", err)
				os.Exit(1)
			}
			return
		default:
			fmt.Println("Invalid choice. Please enter 1 or 2.")
		}
	}
}
