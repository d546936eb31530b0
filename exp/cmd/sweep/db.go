package main

import (
	"exp/internal/corpus"
	"exp/internal/db"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/yyyoichi/stego_lsb/armor"
)

// Global database instance
var database *db.DB

// Database configuration
const dbFilename = "sweep_results.db"

var (
	ArmorSchemeNone      = "NoArmor"
	ArmorSchemeGolay     = "Golay"
	ArmorSchemeGolayZstd = "G-Zstd"
)

func init() {
	// Initialize database
	dbDir := filepath.Join("/tmp/stego-sweep-db")
	// Create directory if it doesn't exist
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}

	dbPath := filepath.Join(dbDir, dbFilename)
	var err error
	database, err = db.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	log.Printf("Database initialized: %s\n", dbPath)

	// Insert carriers and sizes
	{
		// Standard video dimensions, smallest to largest
		var defaultCarrierSizes = [][]int{
			{426, 240},
			{640, 360},
			{854, 480},
			{1280, 720},
			{1920, 1080},
		}
		sources := append([]string{}, corpus.SyntheticNames...)
		sources = append(sources, corpus.ParseURLs()...)
		for _, source := range sources {
			carrierID, err := database.InsertCarrier(source)
			if err != nil {
				log.Printf("Failed to insert carrier %s: %v", source, err)
				continue
			}
			for _, size := range defaultCarrierSizes {
				if _, err := database.InsertCarrierSize(carrierID, size[0], size[1]); err != nil {
					log.Printf("Failed to insert carrier size %dx%d: %v", size[0], size[1], err)
				}
			}
		}
	}
	// Insert payloads and armored variants
	{
		// Message lengths in bytes, spanning tiny notes to near frame capacity
		var defaultPayloadSizes = []int{16, 256, 1024, 4096, 16384, 49152}
		for _, size := range defaultPayloadSizes {
			content := []byte(payloadText(size))
			payloadID, err := database.InsertPayload(content, size)
			if err != nil {
				log.Printf("Failed to insert payload (%dB): %v", size, err)
				continue
			}

			transports := map[string]string{
				ArmorSchemeNone: string(content),
			}
			if golay, err := armor.Encode(content); err != nil {
				log.Printf("Failed to armor payload (%dB): %v", size, err)
			} else {
				transports[ArmorSchemeGolay] = golay
			}
			if zstd, err := armor.Encode(content, armor.WithZstd()); err != nil {
				log.Printf("Failed to armor payload with zstd (%dB): %v", size, err)
			} else {
				transports[ArmorSchemeGolayZstd] = zstd
			}

			for scheme, transport := range transports {
				if _, err := database.InsertArmoredPayload(payloadID, transport, len(transport), scheme); err != nil {
					log.Printf("Failed to insert armored payload %s (%dB): %v", scheme, size, err)
				}
			}
		}
	}
	// Insert scan params
	{
		var scanParams = [][]int{
			{10_000, 10},
			{200_000, 10},
			{2_000_000, 10},
			{2_000_000, 3},
		}
		for _, sp := range scanParams {
			if _, err := database.InsertScanParam(sp[0], sp[1]); err != nil {
				log.Printf("Failed to insert scan param (limit=%d, abort=%d): %v", sp[0], sp[1], err)
			}
		}
	}
}

// payloadText builds a printable message of exactly n bytes
func payloadText(n int) string {
	const pangram = "Sphinx of black quartz, judge my vow. "
	var b strings.Builder
	b.Grow(n)
	for b.Len() < n {
		remaining := n - b.Len()
		if remaining < len(pangram) {
			b.WriteString(pangram[:remaining])
		} else {
			b.WriteString(pangram)
		}
	}
	return b.String()
}

// closeDatabase should be called on program exit
func closeDatabase() {
	if database != nil {
		if err := database.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}
}
