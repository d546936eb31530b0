package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

var (
	// TmpSweepDir is the base directory for sweep outputs
	TmpSweepDir = "/tmp/stego-sweep"
	// TmpSweepEmbeddedImagesDir is the directory for embedded image cache
	TmpSweepEmbeddedImagesDir = "/tmp/stego-sweep-embedded-images"
)

func main() {
	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Println("\n=== LSB Capacity Sweep Tool ===")
		fmt.Println("1. Run sweep experiments (save to database)")
		fmt.Println("2. Visualize results from the database")
		fmt.Println("3. Analyze carrier quality (PSNR vs Recovery Rate)")
		fmt.Println("4. Start HTTP server to view visualizations")
		fmt.Println("5. Exit")
		fmt.Print("\nSelect an option (1-5): ")

		input, _ := reader.ReadString('\n')
		input = strings.TrimSpace(input)

		switch input {
		case "1":
			fmt.Println("\n--- Running Sweep Experiments ---")

			// Get number of corpus photos
			fmt.Print("Number of corpus photos to test (default: 4, 0 for synthetic only): ")
			numPhotosStr, _ := reader.ReadString('\n')
			numPhotosStr = strings.TrimSpace(numPhotosStr)
			numPhotos := 4
			if numPhotosStr != "" {
				if val, err := strconv.Atoi(numPhotosStr); err == nil {
					numPhotos = val
				}
			}

			// Get offset
			fmt.Print("Offset to start from (default: 0): ")
			offsetStr, _ := reader.ReadString('\n')
			offsetStr = strings.TrimSpace(offsetStr)
			offset := 0
			if offsetStr != "" {
				if val, err := strconv.Atoi(offsetStr); err == nil {
					offset = val
				}
			}

			// Get capacity ratio upper bound
			fmt.Print("Capacity ratio upper bound (default: 1.0): ")
			maxRatioStr, _ := reader.ReadString('\n')
			maxRatioStr = strings.TrimSpace(maxRatioStr)
			maxRatio := 1.0
			if maxRatioStr != "" {
				if val, err := strconv.ParseFloat(maxRatioStr, 64); err == nil {
					maxRatio = val
				}
			}

			fmt.Printf("\nStarting with: numPhotos=%d, offset=%d, maxRatio=%.2f\n\n",
				numPhotos, offset, maxRatio)

			runMain(numPhotos, offset, maxRatio)
		case "2":
			fmt.Println("\n--- Visualizing Results ---")

			// Get output directory
			fmt.Printf("Output directory for visualizations (default: %s): ", TmpSweepDir)
			outputDir, _ := reader.ReadString('\n')
			outputDir = strings.TrimSpace(outputDir)
			if outputDir == "" {
				outputDir = TmpSweepDir
			}

			fmt.Printf("\nVisualizing: outputDir=%s\n\n", outputDir)

			visualizeMain(outputDir)
		case "3":
			fmt.Println("\n--- Analyzing Carrier Quality ---")

			// Get output directory
			fmt.Printf("Output directory for quality analysis (default: %s): ", TmpSweepDir)
			outputDir, _ := reader.ReadString('\n')
			outputDir = strings.TrimSpace(outputDir)
			if outputDir == "" {
				outputDir = TmpSweepDir
			}

			fmt.Printf("\nAnalyzing quality: outputDir=%s\n\n", outputDir)

			qualityMain(outputDir)
		case "4":
			fmt.Println("\n--- Starting HTTP Server ---")

			// Get server directory
			fmt.Printf("Directory to serve (default: %s): ", TmpSweepDir)
			serverDir, _ := reader.ReadString('\n')
			serverDir = strings.TrimSpace(serverDir)
			if serverDir == "" {
				serverDir = TmpSweepDir
			}

			fmt.Println("Server will start at http://localhost:8080")
			fmt.Println("Press Ctrl+C to stop the server")
			fmt.Println()

			startHTTPServer(serverDir)
		case "5":
			fmt.Println("Exiting...")
			closeDatabase()
			os.Exit(0)
		default:
			fmt.Println("Invalid option. Please select 1-5.")
		}
	}
}

func init() {
	// mkdir tmp directories
	os.MkdirAll(TmpSweepDir, 0755)
	os.MkdirAll(TmpSweepEmbeddedImagesDir, 0755)
}
