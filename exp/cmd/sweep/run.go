package main

import (
	"bytes"
	"context"
	"exp/internal/corpus"
	"exp/internal/db"
	"fmt"
	"log"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	stego "github.com/yyyoichi/stego_lsb"
	"github.com/yyyoichi/stego_lsb/armor"
	"github.com/yyyoichi/stego_lsb/imgio"
	"github.com/yyyoichi/stego_lsb/steganalysis"
)

func runMain(numPhotos, offset int, maxRatio float64) {
	ctx := context.Background()

	// Synthetic carriers always run; corpus photos are optional
	sources := append([]string{}, corpus.SyntheticNames...)
	if numPhotos > 0 {
		urls := corpus.ParseURLs()
		if len(urls) == 0 {
			log.Fatal("No corpus URLs found")
		}
		if offset >= len(urls) {
			log.Fatalf("Offset %d is beyond available photos (%d)", offset, len(urls))
		}
		urls = urls[offset:]
		if numPhotos < len(urls) {
			urls = urls[:numPhotos]
		}
		sources = append(sources, urls...)
	}

	log.Printf("Starting capacity sweep with %d carriers (offset=%d)\n", len(sources), offset)

	payloads, err := database.ListPayloads()
	if err != nil {
		log.Fatalf("Failed to list payloads: %v", err)
	}
	if len(payloads) == 0 {
		log.Fatal("No payloads found in database")
	}
	var transports []TestTransport
	{
		for _, payload := range payloads {
			armored, err := database.ListArmoredPayloads(payload.ID)
			if err != nil {
				log.Fatalf("Failed to list armored payloads: %v", err)
			}
			for _, a := range armored {
				transports = append(transports, TestTransport{
					payload: payload,
					armored: a,
				})
			}
		}
	}
	// Get scan params
	scanParams, err := database.ListScanParams()
	if err != nil {
		log.Printf("Failed to list scan params: %v", err)
	}

	for i, source := range sources {
		log.Printf("\n[%d/%d] Testing carrier: %s\n", i+1, len(sources), source)

		// Get carrier ID from map (already registered in init)
		carrierID, err := database.InsertCarrier(source)
		if err != nil {
			log.Printf("Failed to insert carrier %s: %v", source, err)
			continue
		}

		// Get all sizes for this carrier from DB
		carrierSizes, err := database.ListCarrierSizes(carrierID)
		if err != nil {
			log.Printf("Failed to get carrier sizes: %v\n", err)
			continue
		}

		for _, carrierSize := range carrierSizes {
			width, height := carrierSize.Width, carrierSize.Height
			sizeKey := fmt.Sprintf("%dx%d", width, height)
			log.Printf("  Size: %s\n", sizeKey)

			carrier, err := fetchCarrier(source, width, height)
			if err != nil {
				log.Printf("    Error fetching carrier: %v\n", err)
				continue
			}

			capacityBytes := stego.Capacity(len(carrier.Pixels))

			var testParams []TestParams
			for _, transport := range transports {
				capacityRatio := float64(transport.armored.Size) / float64(capacityBytes)
				if capacityRatio > maxRatio {
					continue
				}
				for _, scanParam := range scanParams {
					if exists, err := database.ResultExists(carrierSize.ID, transport.armored.ID, scanParam.ID); err != nil {
						log.Printf("    Failed to check existing result: %v", err)
						continue
					} else if exists {
						// continue
					}
					testParams = append(testParams, TestParams{
						CarrierID:     carrierID,
						CarrierSizeID: carrierSize.ID,
						ScanParamID:   scanParam.ID,

						ScanLimit:      scanParam.ScanLimit,
						AbortThreshold: scanParam.AbortThreshold,
						ImageWidth:     width,
						ImageHeight:    height,

						Transport: transport,

						CapacityBytes:     capacityBytes,
						CapacityRatio:     capacityRatio,
						CarrierName:       fmt.Sprintf("%03d", i),
						OriginalImagePath: originalPath(source, width, height),
					})
				}
			}

			if len(testParams) == 0 {
				log.Printf("    No tests to run for this size (all filtered out)\n")
				continue
			}

			// Create channels
			numWorkers := runtime.GOMAXPROCS(0)
			testParamsCh := make(chan TestParams, numWorkers)
			resultCh := make(chan *TestResult, len(testParams))

			// Start worker goroutines
			var wg sync.WaitGroup
			wg.Add(numWorkers)
			for range numWorkers {
				go func() {
					defer wg.Done()
					for params := range testParamsCh {
						result := testEmbed(ctx, carrier, params)
						resultCh <- result
					}
				}()
			}
			go func() {
				defer close(resultCh)
				wg.Wait()
			}()

			// Send test parameters
			go func() {
				defer close(testParamsCh)
				for _, params := range testParams {
					testParamsCh <- params
				}
			}()

			// Collect results
			for result := range resultCh {
				if result == nil {
					continue
				}
				params := result.TestParams
				// Insert result to database
				dbResult := &db.Result{
					CarrierSizeID:     params.CarrierSizeID,
					ArmoredPayloadID:  params.Transport.armored.ID,
					ScanParamID:       params.ScanParamID,
					OriginalImagePath: params.OriginalImagePath,
					EmbedImagePath:    params.EmbeddedImagePath(TmpSweepEmbeddedImagesDir),
					CapacityRatio:     params.CapacityRatio,
					CapacityBytes:     params.CapacityBytes,
					Probability:       result.Probability,
					Recovered:         result.Recovered,
					Success:           result.Success,
					PSNR:              result.PSNR,
					DurationMS:        float64(result.Duration.Microseconds()) / 1000,
				}

				if _, err := database.InsertResult(dbResult); err != nil {
					log.Printf("Failed to insert result: %v", err)
				}
			}
		}
	}
}

// TestParams holds parameters for a single test
type TestParams struct {
	CarrierID     int64
	CarrierSizeID int64
	ScanParamID   int64

	ScanLimit      int
	AbortThreshold int
	ImageWidth     int
	ImageHeight    int

	Transport TestTransport

	CapacityBytes     int
	CapacityRatio     float64
	CarrierName       string
	OriginalImagePath string
}
type TestTransport struct {
	payload *db.Payload
	armored *db.ArmoredPayload
}

// TestResult holds the test outcome
type TestResult struct {
	TestParams  *TestParams
	Probability float64
	Recovered   bool
	Success     bool
	PSNR        float64
	Duration    time.Duration
}

func testEmbed(ctx context.Context, carrier imgio.Image, params TestParams) *TestResult {
	start := time.Now()

	embeddedPath := params.EmbeddedImagePath(TmpSweepEmbeddedImagesDir)
	embedded, err := getEmbedImage(embeddedPath)
	if err != nil {
		// Embed
		samples, err := stego.Encode(ctx, carrier.Pixels, params.Transport.armored.Transport)
		if err != nil {
			log.Printf("    [FAIL] Size=%dx%d Payload=%dB Armor=%s CR=%.2f - Embed error: %v\n",
				params.ImageWidth, params.ImageHeight, params.Transport.payload.Size,
				params.Transport.armored.SchemeName, params.CapacityRatio, err)
			return nil
		}
		embeddedImg, err := carrier.WithPixels(samples)
		if err != nil {
			log.Printf("    [FAIL] Size=%dx%d Payload=%dB Armor=%s CR=%.2f - Rebuild error: %v\n",
				params.ImageWidth, params.ImageHeight, params.Transport.payload.Size,
				params.Transport.armored.SchemeName, params.CapacityRatio, err)
			return nil
		}

		// Save embedded image for caching
		if err := saveEmbedImage(embeddedPath, embeddedImg); err != nil {
			log.Printf("    [WARN] Size=%dx%d Payload=%dB Armor=%s CR=%.2f - Save embed cache error: %v\n",
				params.ImageWidth, params.ImageHeight, params.Transport.payload.Size,
				params.Transport.armored.SchemeName, params.CapacityRatio, err)
			return nil
		}
		embedded = embeddedImg
	}

	// Decode with the scan parameters under test
	codec, err := stego.New(
		stego.WithScanLimit(params.ScanLimit),
		stego.WithAbortThreshold(params.AbortThreshold),
	)
	if err != nil {
		log.Printf("    [FAIL] Size=%dx%d Payload=%dB Armor=%s CR=%.2f - Codec error: %v\n",
			params.ImageWidth, params.ImageHeight, params.Transport.payload.Size,
			params.Transport.armored.SchemeName, params.CapacityRatio, err)
		return nil
	}

	var recovered, success bool
	if message, err := codec.Decode(ctx, embedded.Pixels); err == nil {
		recovered = true
		if content, err := decodeTransport(message, params.Transport.armored.SchemeName); err == nil {
			success = bytes.Equal(content, params.Transport.payload.Content)
		}
	}

	// Steganalysis metrics
	probability := steganalysis.EmbeddingProbability(embedded.Pixels)
	psnr, err := steganalysis.PSNR(carrier.Pixels, embedded.Pixels)
	if err != nil {
		log.Printf("    [WARN] Failed to calculate PSNR: %v\n", err)
	}

	duration := time.Since(start)

	status := "FAIL"
	if success {
		status = "OK"
	}
	psnrStr := fmt.Sprintf(" PSNR=%.1f", psnr)
	log.Printf("    [%s] Size=%dx%d Payload=%dB Armor=%s Scan=%d CR=%.2f - P=%.3f Rec=%t T=%v%s\n",
		status, params.ImageWidth, params.ImageHeight, params.Transport.payload.Size,
		params.Transport.armored.SchemeName, params.ScanLimit, params.CapacityRatio,
		probability, recovered, duration, psnrStr)

	return &TestResult{&params, probability, recovered, success, psnr, duration}
}

func (params TestParams) EmbeddedImagePath(embeddedDir string) string {
	embeddedFilename := fmt.Sprintf("car%s_%dx%d_p%05d_%s.png",
		params.CarrierName,
		params.ImageWidth, params.ImageHeight,
		params.Transport.payload.Size,
		params.Transport.armored.SchemeName,
	)
	return filepath.Join(embeddedDir, embeddedFilename)
}

func fetchCarrier(source string, width, height int) (imgio.Image, error) {
	if strings.HasPrefix(source, "http") {
		return corpus.FetchCarrierWithSize(source, width, height)
	}
	return corpus.Synthetic(source, width, height)
}

func originalPath(source string, width, height int) string {
	if strings.HasPrefix(source, "http") {
		return corpus.GetCachedCarrierPath(source, width, height)
	}
	return source
}

func saveEmbedImage(path string, img imgio.Image) error {
	if err := imgio.Save(path, img); err != nil {
		return fmt.Errorf("failed to save embedded image: %w", err)
	}
	return nil
}

func getEmbedImage(path string) (imgio.Image, error) {
	return imgio.Load(path)
}

func decodeTransport(message, scheme string) ([]byte, error) {
	switch scheme {
	case ArmorSchemeNone:
		return []byte(message), nil
	case ArmorSchemeGolay, ArmorSchemeGolayZstd:
		// The frame records compression in its flags, so one decoder covers both
		return armor.Decode(message)
	}
	return nil, fmt.Errorf("unknown armor scheme: %q", scheme)
}
