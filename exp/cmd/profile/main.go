package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"exp/internal/corpus"

	stego "github.com/yyyoichi/stego_lsb"
	"github.com/yyyoichi/stego_lsb/imgio"
	"github.com/yyyoichi/stego_lsb/steganalysis"
)

// This tool creates overlay PNGs showing which regions of a carrier the
// chi-square detector flags after embedding. It saves outputs under
// /tmp/stego-profile/.

func main() {
	idx := flag.Int("i", 10, "corpus photo index to process (0-based)")
	synthetic := flag.String("carrier", "", "synthetic carrier name to use instead of a corpus photo")
	outDir := flag.String("out", "/tmp/stego-profile", "output directory")
	flag.Parse()

	// Parameters (can be expanded)
	carrierSizes := [][]int{{426, 240}}
	payloadSizes := []int{512, 2048, 8192}
	window := steganalysis.DefaultWindow

	source := *synthetic
	tag := *synthetic
	if source == "" {
		urls := corpus.ParseURLs()
		if len(urls) == 0 {
			log.Fatal("no corpus URLs available in corpus package")
		}
		if *idx < 0 || *idx >= len(urls) {
			log.Fatalf("photo index %d out of range (0..%d)", *idx, len(urls)-1)
		}
		source = urls[*idx]
		tag = fmt.Sprintf("%03d", *idx)
	}

	// Ensure output dir
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("failed to create out dir: %v", err)
	}

	ctx := context.Background()

	for _, size := range carrierSizes {
		for _, payloadSize := range payloadSizes {
			width, height := size[0], size[1]
			carrier, err := fetchCarrier(source, width, height)
			if err != nil {
				log.Printf("error fetching carrier: %v", err)
				continue
			}

			// Embed
			message := profileText(payloadSize)
			samples, err := stego.Encode(ctx, carrier.Pixels, message)
			if err != nil {
				log.Printf("embed error: %v", err)
				continue
			}
			embedded, err := carrier.WithPixels(samples)
			if err != nil {
				log.Printf("rebuild error: %v", err)
				continue
			}

			// Per-window detection probabilities plus whole-image metrics
			probs := steganalysis.Profile(embedded.Pixels, window)
			probability := steganalysis.EmbeddingProbability(embedded.Pixels)
			psnr, err := steganalysis.PSNR(carrier.Pixels, embedded.Pixels)
			if err != nil {
				log.Printf("psnr error: %v", err)
				continue
			}

			// Build overlay image: red stripes where the detector fires
			out := image.NewRGBA(image.Rect(0, 0, width, height))
			draw.Draw(out, out.Bounds(), embedded.ToImage(), image.Point{}, draw.Src)

			hotWindows := 0
			for wi, p := range probs {
				if p < 0.5 {
					continue
				}
				hotWindows++

				startPixel := wi * window / 3
				endPixel := (wi + 1) * window / 3
				y0 := startPixel / width
				y1 := endPixel/width + 1
				if y1 > height {
					y1 = height
				}
				red := color.RGBA{R: 255, G: 0, B: 0, A: uint8(60 + p*120)}
				blendRect(out, image.Rect(0, y0, width, y1), red)
			}

			// Save PNG
			fname := fmt.Sprintf("car%s_%dx%d_p%05d_prob%03.0f_hot%03d.png",
				tag, width, height, payloadSize, probability*100, hotWindows)
			outPath := filepath.Join(*outDir, fname)
			f, err := os.Create(outPath)
			if err != nil {
				log.Printf("failed to create out file: %v", err)
				continue
			}
			if err := png.Encode(f, out); err != nil {
				log.Printf("failed to encode png: %v", err)
			}
			_ = f.Close()
			log.Printf("wrote %s (overall probability: %.3f, hot windows: %d/%d, psnr=%.1f)\n",
				outPath, probability, hotWindows, len(probs), psnr)
		}
	}
}

func fetchCarrier(source string, width, height int) (imgio.Image, error) {
	if strings.HasPrefix(source, "http") {
		return corpus.FetchCarrierWithSize(source, width, height)
	}
	return corpus.Synthetic(source, width, height)
}

// profileText builds a printable message of exactly n bytes
func profileText(n int) string {
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

// blendRect blends a semi-opaque overlay color into dst for every pixel inside r.
// dst must be *image.RGBA.
func blendRect(dst *image.RGBA, r image.Rectangle, c color.RGBA) {
	// clamp rectangle to dst bounds
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	a := float64(c.A) / 255.0
	invA := 1.0 - a
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			i := dst.PixOffset(x, y)
			or := float64(dst.Pix[i+0])
			og := float64(dst.Pix[i+1])
			ob := float64(dst.Pix[i+2])
			oa := float64(dst.Pix[i+3]) / 255.0

			nr := uint8(a*float64(c.R) + invA*or)
			ng := uint8(a*float64(c.G) + invA*og)
			nb := uint8(a*float64(c.B) + invA*ob)
			// new alpha keep as fully opaque (preserve original alpha)
			na := uint8((oa) * 255)

			dst.Pix[i+0] = nr
			dst.Pix[i+1] = ng
			dst.Pix[i+2] = nb
			dst.Pix[i+3] = na
		}
	}
}
