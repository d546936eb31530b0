// Package imgio loads and stores carrier images as flat RGB sample buffers.
//
// Decoding accepts png, jpeg, gif, bmp, tiff and webp input. Encoding is
// restricted to lossless formats, since lossy compression destroys data
// held in the low bits of each sample.
package imgio

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	_ "golang.org/x/image/webp"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
)

var (
	ErrLossyFormat       = errors.New("lossy image format")
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// Image is a decoded carrier. Pixels holds row-major RGB triples, one byte
// per channel, so a WxH image carries W*H*3 samples.
type Image struct {
	Width, Height int
	Pixels        []byte
}

// FromImage flattens src into RGB samples. The alpha channel is discarded.
func FromImage(src image.Image) Image {
	bounds := src.Bounds()
	img := Image{Width: bounds.Dx(), Height: bounds.Dy()}
	img.Pixels = make([]byte, img.Width*img.Height*3)
	idx := 0
	for y := range img.Height {
		for x := range img.Width {
			r, g, b, _ := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			img.Pixels[idx] = byte(r >> 8)
			img.Pixels[idx+1] = byte(g >> 8)
			img.Pixels[idx+2] = byte(b >> 8)
			idx += 3
		}
	}
	return img
}

// ToImage rebuilds an opaque image from the sample buffer.
func (i Image) ToImage() image.Image {
	dist := image.NewRGBA(image.Rect(0, 0, i.Width, i.Height))
	idx := 0
	for y := range i.Height {
		for x := range i.Width {
			dist.SetRGBA(x, y, color.RGBA{i.Pixels[idx], i.Pixels[idx+1], i.Pixels[idx+2], 255})
			idx += 3
		}
	}
	return dist
}

// WithPixels returns a copy of the image carrying the given samples, which
// must match the existing buffer in length.
func (i Image) WithPixels(pixels []byte) (Image, error) {
	if len(pixels) != len(i.Pixels) {
		return Image{}, fmt.Errorf("pixel buffer is %d bytes, want %d for %dx%d", len(pixels), len(i.Pixels), i.Width, i.Height)
	}
	i.Pixels = append([]byte(nil), pixels...)
	return i, nil
}

// Load reads the image at path in any registered format.
func Load(path string) (Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return Image{}, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads an image from r in any registered format.
func Decode(r io.Reader) (Image, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return Image{}, fmt.Errorf("%w:%w", ErrUnsupportedFormat, err)
		}
		return Image{}, err
	}
	return FromImage(src), nil
}

// Save writes the image to path in the format named by its extension.
// Lossy extensions are refused with ErrLossyFormat.
func Save(path string, img Image) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch format {
	case "png", "bmp", "tiff", "tif":
	case "jpg", "jpeg", "gif":
		return fmt.Errorf("%w: %s", ErrLossyFormat, format)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, img, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Encode writes the image to w in the named format.
// Lossy formats are refused with ErrLossyFormat.
func Encode(w io.Writer, img Image, format string) error {
	switch strings.ToLower(format) {
	case "png":
		return png.Encode(w, img.ToImage())
	case "bmp":
		return bmp.Encode(w, img.ToImage())
	case "tiff", "tif":
		return tiff.Encode(w, img.ToImage(), nil)
	case "jpg", "jpeg", "gif":
		return fmt.Errorf("%w: %s", ErrLossyFormat, format)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
