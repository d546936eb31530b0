package imgio_test

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yyyoichi/stego_lsb/imgio"
)

// makeImage builds a width x height gradient carrier.
func makeImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			r := uint8(x * 255 / width)
			g := uint8(y * 255 / height)
			b := uint8((x + y) * 255 / (width + height))
			img.Set(x, y, color.RGBA{r, g, b, 255})
		}
	}
	return img
}

func TestFromImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.SetRGBA(0, 0, color.RGBA{10, 20, 30, 255})
	src.SetRGBA(1, 0, color.RGBA{40, 50, 60, 255})
	src.SetRGBA(0, 1, color.RGBA{70, 80, 90, 255})
	src.SetRGBA(1, 1, color.RGBA{100, 110, 120, 255})

	img := imgio.FromImage(src)
	assert.Equal(t, 2, img.Width)
	assert.Equal(t, 2, img.Height)
	assert.Equal(t, []byte{
		10, 20, 30, 40, 50, 60,
		70, 80, 90, 100, 110, 120,
	}, img.Pixels)
}

func TestToImageRoundTrip(t *testing.T) {
	img := imgio.FromImage(makeImage(33, 17))
	again := imgio.FromImage(img.ToImage())
	assert.Equal(t, img, again)
}

func TestEncodeDecodeLossless(t *testing.T) {
	img := imgio.FromImage(makeImage(20, 12))
	for _, format := range []string{"png", "bmp", "tiff"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, imgio.Encode(&buf, img, format))

			decoded, err := imgio.Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, img, decoded)
		})
	}
}

func TestEncodeRefusesLossy(t *testing.T) {
	img := imgio.FromImage(makeImage(4, 4))
	for _, format := range []string{"jpg", "jpeg", "gif"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			err := imgio.Encode(&buf, img, format)
			assert.ErrorIs(t, err, imgio.ErrLossyFormat)
			assert.Zero(t, buf.Len())
		})
	}
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	img := imgio.FromImage(makeImage(16, 16))

	t.Run("png", func(t *testing.T) {
		path := filepath.Join(dir, "carrier.png")
		require.NoError(t, imgio.Save(path, img))

		loaded, err := imgio.Load(path)
		require.NoError(t, err)
		assert.Equal(t, img, loaded)
	})
	t.Run("lossy_extension", func(t *testing.T) {
		path := filepath.Join(dir, "carrier.jpg")
		err := imgio.Save(path, img)
		assert.ErrorIs(t, err, imgio.ErrLossyFormat)

		// no file is left behind
		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})
	t.Run("unknown_extension", func(t *testing.T) {
		err := imgio.Save(filepath.Join(dir, "carrier.webp"), img)
		assert.ErrorIs(t, err, imgio.ErrUnsupportedFormat)
	})
	t.Run("no_extension", func(t *testing.T) {
		err := imgio.Save(filepath.Join(dir, "carrier"), img)
		assert.ErrorIs(t, err, imgio.ErrUnsupportedFormat)
	})
}

func TestDecodeGarbage(t *testing.T) {
	_, err := imgio.Decode(bytes.NewReader([]byte("not an image at all")))
	assert.ErrorIs(t, err, imgio.ErrUnsupportedFormat)
}

func TestWithPixels(t *testing.T) {
	img := imgio.FromImage(makeImage(8, 8))

	t.Run("replaces_samples", func(t *testing.T) {
		pixels := make([]byte, len(img.Pixels))
		for i := range pixels {
			pixels[i] = byte(i)
		}
		got, err := img.WithPixels(pixels)
		require.NoError(t, err)
		assert.Equal(t, pixels, got.Pixels)
		assert.Equal(t, img.Width, got.Width)
		assert.Equal(t, img.Height, got.Height)

		// the new image owns its buffer
		pixels[0] = 0xAA
		assert.NotEqual(t, pixels[0], got.Pixels[0])
	})
	t.Run("length_mismatch", func(t *testing.T) {
		_, err := img.WithPixels(make([]byte, 5))
		assert.Error(t, err)
	})
}
