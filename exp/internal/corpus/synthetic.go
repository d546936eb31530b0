package corpus

import (
	"fmt"
	"math/rand"

	"github.com/yyyoichi/stego_lsb/imgio"
)

// SyntheticNames lists the built-in deterministic carriers, ordered from
// textured to flat. Sweeps that cannot reach the network use these instead of
// the embedded URL corpus.
var SyntheticNames = []string{"gradient", "noise", "bands", "flat"}

const noiseSeed = 1234

// Synthetic generates the named carrier at width x height. The same name and
// size always produce identical pixels.
func Synthetic(name string, width, height int) (imgio.Image, error) {
	switch name {
	case "gradient":
		return Gradient(width, height), nil
	case "noise":
		return Noise(width, height, noiseSeed), nil
	case "bands":
		return Bands(width, height), nil
	case "flat":
		return Flat(width, height, 128), nil
	default:
		return imgio.Image{}, fmt.Errorf("unknown synthetic carrier: %q", name)
	}
}

// Gradient returns a carrier whose red channel rises with x, green with y,
// and blue with both.
func Gradient(width, height int) imgio.Image {
	pixels := make([]byte, 0, width*height*3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pixels = append(pixels,
				byte(x*255/width),
				byte(y*255/height),
				byte((x+y)*255/(width+height)),
			)
		}
	}
	return imgio.Image{Width: width, Height: height, Pixels: pixels}
}

// Noise returns a carrier of uniform random samples drawn from the given seed.
func Noise(width, height int, seed int64) imgio.Image {
	rng := rand.New(rand.NewSource(seed))
	pixels := make([]byte, width*height*3)
	rng.Read(pixels)
	return imgio.Image{Width: width, Height: height, Pixels: pixels}
}

// Bands returns a carrier of sixteen horizontal stripes of flat gray.
func Bands(width, height int) imgio.Image {
	pixels := make([]byte, 0, width*height*3)
	for y := 0; y < height; y++ {
		level := byte(y * 16 / height * 17)
		for x := 0; x < width; x++ {
			pixels = append(pixels, level, level, level)
		}
	}
	return imgio.Image{Width: width, Height: height, Pixels: pixels}
}

// Flat returns a carrier where every sample holds the same value.
func Flat(width, height int, value byte) imgio.Image {
	pixels := make([]byte, width*height*3)
	for i := range pixels {
		pixels[i] = value
	}
	return imgio.Image{Width: width, Height: height, Pixels: pixels}
}
