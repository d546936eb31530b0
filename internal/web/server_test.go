package web

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"math/rand"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yyyoichi/stego_lsb/imgio"
)

func newTestHandler(t *testing.T, cfg Config) http.Handler {
	t.Helper()
	srv, err := NewServer(cfg, nil)
	require.NoError(t, err)
	return srv.Handler()
}

func encodePNG(t *testing.T, src image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imgio.Encode(&buf, imgio.FromImage(src), "png"))
	return buf.Bytes()
}

// carrierPNG renders a gradient carrier.
func carrierPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			img.Set(x, y, color.RGBA{uint8(x * 255 / width), uint8(y * 255 / height), 200, 255})
		}
	}
	return encodePNG(t, img)
}

// flatPNG renders a carrier with every low bit zeroed.
func flatPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			img.Set(x, y, color.RGBA{200, 100, 50, 255})
		}
	}
	return encodePNG(t, img)
}

// noisyPNG renders an incompressible carrier for size limit tests.
func noisyPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	r := rand.New(rand.NewSource(5))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			img.Set(x, y, color.RGBA{uint8(r.Intn(256)), uint8(r.Intn(256)), uint8(r.Intn(256)), 255})
		}
	}
	return encodePNG(t, img)
}

func postForm(t *testing.T, h http.Handler, path string, image []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if image != nil {
		fw, err := mw.CreateFormFile("image", "carrier.png")
		require.NoError(t, err)
		_, err = fw.Write(image)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestEncodeDecodeOverHTTP(t *testing.T) {
	h := newTestHandler(t, Config{})
	carrier := carrierPNG(t, 64, 64)

	rec := postForm(t, h, "/encode", carrier, map[string]string{"message": "hello from the web"})
	require.Equal(t, http.StatusOK, rec.Code)

	var enc encodeResponse
	decodeJSON(t, rec, &enc)
	require.True(t, enc.Success, enc.Message)
	assert.Equal(t, "Message successfully hidden in image.", enc.Message)
	require.NotEmpty(t, enc.ImageData)

	encoded, err := base64.StdEncoding.DecodeString(enc.ImageData)
	require.NoError(t, err)

	rec = postForm(t, h, "/decode", encoded, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var dec decodeResponse
	decodeJSON(t, rec, &dec)
	require.True(t, dec.Success, dec.Message)
	assert.Equal(t, "hello from the web", dec.DecodedMessage)
	assert.Equal(t, "hello from the web", dec.Message)
}

func TestEncodeValidation(t *testing.T) {
	h := newTestHandler(t, Config{})
	test := []struct {
		name   string
		image  []byte
		fields map[string]string
		exp    string
	}{
		{name: "no_image", fields: map[string]string{"message": "hi"}, exp: "No image uploaded"},
		{name: "empty_message", image: carrierPNG(t, 16, 16), fields: map[string]string{"message": "   "}, exp: "Message cannot be empty"},
		{name: "missing_message", image: carrierPNG(t, 16, 16), exp: "Message cannot be empty"},
		{name: "message_too_long", image: flatPNG(t, 2, 2), fields: map[string]string{"message": "this will never fit"}, exp: "Message too long for this image."},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			rec := postForm(t, h, "/encode", tt.image, tt.fields)
			require.Equal(t, http.StatusOK, rec.Code)

			var resp encodeResponse
			decodeJSON(t, rec, &resp)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.exp, resp.Message)
			assert.Empty(t, resp.ImageData)
		})
	}
	t.Run("not_an_image", func(t *testing.T) {
		rec := postForm(t, h, "/encode", []byte("junk bytes"), map[string]string{"message": "hi"})
		var resp encodeResponse
		decodeJSON(t, rec, &resp)
		assert.False(t, resp.Success)
		assert.Contains(t, resp.Message, "Error encoding message:")
	})
}

func TestDecodeNoMessage(t *testing.T) {
	h := newTestHandler(t, Config{})
	rec := postForm(t, h, "/decode", flatPNG(t, 32, 32), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp decodeResponse
	decodeJSON(t, rec, &resp)
	assert.False(t, resp.Success)
	assert.Equal(t, "No hidden message found.", resp.Message)
	assert.Empty(t, resp.DecodedMessage)
}

func TestDecodeScanLimitFromConfig(t *testing.T) {
	h := newTestHandler(t, Config{ScanLimit: 80})
	carrier := carrierPNG(t, 64, 64)

	rec := postForm(t, h, "/encode", carrier, map[string]string{"message": "The quick brown fox jumps over the lazy dog"})
	var enc encodeResponse
	decodeJSON(t, rec, &enc)
	require.True(t, enc.Success, enc.Message)

	encoded, err := base64.StdEncoding.DecodeString(enc.ImageData)
	require.NoError(t, err)

	rec = postForm(t, h, "/decode", encoded, nil)
	var dec decodeResponse
	decodeJSON(t, rec, &dec)
	assert.False(t, dec.Success)
	assert.Contains(t, dec.Message, "incomplete")
}

func TestArmorOverHTTP(t *testing.T) {
	h := newTestHandler(t, Config{})
	carrier := carrierPNG(t, 64, 64)

	rec := postForm(t, h, "/encode", carrier, map[string]string{"message": "armored secret", "armor": "on"})
	var enc encodeResponse
	decodeJSON(t, rec, &enc)
	require.True(t, enc.Success, enc.Message)

	encoded, err := base64.StdEncoding.DecodeString(enc.ImageData)
	require.NoError(t, err)

	t.Run("with_armor", func(t *testing.T) {
		rec := postForm(t, h, "/decode", encoded, map[string]string{"armor": "on"})
		var dec decodeResponse
		decodeJSON(t, rec, &dec)
		require.True(t, dec.Success, dec.Message)
		assert.Equal(t, "armored secret", dec.DecodedMessage)
	})
	t.Run("without_armor_sees_transport_text", func(t *testing.T) {
		rec := postForm(t, h, "/decode", encoded, nil)
		var dec decodeResponse
		decodeJSON(t, rec, &dec)
		require.True(t, dec.Success, dec.Message)
		assert.NotEqual(t, "armored secret", dec.DecodedMessage)
	})
}

func TestIndexPage(t *testing.T) {
	h := newTestHandler(t, Config{})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Steganography Tool")
	assert.Contains(t, rec.Body.String(), "/encode")
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestHandler(t, Config{})
	postForm(t, h, "/encode", carrierPNG(t, 16, 16), map[string]string{"message": "count me"})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "stego_requests_total")
}

func TestUploadTooLarge(t *testing.T) {
	h := newTestHandler(t, Config{MaxUploadBytes: 1024})
	rec := postForm(t, h, "/encode", noisyPNG(t, 128, 128), map[string]string{"message": "x"})

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	var resp encodeResponse
	decodeJSON(t, rec, &resp)
	assert.False(t, resp.Success)
	assert.Equal(t, "Uploaded image is too large.", resp.Message)
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, Config{})
	req := httptest.NewRequest(http.MethodGet, "/encode", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestNewServerBadConfig(t *testing.T) {
	_, err := NewServer(Config{ScanLimit: 4}, nil)
	assert.Error(t, err)
}
