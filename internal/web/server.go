// Package web serves the browser UI and the JSON API of the codec.
//
// The API mirrors a small two-endpoint contract: POST /encode hides a
// message in an uploaded carrier and answers with a base64 png, POST
// /decode recovers it. Both answer JSON bodies with a success flag and a
// human readable message.
package web

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	stego "github.com/yyyoichi/stego_lsb"
	"github.com/yyyoichi/stego_lsb/armor"
)

// Config carries the tunables of the server. Zero values fall back to
// the codec and transport defaults.
type Config struct {
	// MaxUploadBytes caps the accepted request body size.
	MaxUploadBytes int64
	// ScanLimit and AbortThreshold tune the decoder.
	ScanLimit      int
	AbortThreshold int
	// ArmorSeed drives the shuffle of armored payloads.
	ArmorSeed int64
}

// Server holds the codec and the HTTP surface around it.
type Server struct {
	cfg      Config
	logger   *zap.Logger
	codec    *stego.Stego
	armor    *armor.Armor
	registry *prometheus.Registry
}

// NewServer initializes a Server with its own metrics registry.
func NewServer(cfg Config, logger *zap.Logger) (*Server, error) {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 16 << 20
	}
	if cfg.ArmorSeed == 0 {
		cfg.ArmorSeed = armor.DefaultShuffleSeed
	}
	if logger == nil {
		logger = zap.NewNop()
	}
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
	registry := prometheus.NewRegistry()
	Register(registry)
	return &Server{
		cfg:      cfg,
		logger:   logger,
		codec:    codec,
		armor:    armor.New(armor.WithGolay(cfg.ArmorSeed), armor.WithZstd()),
		registry: registry,
	}, nil
}

// Handler returns the routed HTTP surface with gzip compression applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /encode", s.handleEncode)
	mux.HandleFunc("POST /decode", s.handleDecode)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return gzhttp.GzipHandler(mux)
}
