package web

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	stego "github.com/yyyoichi/stego_lsb"
	"github.com/yyyoichi/stego_lsb/imgio"
)

type encodeResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ImageData string `json:"image_data,omitempty"`
}

type decodeResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	DecodedMessage string `json:"decoded_message"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		RequestDuration.WithLabelValues("encode").Observe(float64(time.Since(start).Milliseconds()))
	}()
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	// a part with an empty filename never reaches FormFile, so a missing
	// upload and an unselected file land on the same error
	file, _, err := r.FormFile("image")
	if err != nil {
		Requests.WithLabelValues("encode", "rejected").Inc()
		s.writeJSON(w, uploadStatus(err), encodeResponse{Message: uploadMessage(err)})
		return
	}
	defer file.Close()
	message := strings.TrimSpace(r.FormValue("message"))
	if message == "" {
		Requests.WithLabelValues("encode", "rejected").Inc()
		s.writeJSON(w, http.StatusOK, encodeResponse{Message: "Message cannot be empty"})
		return
	}

	img, err := imgio.Decode(file)
	if err != nil {
		s.logger.Warn("carrier decode failed", zap.Error(err))
		Requests.WithLabelValues("encode", "rejected").Inc()
		s.writeJSON(w, http.StatusOK, encodeResponse{Message: fmt.Sprintf("Error encoding message: %v", err)})
		return
	}
	CarrierSamples.WithLabelValues("encode").Observe(float64(len(img.Pixels)))

	if formFlag(r, "armor") {
		message, err = s.armor.Encode([]byte(message))
		if err != nil {
			Requests.WithLabelValues("encode", "rejected").Inc()
			s.writeJSON(w, http.StatusOK, encodeResponse{Message: fmt.Sprintf("Error encoding message: %v", err)})
			return
		}
	}

	samples, err := s.codec.Encode(r.Context(), img.Pixels, message)
	if err != nil {
		Requests.WithLabelValues("encode", "rejected").Inc()
		msg := fmt.Sprintf("Error encoding message: %v", err)
		if errors.Is(err, stego.ErrMessageTooLarge) {
			msg = "Message too long for this image."
		}
		s.writeJSON(w, http.StatusOK, encodeResponse{Message: msg})
		return
	}

	out, err := img.WithPixels(samples)
	if err != nil {
		s.serverError(w, "encode", errors.Wrap(err, "rebuild carrier"))
		return
	}
	var buf bytes.Buffer
	if err := imgio.Encode(&buf, out, "png"); err != nil {
		s.serverError(w, "encode", errors.Wrap(err, "render png"))
		return
	}

	Requests.WithLabelValues("encode", "ok").Inc()
	PayloadBytes.Observe(float64(len(message)))
	s.logger.Info("message encoded",
		zap.Int("carrier_samples", len(img.Pixels)),
		zap.Int("message_bytes", len(message)))
	s.writeJSON(w, http.StatusOK, encodeResponse{
		Success:   true,
		Message:   "Message successfully hidden in image.",
		ImageData: base64.StdEncoding.EncodeToString(buf.Bytes()),
	})
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		RequestDuration.WithLabelValues("decode").Observe(float64(time.Since(start).Milliseconds()))
	}()
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	file, _, err := r.FormFile("image")
	if err != nil {
		Requests.WithLabelValues("decode", "rejected").Inc()
		s.writeJSON(w, uploadStatus(err), decodeResponse{Message: uploadMessage(err)})
		return
	}
	defer file.Close()

	img, err := imgio.Decode(file)
	if err != nil {
		s.logger.Warn("carrier decode failed", zap.Error(err))
		Requests.WithLabelValues("decode", "rejected").Inc()
		s.writeJSON(w, http.StatusOK, decodeResponse{Message: fmt.Sprintf("Error decoding message: %v", err)})
		return
	}
	CarrierSamples.WithLabelValues("decode").Observe(float64(len(img.Pixels)))

	message, err := s.codec.Decode(r.Context(), img.Pixels)
	if err != nil {
		Requests.WithLabelValues("decode", "not_found").Inc()
		msg := "No hidden message found."
		var partial *stego.PartialMessageError
		if errors.As(err, &partial) {
			msg = fmt.Sprintf("Message appears incomplete or corrupted: %q", partial.Preview)
		}
		s.writeJSON(w, http.StatusOK, decodeResponse{Message: msg})
		return
	}

	if formFlag(r, "armor") {
		payload, err := s.armor.Decode(message)
		if err != nil {
			Requests.WithLabelValues("decode", "rejected").Inc()
			s.writeJSON(w, http.StatusOK, decodeResponse{Message: fmt.Sprintf("Error decoding message: %v", err)})
			return
		}
		message = string(payload)
	}

	Requests.WithLabelValues("decode", "ok").Inc()
	s.logger.Info("message decoded",
		zap.Int("carrier_samples", len(img.Pixels)),
		zap.Int("message_bytes", len(message)))
	s.writeJSON(w, http.StatusOK, decodeResponse{
		Success:        true,
		Message:        message,
		DecodedMessage: message,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response failed", zap.Error(err))
	}
}

func (s *Server) serverError(w http.ResponseWriter, op string, err error) {
	s.logger.Error("request failed", zap.String("op", op), zap.Error(err))
	Requests.WithLabelValues(op, "error").Inc()
	s.writeJSON(w, http.StatusInternalServerError, encodeResponse{Message: "Internal server error."})
}

// formFlag reports whether a form field is switched on. Browsers send
// "on" for checked boxes; "0", "false" and "off" count as unset.
func formFlag(r *http.Request, name string) bool {
	switch strings.ToLower(r.FormValue(name)) {
	case "", "0", "false", "off":
		return false
	}
	return true
}

func uploadMessage(err error) string {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return "Uploaded image is too large."
	}
	return "No image uploaded"
}

func uploadStatus(err error) int {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusOK
}
