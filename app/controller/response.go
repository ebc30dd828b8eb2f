package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"brandkit/repository"
	"brandkit/service"
	"brandkit/tracing"
)

const maxUploadSize = 20 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ Failed to encode response: %v", err)
	}
}

func writeFile(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	if filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, tracing.ErrInvalidVector):
		return http.StatusBadRequest
	case errors.Is(err, tracing.ErrEmptyBitmap):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrNoProvider):
		return http.StatusServiceUnavailable
	case service.IsRateLimited(err):
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, msg string, err error) {
	status := statusFor(err)
	if status >= 500 {
		log.Printf("❌ %s: %v", msg, err)
	}
	http.Error(w, fmt.Sprintf("%s: %v", msg, err), status)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return false
	}
	return true
}

// readImage reads the "image" part of a multipart upload
func readImage(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, fmt.Sprintf("Invalid multipart form: %v", err), http.StatusBadRequest)
		return nil, false
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "image file is required", http.StatusBadRequest)
		return nil, false
	}
	defer file.Close()

	buf, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to read image: %v", err), http.StatusBadRequest)
		return nil, false
	}
	if len(buf) == 0 {
		http.Error(w, "image file is empty", http.StatusBadRequest)
		return nil, false
	}
	return buf, true
}

// traceParams overlays query/form values on the profile's trace parameters
func traceParams(r *http.Request, base tracing.Params) (tracing.Params, error) {
	p := base
	get := func(key string) string { return strings.TrimSpace(r.FormValue(key)) }

	if v := get("threshold"); v != "" {
		n, err := strconv.ParseUint(v, 10, 8)
		if err != nil {
			return p, fmt.Errorf("threshold must be 0-255")
		}
		p.Threshold = uint8(n)
	}
	if v := get("colors"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 16 {
			return p, fmt.Errorf("colors must be 1-16")
		}
		p.Colors = n
	}
	if v := get("turd"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return p, fmt.Errorf("turd must be a non-negative integer")
		}
		p.TurdSize = n
	}
	if v := get("tolerance"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return p, fmt.Errorf("tolerance must be a non-negative number")
		}
		p.Tolerance = f
	}
	if v := get("blur"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return p, fmt.Errorf("blur must be a non-negative number")
		}
		p.Blur = f
	}
	for key, dst := range map[string]*bool{"smooth": &p.Smooth, "invert": &p.Invert} {
		if v := get(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return p, fmt.Errorf("%s must be true or false", key)
			}
			*dst = b
		}
	}
	return p, nil
}
