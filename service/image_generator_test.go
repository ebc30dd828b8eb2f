package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPImageModel_GenerateImage(t *testing.T) {
	var got imageGenerationRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/images/generations", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]string{{"b64_json": base64.StdEncoding.EncodeToString([]byte("image"))}},
		})
	}))
	defer srv.Close()

	m := NewHTTPImageModel(srv.URL+"/v1/", "secret", "dall-e-3")
	data, err := m.GenerateImage(context.Background(), "a fox")
	require.NoError(t, err)
	assert.Equal(t, []byte("image"), data)
	assert.Equal(t, "a fox", got.Prompt)
	assert.Equal(t, "b64_json", got.ResponseFormat)
	assert.Equal(t, 1, got.N)
}

func TestHTTPImageModel_RateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"slow down"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewHTTPImageModel(srv.URL, "", "m").GenerateImage(context.Background(), "x")
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.True(t, IsRateLimited(err))
}

func TestHTTPImageModel_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"server error", http.StatusInternalServerError, "boom", "status 500"},
		{"bad json", http.StatusOK, "not json", "failed to parse response"},
		{"no data", http.StatusOK, `{"data": []}`, "no image in response"},
		{"bad base64", http.StatusOK, `{"data": [{"b64_json": "%%%"}]}`, "failed to decode image"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewHTTPImageModel(srv.URL, "", "m").GenerateImage(context.Background(), "x")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.False(t, IsRateLimited(err))
		})
	}
}
