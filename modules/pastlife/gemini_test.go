package pastlife

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pastlife-server/modules/common/gemini"
)

func TestGeminiBackend_Draw(t *testing.T) {
	imageBytes := []byte("\x89PNG fake image bytes")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			http.NotFound(w, r)
			return
		}

		var part map[string]interface{}
		if strings.Contains(r.URL.Path, "gemini-2.5-flash-image") {
			part = map[string]interface{}{
				"inlineData": map[string]string{
					"mimeType": "image/png",
					"data":     base64.StdEncoding.EncodeToString(imageBytes),
				},
			}
		} else {
			part = map[string]interface{}{"text": aliceResponse}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{"role": "model", "parts": []interface{}{part}}},
			},
		})
	}))
	defer srv.Close()

	client, err := gemini.NewClient(context.Background(), "test-key", srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	backend := NewGeminiBackend(client, 0)
	s := NewService(
		NewProfileGenerator(backend, "gemini-2.5-flash", 1.0, 0),
		NewImageRequester(backend, "gemini-2.5-flash-image", 0),
		"https://pastlife.streamlit.app",
	)

	result, err := s.Draw(context.Background(), "Alice")
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if result.Profile.Era != "18세기 프랑스" {
		t.Errorf("Era = %q", result.Profile.Era)
	}
	want := "data:image/png;base64," + base64.StdEncoding.EncodeToString(imageBytes)
	if result.ImageURL != want {
		t.Errorf("ImageURL = %q, want %q", result.ImageURL, want)
	}
}

func TestGeminiBackend_ImageRef(t *testing.T) {
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}

	tests := []struct {
		name       string
		quality    int
		data       []byte
		wantPrefix string
	}{
		{"disabled", 0, buf.Bytes(), "data:image/png;base64,"},
		{"converted", 80, buf.Bytes(), "data:image/webp;base64,"},
		{"undecodable keeps original", 80, []byte("not an image"), "data:image/png;base64,"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewGeminiBackend(nil, tt.quality)
			if got := b.imageRef("image/png", tt.data); !strings.HasPrefix(got, tt.wantPrefix) {
				t.Errorf("imageRef = %.40q..., want prefix %q", got, tt.wantPrefix)
			}
		})
	}
}
