package server

import (
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
)

const mirrorSceneJSON = `{
  "name": "Tiny Mirror",
  "camera": {"position": [0, 0, 0], "fov": 90, "aspect_ratio": 1},
  "sampling": {"samples_per_pixel": 1, "max_depth": 2},
  "materials": {"mirror": {"type": "metal", "albedo": [0.9, 0.9, 0.9]}},
  "spheres": [{"center": [0, 0, -1], "radius": 0.5, "material": "mirror"}]
}`

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "tiny-mirror.json")
	if err := os.WriteFile(path, []byte(mirrorSceneJSON), 0644); err != nil {
		t.Fatalf("Failed to write scene: %v", err)
	}
	return NewServer(0, dir), path
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/api/health")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", body)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Missing CORS header")
	}
}

func TestHandleScenes(t *testing.T) {
	s, path := newTestServer(t)
	rec := get(t, s, "/api/scenes")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body struct {
		Scenes []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
			Type string `json:"type"`
		} `json:"scenes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}

	found := map[string]string{}
	for _, sc := range body.Scenes {
		found[sc.ID] = sc.Type
	}
	if found["default"] != "builtin" || found["single-sphere"] != "builtin" {
		t.Errorf("Built-in scenes missing: %v", found)
	}
	if found[path] != "config" {
		t.Errorf("Config scene %s missing: %v", path, found)
	}
}

func TestHandleRender_PNG(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/api/render?scene=single-sphere&width=16")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %q", ct)
	}
	if _, err := uuid.Parse(rec.Header().Get("X-Render-ID")); err != nil {
		t.Errorf("X-Render-ID is not a UUID: %v", err)
	}

	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("Invalid PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 16 {
		t.Errorf("Expected 16x16 image, got %v", b)
	}
}

func TestHandleRender_Formats(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		format      string
		contentType string
	}{
		{"webp", "image/webp"},
		{"tga", "image/x-tga"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			rec := get(t, s, "/api/render?scene=single-sphere&width=16&format="+tt.format)
			if rec.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Expected %s, got %q", tt.contentType, ct)
			}
			if rec.Body.Len() == 0 {
				t.Error("Empty body")
			}
		})
	}
}

func TestHandleRender_ConfigScene(t *testing.T) {
	s, path := newTestServer(t)
	rec := get(t, s, "/api/render?width=20&scene="+url.QueryEscape(path))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("Invalid PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 20 {
		t.Errorf("Expected 20x20 image, got %v", b)
	}
}

func TestHandleRender_BadRequests(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name  string
		query string
	}{
		{"non-numeric width", "width=abc"},
		{"width too small", "width=2"},
		{"samples out of range", "samples=0"},
		{"unsupported format", "format=bmp"},
		{"unknown scene", "scene=nope"},
		{"unlisted file", "scene=" + url.QueryEscape("/etc/passwd")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, "/api/render?"+tt.query)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("Expected 400, got %d", rec.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] == "" {
				t.Errorf("Expected JSON error body, got %s", rec.Body.String())
			}
		})
	}
}

func TestHandleRenderStream(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/api/render/stream?scene=single-sphere&width=16&samples=4&passes=2")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected text/event-stream, got %q", ct)
	}

	body := rec.Body.String()
	if n := strings.Count(body, "event: progress\n"); n != 2 {
		t.Errorf("Expected 2 progress events, got %d", n)
	}
	if !strings.Contains(body, "event: complete\n") {
		t.Error("Missing complete event")
	}
	if strings.Contains(body, "event: error\n") {
		t.Errorf("Unexpected error event: %s", body)
	}

	// The last progress event reports completion with the full sample count
	events := strings.Split(body, "\n\n")
	var last ProgressUpdate
	for _, ev := range events {
		if strings.HasPrefix(ev, "event: progress\ndata: ") {
			if err := json.Unmarshal([]byte(strings.TrimPrefix(ev, "event: progress\ndata: ")), &last); err != nil {
				t.Fatalf("Invalid progress payload: %v", err)
			}
		}
	}
	if !last.IsComplete || last.PassNumber != 2 || last.Stats.AverageSamples != 4 {
		t.Errorf("Unexpected final update: pass %d complete=%t samples=%f",
			last.PassNumber, last.IsComplete, last.Stats.AverageSamples)
	}
}

func TestHandleInspect(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s, "/api/inspect?scene=single-sphere&width=16&x=8&y=8")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var hit InspectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &hit); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if !hit.Hit || hit.GeometryType != "sphere" || hit.MaterialType != "lambertian" {
		t.Errorf("Expected lambertian sphere hit, got %+v", hit)
	}
	if !hit.FrontFace {
		t.Error("Camera ray should hit the sphere's front face")
	}

	rec = get(t, s, "/api/inspect?scene=single-sphere&width=16&x=0&y=0")
	var miss InspectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &miss); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if miss.Hit {
		t.Error("Corner pixel should miss the sphere")
	}

	if rec := get(t, s, "/api/inspect?scene=single-sphere&width=16&x=16&y=0"); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for out-of-bounds pixel, got %d", rec.Code)
	}
	if rec := get(t, s, "/api/inspect?scene=single-sphere&x=a&y=0"); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid x, got %d", rec.Code)
	}
}
