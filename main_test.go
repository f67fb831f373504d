package main

import (
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/df07/go-stochastic-raytracer/pkg/output"
	"github.com/df07/go-stochastic-raytracer/pkg/scene"
)

func TestCreateScene(t *testing.T) {
	tests := []struct {
		name        string
		sceneType   string
		expectError bool
	}{
		{"default scene", "default", false},
		{"single sphere scene", "single-sphere", false},
		{"cylinders scene", "cylinders", false},
		{"sphere grid scene", "sphere-grid", false},

		{"unknown scene", "nonexistent", true},
		{"empty scene name", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sceneObj, name, err := createScene(options{scene: tt.sceneType, flags: scene.Flags{Width: 32}})

			if tt.expectError {
				if !errors.Is(err, scene.ErrUnknownScene) {
					t.Errorf("Expected ErrUnknownScene for '%s', got %v", tt.sceneType, err)
				}
				if sceneObj != nil {
					t.Errorf("Expected nil scene for invalid scene type '%s'", tt.sceneType)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error for scene type '%s': %v", tt.sceneType, err)
			}
			if name != tt.sceneType {
				t.Errorf("Expected name %q, got %q", tt.sceneType, name)
			}
			if sceneObj.Camera.ImageWidth != 32 {
				t.Errorf("Expected width 32, got %d", sceneObj.Camera.ImageWidth)
			}
		})
	}
}

func TestCreateScene_Overrides(t *testing.T) {
	opts := options{
		scene: "default",
		flags: scene.Flags{Width: 48, Samples: 3, Depth: 7, Seed: 11, Gamma: 1.0},
	}
	sceneObj, _, err := createScene(opts)
	if err != nil {
		t.Fatalf("createScene failed: %v", err)
	}

	sampling := sceneObj.SamplingConfig
	if sampling.SamplesPerPixel != 3 || sampling.MaxDepth != 7 || sampling.Seed != 11 || sampling.Gamma != 1.0 {
		t.Errorf("Flags not applied: %+v", sampling)
	}
}

func TestCreateScene_Config(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "two-spheres.json")
	content := `{
  "camera": {"fov": 90, "aspect_ratio": 1},
  "materials": {"m": {"type": "lambertian", "albedo": [0.5, 0.5, 0.5]}},
  "spheres": [
    {"center": [0, 0, -1], "radius": 0.5, "material": "m"},
    {"center": [0, -100.5, -1], "radius": 100, "material": "m"}
  ]
}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	sceneObj, name, err := createScene(options{config: path, flags: scene.Flags{Width: 24}})
	if err != nil {
		t.Fatalf("createScene failed: %v", err)
	}
	if name != "two-spheres" {
		t.Errorf("Expected name two-spheres, got %q", name)
	}
	if len(sceneObj.Shapes) != 2 || sceneObj.Camera.ImageWidth != 24 {
		t.Errorf("Unexpected scene: %d shapes, width %d", len(sceneObj.Shapes), sceneObj.Camera.ImageWidth)
	}

	if _, _, err := createScene(options{config: filepath.Join(dir, "missing.json")}); err == nil {
		t.Error("Expected error for missing config")
	}
}

func TestCreateOutputPath(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC)
	path := createOutputPath("default", output.WebP, "0123456789abcdef", now)

	expected := filepath.Join("output", "default", "render_20240309_140506_01234567.webp")
	if path != expected {
		t.Errorf("Expected %s, got %s", expected, path)
	}

	if short := createOutputPath("x", output.PNG, "abc", now); !strings.HasSuffix(short, "_abc.png") {
		t.Errorf("Short IDs should be kept whole, got %s", short)
	}
}

func TestRun_WritesImage(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "out", "sphere.png")

	opts := options{
		scene:   "single-sphere",
		flags:   scene.Flags{Width: 20},
		passes:  1,
		workers: 2,
		out:     outPath,
		resize:  40,
	}
	if err := run(context.Background(), opts); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("Output not written: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Invalid PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 40 {
		t.Errorf("Expected resized 40x40 image, got %v", b)
	}
}

func TestRun_Progressive(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "progressive.tga")

	opts := options{
		scene:   "single-sphere",
		flags:   scene.Flags{Width: 12, Samples: 4, Depth: 3},
		passes:  3,
		workers: 2,
		out:     outPath,
	}
	if err := run(context.Background(), opts); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if info, err := os.Stat(outPath); err != nil || info.Size() == 0 {
		t.Errorf("Expected TGA output at %s", outPath)
	}
}

func TestRun_RejectsUnknownFormat(t *testing.T) {
	opts := options{scene: "single-sphere", out: filepath.Join(t.TempDir(), "x.bmp")}
	if err := run(context.Background(), opts); !errors.Is(err, output.ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}
