package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

func TestPackColor(t *testing.T) {
	tests := []struct {
		name     string
		color    core.Vec3
		gamma    float64
		expected uint32
	}{
		{"black", core.NewVec3(0, 0, 0), 1, 0x000000},
		{"white", core.NewVec3(1, 1, 1), 1, 0xFFFFFF},
		{"red", core.NewVec3(1, 0, 0), 1, 0xFF0000},
		{"truncates", core.NewVec3(0.5, 0.5, 0.5), 1, 0x7F7F7F},
		{"clamps high and low", core.NewVec3(2, -1, 1.5), 1, 0xFF00FF},
		{"non-finite", core.NewVec3(math.NaN(), math.Inf(1), math.Inf(-1)), 1, 0x00FF00},
		{"gamma 2", core.NewVec3(0.25, 0, 1), 2, 0x7F00FF},
		{"zero gamma disables correction", core.NewVec3(0.25, 0, 0), 0, 0x3F0000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PackColor(tt.color, tt.gamma); got != tt.expected {
				t.Errorf("Expected %#06x, got %#06x", tt.expected, got)
			}
		})
	}
}

func TestUnpackColor(t *testing.T) {
	c := UnpackColor(0xFF8000)
	if c.X != 1 || math.Abs(c.Y-128.0/255.0) > 1e-12 || c.Z != 0 {
		t.Errorf("Unexpected unpacked color %v", c)
	}
	if top := UnpackColor(0xAB000000); top != (core.Vec3{}) {
		t.Errorf("Top byte should be ignored, got %v", top)
	}
}

func TestFrameBuffer_RowMajor(t *testing.T) {
	fb := NewFrameBuffer(3, 2)
	if len(fb.Pix) != 6 {
		t.Fatalf("Expected 6 pixels, got %d", len(fb.Pix))
	}

	fb.Set(2, 1, 0x123456)
	if fb.Pix[1*3+2] != 0x123456 {
		t.Errorf("Set(2,1) wrote to the wrong slot: %v", fb.Pix)
	}
	if fb.At(2, 1) != 0x123456 {
		t.Errorf("At(2,1) = %#x", fb.At(2, 1))
	}

	img := fb.Image()
	rgba := img.RGBAAt(2, 1)
	if rgba.R != 0x12 || rgba.G != 0x34 || rgba.B != 0x56 || rgba.A != 255 {
		t.Errorf("Unexpected image pixel %v", rgba)
	}
	if img.RGBAAt(0, 0).A != 255 {
		t.Error("Image pixels should be opaque")
	}
}
