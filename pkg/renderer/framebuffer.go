package renderer

import (
	"image"
	"image/color"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

// FrameBuffer is a row-major grid of packed 0x00RRGGBB pixels
type FrameBuffer struct {
	Width  int
	Height int
	Pix    []uint32
}

// NewFrameBuffer allocates a black frame buffer
func NewFrameBuffer(width, height int) *FrameBuffer {
	return &FrameBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint32, width*height),
	}
}

// At returns the packed pixel at (x, y)
func (fb *FrameBuffer) At(x, y int) uint32 {
	return fb.Pix[y*fb.Width+x]
}

// Set stores a packed pixel at (x, y)
func (fb *FrameBuffer) Set(x, y int, pixel uint32) {
	fb.Pix[y*fb.Width+x] = pixel
}

// Image converts the frame buffer to an opaque RGBA image
func (fb *FrameBuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			p := fb.At(x, y)
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(p >> 16),
				G: uint8(p >> 8),
				B: uint8(p),
				A: 255,
			})
		}
	}
	return img
}

// PackColor gamma-corrects a linear color, clamps each channel to [0,1],
// scales by 255 and truncates into 0x00RRGGBB. Out-of-range or non-finite
// input never panics.
func PackColor(c core.Vec3, gamma float64) uint32 {
	if gamma > 0 {
		c = c.GammaCorrect(gamma)
	}
	r, g, b := channelByte(c.X), channelByte(c.Y), channelByte(c.Z)
	return r<<16 | g<<8 | b
}

// UnpackColor converts a packed pixel back into [0,1] channels
func UnpackColor(pixel uint32) core.Vec3 {
	return core.NewVec3(
		float64((pixel>>16)&0xFF)/255.0,
		float64((pixel>>8)&0xFF)/255.0,
		float64(pixel&0xFF)/255.0,
	)
}

func channelByte(v float64) uint32 {
	// Written so NaN falls into the first branch
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint32(v * 255.0)
}
