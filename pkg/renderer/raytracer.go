package renderer

import (
	"context"
	"fmt"
	"image"
	"math/rand"
	"time"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
)

// DefaultTileSize is the edge length of the square tiles handed to workers
const DefaultTileSize = 32

// SkyBlue is the color of the sky gradient straight up; straight down is white
var SkyBlue = core.NewVec3(0.5, 0.7, 1.0)

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int     // Number of rays averaged per pixel
	MaxDepth        int     // Maximum ray bounce depth
	Gamma           float64 // Gamma applied when packing pixels (1 disables)
	Seed            int64   // Base seed for all per-tile random streams
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 4,
		MaxDepth:        50,
		Gamma:           2.0,
		Seed:            42,
	}
}

// Validate checks the sampling configuration
func (c SamplingConfig) Validate() error {
	if c.SamplesPerPixel <= 0 {
		return fmt.Errorf("sampling: samples per pixel must be positive, got %d", c.SamplesPerPixel)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("sampling: max depth must not be negative, got %d", c.MaxDepth)
	}
	if c.Gamma < 0 {
		return fmt.Errorf("sampling: gamma must not be negative, got %g", c.Gamma)
	}
	return nil
}

// Scene interface to avoid circular imports
type Scene interface {
	GetCamera() *Camera
	NearestHit(ray core.Ray) (*material.HitRecord, bool)
	GetSamplingConfig() SamplingConfig
}

// Raytracer handles the rendering process.
// A Raytracer is not safe for concurrent RenderFrame calls; the frames it
// renders use a worker pool internally.
type Raytracer struct {
	scene      Scene
	camera     *Camera
	config     SamplingConfig
	tileSize   int
	numWorkers int
	frame      int
	logger     core.Logger
}

// NewRaytracer creates a new raytracer using the scene's sampling config
func NewRaytracer(scene Scene) *Raytracer {
	return &Raytracer{
		scene:      scene,
		camera:     scene.GetCamera(),
		config:     scene.GetSamplingConfig(),
		tileSize:   DefaultTileSize,
		numWorkers: 0,
		logger:     discardLogger{},
	}
}

// SetSamplingConfig updates the sampling configuration
func (rt *Raytracer) SetSamplingConfig(config SamplingConfig) {
	rt.config = config
}

// SamplingConfig returns the active sampling configuration
func (rt *Raytracer) SamplingConfig() SamplingConfig {
	return rt.config
}

// SetNumWorkers sets the number of parallel workers (0 = use CPU count)
func (rt *Raytracer) SetNumWorkers(n int) {
	rt.numWorkers = n
}

// SetTileSize sets the tile edge length used to split frames
func (rt *Raytracer) SetTileSize(size int) {
	rt.tileSize = size
}

// SetLogger sets the logger used for frame progress
func (rt *Raytracer) SetLogger(logger core.Logger) {
	if logger == nil {
		logger = discardLogger{}
	}
	rt.logger = logger
}

// Width returns the image width in pixels
func (rt *Raytracer) Width() int { return rt.camera.ImageWidth }

// Height returns the image height in pixels
func (rt *Raytracer) Height() int { return rt.camera.ImageHeight }

// SkyGradient returns the sky color seen along direction
func SkyGradient(direction core.Vec3) core.Vec3 {
	unitDirection := direction.Normalize()

	// Map y from [-1,1] to [0,1]
	t := 0.5 * (unitDirection.Y + 1.0)

	return core.NewVec3(1, 1, 1).Lerp(SkyBlue, t)
}

// RayColor returns the color carried back along r after at most depth bounces
func (rt *Raytracer) RayColor(r core.Ray, depth int, random *rand.Rand) core.Vec3 {
	return rt.traceRay(r, depth, random, nil)
}

// traceRay follows one path iteratively, carrying the product of
// attenuations, so the bounce limit never grows the stack.
func (rt *Raytracer) traceRay(r core.Ray, depth int, random *rand.Rand, stats *RenderStats) core.Vec3 {
	throughput := core.NewVec3(1, 1, 1)

	for ; depth > 0; depth-- {
		hit, isHit := rt.scene.NearestHit(r)
		if !isHit {
			if stats != nil {
				stats.SkyHits++
			}
			return throughput.MultiplyVec(SkyGradient(r.Direction))
		}

		scatter, didScatter := hit.Material.Scatter(r, *hit, random)
		if !didScatter {
			if stats != nil {
				stats.Absorbed++
			}
			return core.Vec3{}
		}

		throughput = throughput.MultiplyVec(scatter.Attenuation)
		r = scatter.Scattered
	}

	if stats != nil {
		stats.DepthExhausted++
	}
	return core.Vec3{}
}

// primaryRay returns the camera ray for one sample of pixel (i, j).
// A single sample goes through the pixel center.
func (rt *Raytracer) primaryRay(i, j int, random *rand.Rand) core.Ray {
	if rt.config.SamplesPerPixel > 1 {
		return rt.camera.GetJitteredRay(i, j, random)
	}
	return rt.camera.GetRay(i, j, 0, 0)
}

// RenderBounds adds samples to every pixel inside bounds. Callers must give
// each goroutine disjoint bounds and its own random generator.
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, pixelStats [][]PixelStats, random *rand.Rand, samples int) RenderStats {
	stats := RenderStats{TotalPixels: bounds.Dx() * bounds.Dy()}

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			ps := &pixelStats[j][i]
			for s := 0; s < samples; s++ {
				ray := rt.primaryRay(i, j, random)
				ps.AddSample(rt.traceRay(ray, rt.config.MaxDepth, random, &stats))
			}
			stats.TotalSamples += samples
		}
	}

	stats.finalize()
	return stats
}

// RenderFrame renders one complete frame with SamplesPerPixel samples per
// pixel. The context is only checked before the frame starts.
func (rt *Raytracer) RenderFrame(ctx context.Context) (*FrameBuffer, RenderStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, RenderStats{}, err
	}
	if err := rt.config.Validate(); err != nil {
		return nil, RenderStats{}, err
	}

	startTime := time.Now()
	pixelStats := newPixelGrid(rt.Width(), rt.Height())

	stats := rt.renderPass(pixelStats, rt.config.SamplesPerPixel)
	stats.Duration = time.Since(startTime)

	rt.logger.Printf("Frame %d: %dx%d, %d samples/pixel in %v\n",
		rt.frame, rt.Width(), rt.Height(), rt.config.SamplesPerPixel, stats.Duration)

	return rt.resolve(pixelStats), stats, nil
}

// renderPass adds samples to every pixel using the worker pool and advances
// the frame counter so the next pass draws fresh random streams.
func (rt *Raytracer) renderPass(pixelStats [][]PixelStats, samples int) RenderStats {
	tiles := NewTileGrid(rt.Width(), rt.Height(), rt.tileSize)

	pool := NewWorkerPool(rt, rt.numWorkers, len(tiles))
	pool.Start()

	for _, tile := range tiles {
		pool.SubmitTask(TileTask{
			Tile:       tile,
			Samples:    samples,
			TaskID:     tile.ID,
			PixelStats: pixelStats,
			Random:     core.NewSeededRandom(rt.config.Seed, int64(rt.frame)<<32|int64(tile.ID)),
		})
	}

	var stats RenderStats
	for range tiles {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		stats.Merge(result.Stats)
	}
	pool.Stop()

	rt.frame++
	return stats
}

// resolve averages the accumulated samples into a packed frame buffer
func (rt *Raytracer) resolve(pixelStats [][]PixelStats) *FrameBuffer {
	fb := NewFrameBuffer(rt.Width(), rt.Height())
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			fb.Set(x, y, PackColor(pixelStats[y][x].GetColor(), rt.config.Gamma))
		}
	}
	return fb
}
