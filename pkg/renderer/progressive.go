package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	TileSize           int // Size of each tile
	InitialSamples     int // Samples for first pass (1 recommended)
	MaxSamplesPerPixel int // Maximum total samples per pixel
	MaxPasses          int // Maximum number of passes
	NumWorkers         int // Number of parallel workers (0 = use CPU count)
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TileSize:           DefaultTileSize,
		InitialSamples:     1,
		MaxSamplesPerPixel: 64,
		MaxPasses:          7,
		NumWorkers:         0,
	}
}

// Validate checks the progressive configuration
func (c ProgressiveConfig) Validate() error {
	if c.MaxPasses <= 0 {
		return fmt.Errorf("progressive: max passes must be positive, got %d", c.MaxPasses)
	}
	if c.InitialSamples <= 0 || c.MaxSamplesPerPixel < c.InitialSamples {
		return fmt.Errorf("progressive: need 0 < initial samples (%d) <= max samples (%d)",
			c.InitialSamples, c.MaxSamplesPerPixel)
	}
	return nil
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Frame      *FrameBuffer
	Stats      RenderStats
	IsLast     bool
}

// ProgressiveRaytracer refines one image over several passes, each pass
// adding samples to the same per-pixel accumulators.
type ProgressiveRaytracer struct {
	config      ProgressiveConfig
	raytracer   *Raytracer     // Base raytracer for actual rendering
	pixelStats  [][]PixelStats // Shared pixel statistics array (global image coordinates)
	currentPass int
	samples     int // Samples accumulated in every pixel so far
	logger      core.Logger
}

// NewProgressiveRaytracer creates a new progressive raytracer
func NewProgressiveRaytracer(scene Scene, config ProgressiveConfig, logger core.Logger) *ProgressiveRaytracer {
	raytracer := NewRaytracer(scene)
	raytracer.SetTileSize(config.TileSize)
	raytracer.SetNumWorkers(config.NumWorkers)
	raytracer.SetLogger(logger)

	// Jitter follows the final sample budget, not the per-pass count
	sampling := raytracer.SamplingConfig()
	sampling.SamplesPerPixel = config.MaxSamplesPerPixel
	raytracer.SetSamplingConfig(sampling)

	if logger == nil {
		logger = discardLogger{}
	}

	return &ProgressiveRaytracer{
		config:     config,
		raytracer:  raytracer,
		pixelStats: newPixelGrid(raytracer.Width(), raytracer.Height()),
		logger:     logger,
	}
}

// getSamplesForPass calculates the target total samples for a given pass
func (pr *ProgressiveRaytracer) getSamplesForPass(passNumber int) int {
	// Special case: if only 1 pass, use all samples
	if pr.config.MaxPasses == 1 {
		return pr.config.MaxSamplesPerPixel
	}

	// First pass is a quick preview
	if passNumber == 1 {
		return pr.config.InitialSamples
	}

	// Final pass always reaches the budget
	if passNumber >= pr.config.MaxPasses {
		return pr.config.MaxSamplesPerPixel
	}

	// Divide remaining samples evenly across remaining passes
	remainingSamples := pr.config.MaxSamplesPerPixel - pr.config.InitialSamples
	remainingPasses := pr.config.MaxPasses - 1
	samplesPerPass := remainingSamples / remainingPasses

	return pr.config.InitialSamples + (passNumber-1)*samplesPerPass
}

// RenderPass renders a single progressive pass and returns the refined frame
func (pr *ProgressiveRaytracer) RenderPass(passNumber int) (*FrameBuffer, RenderStats, error) {
	if passNumber <= pr.currentPass {
		return nil, RenderStats{}, fmt.Errorf("progressive: pass %d already rendered", passNumber)
	}
	pr.currentPass = passNumber

	startTime := time.Now()
	targetSamples := pr.getSamplesForPass(passNumber)
	var passStats RenderStats
	if samples := targetSamples - pr.samples; samples > 0 {
		passStats = pr.raytracer.renderPass(pr.pixelStats, samples)
		pr.samples = targetSamples
	}

	frame := pr.raytracer.resolve(pr.pixelStats)
	stats := pr.collectStats()
	stats.SkyHits = passStats.SkyHits
	stats.Absorbed = passStats.Absorbed
	stats.DepthExhausted = passStats.DepthExhausted
	stats.Duration = time.Since(startTime)

	return frame, stats, nil
}

// collectStats summarises the accumulated pixel state
func (pr *ProgressiveRaytracer) collectStats() RenderStats {
	var stats RenderStats
	for y := range pr.pixelStats {
		for x := range pr.pixelStats[y] {
			stats.TotalPixels++
			stats.TotalSamples += pr.pixelStats[y][x].SampleCount
		}
	}
	stats.finalize()
	return stats
}

// RenderProgressive renders passes in the background and streams each
// refined frame. Cancellation is honored between passes only.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context) (<-chan PassResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(passChan)
		defer close(errChan)

		if err := pr.config.Validate(); err != nil {
			errChan <- err
			return
		}

		pr.logger.Printf("Starting progressive rendering with %d passes...\n", pr.config.MaxPasses)

		for pass := 1; pass <= pr.config.MaxPasses; pass++ {
			select {
			case <-ctx.Done():
				pr.logger.Printf("Rendering cancelled before pass %d\n", pass)
				errChan <- ctx.Err()
				return
			default:
			}

			frame, stats, err := pr.RenderPass(pass)
			if err != nil {
				errChan <- err
				return
			}

			pr.logger.Printf("Pass %d completed in %v (%.0f samples/pixel)\n",
				pass, stats.Duration, stats.AverageSamples)

			isLast := pass == pr.config.MaxPasses
			select {
			case passChan <- PassResult{PassNumber: pass, Frame: frame, Stats: stats, IsLast: isLast}:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}
		}
	}()

	return passChan, errChan
}
