package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/cpu"

	"github.com/df07/go-stochastic-raytracer/pkg/output"
	"github.com/df07/go-stochastic-raytracer/pkg/renderer"
	"github.com/df07/go-stochastic-raytracer/pkg/scene"
)

// options holds the parsed command line
type options struct {
	scene   string
	config  string
	flags   scene.Flags
	passes  int
	workers int
	out     string
	format  string
	resize  int
}

func main() {
	var opts options
	flag.StringVar(&opts.scene, "scene", "default", "Built-in scene: "+strings.Join(scene.Names(), ", "))
	flag.StringVar(&opts.config, "config", "", "JSON scene description (overrides -scene)")
	flag.IntVar(&opts.flags.Width, "width", 0, "Image width in pixels (0 = scene default)")
	flag.IntVar(&opts.flags.Samples, "samples", 0, "Samples per pixel (0 = scene default)")
	flag.IntVar(&opts.flags.Depth, "depth", 0, "Maximum bounce depth (0 = scene default)")
	flag.Int64Var(&opts.flags.Seed, "seed", 0, "Random seed (0 = scene default)")
	flag.Float64Var(&opts.flags.Gamma, "gamma", 0, "Output gamma (0 = scene default)")
	flag.IntVar(&opts.passes, "passes", 1, "Progressive passes (1 = single frame)")
	flag.IntVar(&opts.workers, "workers", 0, "Number of parallel workers (0 = auto-detect)")
	flag.StringVar(&opts.out, "out", "", "Output file; the extension picks png, webp or tga")
	flag.StringVar(&opts.format, "format", "png", "Output format when -out is not given")
	flag.IntVar(&opts.resize, "resize", 0, "Resample the output to this width (0 = off)")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	// Show help if requested
	if *help {
		fmt.Println("Stochastic Raytracer")
		fmt.Println("Usage: raytracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available scenes:")
		for _, name := range scene.Names() {
			fmt.Printf("  %s\n", name)
		}
		fmt.Println()
		fmt.Println("Output will be saved to output/<scene>/render_<timestamp>_<id>.<format>")
		return
	}

	if err := run(context.Background(), opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	fmt.Println("Starting Stochastic Raytracer...")
	printSystemInfo(opts.workers)

	sceneObj, sceneName, err := createScene(opts)
	if err != nil {
		return err
	}
	fmt.Printf("Using %s scene (%dx%d, %d samples, depth %d)\n", sceneName,
		sceneObj.Camera.ImageWidth, sceneObj.Camera.ImageHeight,
		sceneObj.SamplingConfig.SamplesPerPixel, sceneObj.SamplingConfig.MaxDepth)

	renderID := uuid.New().String()
	outPath := opts.out
	if outPath == "" {
		format, err := output.ParseFormat(opts.format)
		if err != nil {
			return err
		}
		outPath = createOutputPath(sceneName, format, renderID, time.Now())
	} else if _, err := output.FormatFromPath(outPath); err != nil {
		return err
	}

	startTime := time.Now()
	frame, stats, err := render(ctx, sceneObj, opts)
	if err != nil {
		return err
	}
	fmt.Printf("Render completed in %v\n", time.Since(startTime))
	fmt.Printf("Samples per pixel: %.1f (sky %d, absorbed %d, depth limit %d)\n",
		stats.AverageSamples, stats.SkyHits, stats.Absorbed, stats.DepthExhausted)

	if err := output.Save(outPath, output.Resize(frame.Image(), opts.resize)); err != nil {
		return err
	}

	fmt.Printf("Render saved as %s\n", outPath)
	return nil
}

// createScene loads the JSON description if one was given, otherwise the
// named built-in scene, and applies the flag overrides
func createScene(opts options) (*scene.Scene, string, error) {
	if opts.config != "" {
		cfg, err := scene.LoadConfig(opts.config)
		if err != nil {
			return nil, "", err
		}
		cfg.Resolve(opts.flags)
		sceneObj, err := cfg.Build()
		if err != nil {
			return nil, "", err
		}
		base := filepath.Base(opts.config)
		return sceneObj, strings.TrimSuffix(base, filepath.Ext(base)), nil
	}

	sceneObj, err := scene.ByName(opts.scene, opts.flags.Width)
	if err != nil {
		return nil, "", err
	}

	sampling := &sceneObj.SamplingConfig
	if opts.flags.Samples > 0 {
		sampling.SamplesPerPixel = opts.flags.Samples
	}
	if opts.flags.Depth > 0 {
		sampling.MaxDepth = opts.flags.Depth
	}
	if opts.flags.Seed != 0 {
		sampling.Seed = opts.flags.Seed
	}
	if opts.flags.Gamma > 0 {
		sampling.Gamma = opts.flags.Gamma
	}

	return sceneObj, opts.scene, nil
}

// render produces the final frame, progressively when more than one pass is
// requested
func render(ctx context.Context, sceneObj *scene.Scene, opts options) (*renderer.FrameBuffer, renderer.RenderStats, error) {
	logger := renderer.NewDefaultLogger()

	if opts.passes <= 1 {
		raytracer := renderer.NewRaytracer(sceneObj)
		raytracer.SetNumWorkers(opts.workers)
		raytracer.SetLogger(logger)
		return raytracer.RenderFrame(ctx)
	}

	config := renderer.DefaultProgressiveConfig()
	config.MaxPasses = opts.passes
	config.MaxSamplesPerPixel = max(sceneObj.SamplingConfig.SamplesPerPixel, config.InitialSamples)
	config.NumWorkers = opts.workers

	raytracer := renderer.NewProgressiveRaytracer(sceneObj, config, logger)
	passChan, errChan := raytracer.RenderProgressive(ctx)

	var last renderer.PassResult
	for result := range passChan {
		last = result
	}
	if err := <-errChan; err != nil {
		return nil, renderer.RenderStats{}, err
	}
	return last.Frame, last.Stats, nil
}

// createOutputPath builds output/<scene>/render_<timestamp>_<id>.<format>
func createOutputPath(sceneName string, format output.Format, renderID string, now time.Time) string {
	shortID := renderID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	filename := fmt.Sprintf("render_%s_%s.%s", now.Format("20060102_150405"), shortID, format)
	return filepath.Join("output", sceneName, filename)
}

// printSystemInfo reports the CPU the render will run on
func printSystemInfo(workers int) {
	if workers <= 0 {
		workers = renderer.DefaultNumWorkers()
	}

	cpuInfo, err := cpu.Info()
	if err != nil || len(cpuInfo) == 0 {
		fmt.Printf("Workers: %d\n", workers)
		return
	}
	fmt.Printf("CPU: %s (%.2f GHz), workers: %d\n", cpuInfo[0].ModelName, cpuInfo[0].Mhz/1000, workers)
}
