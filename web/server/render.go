package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/df07/go-stochastic-raytracer/pkg/output"
	"github.com/df07/go-stochastic-raytracer/pkg/renderer"
	"github.com/df07/go-stochastic-raytracer/pkg/scene"
)

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene   string        // Built-in scene name or listed description ID
	Width   int           // Image width
	Samples int           // Samples per pixel (0 = scene default)
	Depth   int           // Maximum bounce depth (0 = scene default)
	Passes  int           // Progressive passes (stream only)
	Format  output.Format // Image encoding
}

// Stats represents render statistics
type Stats struct {
	TotalPixels    int     `json:"totalPixels"`
	TotalSamples   int     `json:"totalSamples"`
	AverageSamples float64 `json:"averageSamples"`
	SkyHits        int     `json:"skyHits"`
	Absorbed       int     `json:"absorbed"`
	DepthExhausted int     `json:"depthExhausted"`
}

// ProgressUpdate represents a single progressive update sent via SSE
type ProgressUpdate struct {
	PassNumber  int    `json:"passNumber"`
	TotalPasses int    `json:"totalPasses"`
	ImageData   string `json:"imageData"` // Base64 encoded PNG
	Stats       Stats  `json:"stats"`
	IsComplete  bool   `json:"isComplete"`
	ElapsedMs   int64  `json:"elapsedMs"`
}

func toStats(s renderer.RenderStats) Stats {
	return Stats{
		TotalPixels:    s.TotalPixels,
		TotalSamples:   s.TotalSamples,
		AverageSamples: s.AverageSamples,
		SkyHits:        s.SkyHits,
		Absorbed:       s.Absorbed,
		DepthExhausted: s.DepthExhausted,
	}
}

// parseRenderRequest parses and validates query parameters
func (s *Server) parseRenderRequest(c echo.Context) (*RenderRequest, error) {
	values := c.QueryParams()
	req := &RenderRequest{Scene: values.Get("scene")}
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", scene.DefaultWidth, 16, 2000); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(values, "samples", 0, 1, 10000); err != nil {
		return nil, err
	}
	if req.Depth, err = parseIntParam(values, "depth", 0, 1, 1000); err != nil {
		return nil, err
	}
	if req.Passes, err = parseIntParam(values, "passes", 5, 1, 100); err != nil {
		return nil, err
	}

	req.Format = output.PNG
	if f := values.Get("format"); f != "" {
		if req.Format, err = output.ParseFormat(f); err != nil {
			return nil, err
		}
	}

	// Performance warning
	if req.Width > 1200 && req.Samples > 100 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}

	return req, nil
}

// setupScene creates the requested scene and applies the request overrides
func (s *Server) setupScene(req *RenderRequest) (*scene.Scene, error) {
	sceneObj, err := s.createScene(req.Scene, req.Width)
	if err != nil {
		return nil, err
	}
	if req.Samples > 0 {
		sceneObj.SamplingConfig.SamplesPerPixel = req.Samples
	}
	if req.Depth > 0 {
		sceneObj.SamplingConfig.MaxDepth = req.Depth
	}
	return sceneObj, nil
}

// handleRender renders one frame and returns the encoded image
func (s *Server) handleRender(c echo.Context) error {
	req, err := s.parseRenderRequest(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
	}

	sceneObj, err := s.setupScene(req)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err.Error())
	}

	renderID := uuid.New().String()
	raytracer := renderer.NewRaytracer(sceneObj)
	raytracer.SetLogger(NewWebLogger(renderID, nil))

	frame, stats, err := raytracer.RenderFrame(c.Request().Context())
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, fmt.Sprintf("Render error: %v", err))
	}

	var buf bytes.Buffer
	if err := output.Encode(&buf, frame.Image(), req.Format); err != nil {
		return jsonError(c, http.StatusInternalServerError, err.Error())
	}

	header := c.Response().Header()
	header.Set("X-Render-ID", renderID)
	header.Set("X-Render-Samples", strconv.FormatFloat(stats.AverageSamples, 'f', -1, 64))
	return c.Blob(http.StatusOK, req.Format.ContentType(), buf.Bytes())
}

// handleRenderStream renders progressively and streams each pass via SSE
func (s *Server) handleRenderStream(c echo.Context) error {
	req, err := s.parseRenderRequest(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
	}

	sceneObj, err := s.setupScene(req)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err.Error())
	}

	renderID := uuid.New().String()
	s.setSSEHeaders(c, renderID)

	consoleChan := make(chan ConsoleMessage, 50)
	logger := NewWebLogger(renderID, consoleChan)

	config := renderer.DefaultProgressiveConfig()
	config.MaxPasses = req.Passes
	config.MaxSamplesPerPixel = max(sceneObj.SamplingConfig.SamplesPerPixel, config.InitialSamples)
	raytracer := renderer.NewProgressiveRaytracer(sceneObj, config, logger)

	ctx := c.Request().Context()
	startTime := time.Now()
	passChan, errChan := raytracer.RenderProgressive(ctx)

	for result := range passChan {
		s.flushConsole(c, consoleChan)

		imageData, err := imageToBase64PNG(result.Frame)
		if err != nil {
			return s.sendSSEEvent(c, "error", fmt.Sprintf("failed to encode image: %v", err))
		}

		data, err := json.Marshal(ProgressUpdate{
			PassNumber:  result.PassNumber,
			TotalPasses: req.Passes,
			ImageData:   imageData,
			Stats:       toStats(result.Stats),
			IsComplete:  result.IsLast,
			ElapsedMs:   time.Since(startTime).Milliseconds(),
		})
		if err != nil {
			return err
		}
		if err := s.sendSSEEvent(c, "progress", string(data)); err != nil {
			// Client went away
			return nil
		}
	}
	s.flushConsole(c, consoleChan)

	if err := <-errChan; err != nil {
		return s.sendSSEEvent(c, "error", fmt.Sprintf("Render error: %v", err))
	}
	return s.sendSSEEvent(c, "complete", "Rendering completed")
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(c echo.Context, renderID string) {
	header := c.Response().Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Render-ID", renderID)
	c.Response().WriteHeader(http.StatusOK)
}

// flushConsole forwards buffered log lines as console events
func (s *Server) flushConsole(c echo.Context, consoleChan chan ConsoleMessage) {
	for {
		select {
		case msg := <-consoleChan:
			data, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			s.sendSSEEvent(c, "console", string(data))
		default:
			return
		}
	}
}

// sendSSEEvent writes one event and flushes it to the client
func (s *Server) sendSSEEvent(c echo.Context, event, data string) error {
	if _, err := fmt.Fprintf(c.Response(), "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	c.Response().Flush()
	return nil
}

// imageToBase64PNG converts a frame to a base64-encoded PNG
func imageToBase64PNG(frame *renderer.FrameBuffer) (string, error) {
	var buf bytes.Buffer
	if err := output.Encode(&buf, frame.Image(), output.PNG); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
