package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/output"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// Request limits
const (
	minDimension = 1
	maxDimension = 2000
	maxSamples   = 10000
)

// errRequestLimit is returned when a scene's own settings exceed the request limits
var errRequestLimit = errors.New("exceeds render limits")

// Server handles web requests for the sphere raytracer
type Server struct {
	port int
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	return &Server{port: port}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene   string `json:"scene"`   // Scene ID (e.g., "default")
	Width   int    `json:"width"`   // Image width, scene default when omitted
	Height  int    `json:"height"`  // Image height, scene default when omitted
	Samples int    `json:"samples"` // Samples per pixel, scene default when omitted
	Seed    int64  `json:"seed"`    // Jitter seed
	Format  string `json:"format"`  // "png" (default), "jpeg" or "ppm"
}

// Stats represents render statistics
type Stats struct {
	TotalPixels     int     `json:"totalPixels"`
	TotalSamples    int64   `json:"totalSamples"`
	AverageSamples  float64 `json:"averageSamples"`
	SamplesPerPixel int     `json:"samplesPerPixel"`
	BackgroundRays  int     `json:"backgroundRays"`
	Workers         int     `json:"workers"`
	ElapsedMs       int64   `json:"elapsedMs"`
}

// Handler returns the HTTP routes served by Start
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/render-stream", s.handleRenderStream)
	mux.HandleFunc("/api/inspect", s.handleInspect)

	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return server.ListenAndServe()
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in and file scenes by group
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scene.ListAllScenes())
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = scene.DefaultSceneID
	}

	sceneObj, err := scene.CreateScene(sceneName)
	if err != nil {
		writeError(w, sceneErrorStatus(err), err.Error())
		return
	}

	config := sceneObj.SamplingConfig
	response := map[string]interface{}{
		"scene":   sceneName,
		"spheres": sceneObj.GetSphereCount(),
		"defaults": map[string]interface{}{
			"width":           config.Width,
			"height":          config.Height,
			"samplesPerPixel": config.SamplesPerPixel,
		},
		"limits": map[string]interface{}{
			"width":   map[string]int{"min": minDimension, "max": maxDimension},
			"height":  map[string]int{"min": minDimension, "max": maxDimension},
			"samples": map[string]int{"min": 1, "max": maxSamples},
		},
	}

	writeJSON(w, http.StatusOK, response)
}

// handleRender renders a single pass and responds with the encoded image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	fb, stats, err := s.render(r, req, renderer.NopLogger{})
	if err != nil {
		writeError(w, renderErrorStatus(err), err.Error())
		return
	}

	data, contentType, err := output.Encode(fb, req.Format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	log.Printf("Rendered %s %dx%d at %d spp in %v", req.Scene, req.Width, req.Height, stats.SamplesPerPixel, stats.Elapsed)

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("X-Render-Time-Ms", strconv.FormatInt(stats.Elapsed.Milliseconds(), 10))
	w.Header().Set("X-Background-Rays", strconv.Itoa(stats.BackgroundRays))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// render builds the requested scene and renders it, stopping when the client goes away
func (s *Server) render(r *http.Request, req *RenderRequest, logger core.Logger) (*renderer.Framebuffer, renderer.RenderStats, error) {
	sceneObj, err := scene.CreateScene(req.Scene)
	if err != nil {
		return nil, renderer.RenderStats{}, err
	}

	// Fill unset dimensions from the scene
	if req.Width == 0 {
		req.Width = sceneObj.SamplingConfig.Width
	}
	if req.Height == 0 {
		req.Height = sceneObj.SamplingConfig.Height
	}
	if req.Samples == 0 {
		req.Samples = sceneObj.SamplingConfig.SamplesPerPixel
	}

	// Scene files pick their own size, hold them to the query limits too
	if req.Width > maxDimension || req.Height > maxDimension || req.Samples > maxSamples {
		return nil, renderer.RenderStats{}, fmt.Errorf("%s at %dx%d, %d spp: %w",
			req.Scene, req.Width, req.Height, req.Samples, errRequestLimit)
	}

	// Performance warning
	if req.Width*req.Height > 800*600 && req.Samples > 100 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}

	config := renderer.SamplingConfig{
		SamplesPerPixel: req.Samples,
		Seed:            req.Seed,
		NumWorkers:      0, // Auto-detect
		ProgressRows:    max(1, req.Height/10),
	}

	raytracer, err := renderer.NewRaytracer(sceneObj, req.Width, req.Height, config, logger)
	if err != nil {
		return nil, renderer.RenderStats{}, err
	}
	return raytracer.RenderPass(r.Context())
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene"), Format: query.Get("format")}

	if req.Scene == "" {
		req.Scene = scene.DefaultSceneID
	}
	if req.Format == "" {
		req.Format = "png"
	}
	if err := output.CheckFormat(req.Format); err != nil {
		return nil, err
	}

	// Zero defaults are replaced by the scene's own settings
	var err error
	if req.Width, err = parseIntParam(query, "width", 0, minDimension, maxDimension); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 0, minDimension, maxDimension); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(query, "samples", 0, 1, maxSamples); err != nil {
		return nil, err
	}
	if value := query.Get("seed"); value != "" {
		if req.Seed, err = strconv.ParseInt(value, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid seed: %s", value)
		}
	} else {
		req.Seed = renderer.DefaultSamplingConfig().Seed
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func sceneErrorStatus(err error) int {
	if errors.Is(err, scene.ErrUnknownScene) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

func renderErrorStatus(err error) int {
	switch {
	case errors.Is(err, scene.ErrUnknownScene):
		return http.StatusNotFound
	case errors.Is(err, renderer.ErrInvalidDimensions), errors.Is(err, renderer.ErrInvalidSamples),
		errors.Is(err, errRequestLimit):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func statsFrom(stats renderer.RenderStats) Stats {
	return Stats{
		TotalPixels:     stats.TotalPixels,
		TotalSamples:    int64(stats.TotalSamples),
		AverageSamples:  stats.AverageSamples,
		SamplesPerPixel: stats.SamplesPerPixel,
		BackgroundRays:  stats.BackgroundRays,
		Workers:         stats.Workers,
		ElapsedMs:       stats.Elapsed.Milliseconds(),
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
