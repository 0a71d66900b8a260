package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/df07/go-phong-raytracer/pkg/config"
	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
	"github.com/df07/go-phong-raytracer/pkg/scene"
	"github.com/labstack/echo/v4"
)

// Request limits
const (
	MinImageSize  = 16
	MaxImageSize  = 2000
	DefaultWidth  = scene.DefaultWidth
	DefaultHeight = scene.DefaultHeight
	DefaultScene  = "default"
)

// Server handles web requests for the raytracer
type Server struct {
	port   int
	echo   *echo.Echo
	logger core.Logger
}

// NewServer creates a new web server. A nil logger discards server logs.
func NewServer(port int, logger core.Logger) *Server {
	if logger == nil {
		logger = core.NopLogger{}
	}
	s := &Server{
		port:   port,
		echo:   echo.New(),
		logger: logger,
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(corsMiddleware)
	s.routes()
	return s
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene     string  `json:"scene"`     // Built-in scene name or file scene ID ("file:<name>")
	Width     int     `json:"width"`     // Image width
	Height    int     `json:"height"`    // Image height
	Intensity float64 `json:"intensity"` // Applied to every light
	Power     float64 `json:"power"`     // Phong exponent
}

// Stats represents render statistics
type Stats struct {
	TotalPixels    int     `json:"totalPixels"`
	Hits           int     `json:"hits"`
	Misses         int     `json:"misses"`
	ShadowRays     int     `json:"shadowRays"`
	Tiles          int     `json:"tiles"`
	Workers        int     `json:"workers"`
	HitRatio       float64 `json:"hitRatio"`
	PrimitiveCount int     `json:"primitiveCount"`
}

func newStats(stats renderer.RenderStats, primitives int) Stats {
	return Stats{
		TotalPixels:    stats.TotalPixels,
		Hits:           stats.Hits,
		Misses:         stats.Misses,
		ShadowRays:     stats.ShadowRays,
		Tiles:          stats.Tiles,
		Workers:        stats.Workers,
		HitRatio:       stats.HitRatio(),
		PrimitiveCount: primitives,
	}
}

func (s *Server) routes() {
	s.echo.Static("/", "static")

	api := s.echo.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/scenes", s.handleScenes)
	api.GET("/scene-config", s.handleSceneConfig)
	api.GET("/render", s.handleRender)
	api.GET("/render/stream", s.handleRenderStream)
	api.GET("/inspect", s.handleInspect)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the web server and blocks until it stops
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Printf("Starting web server on http://localhost%s", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight renders
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func corsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Access-Control-Allow-Origin", "*")
		c.Response().Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Response().Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")
		if c.Request().Method == http.MethodOptions {
			return c.NoContent(http.StatusNoContent)
		}
		return next(c)
	}
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes and any scene files found on disk
func (s *Server) handleScenes(c echo.Context) error {
	scenes, err := scene.ListAllScenes(s.logger)
	if err != nil {
		s.logger.Printf("Scene discovery: %v", err)
	}
	return c.JSON(http.StatusOK, scenes)
}

// handleSceneConfig returns the defaults and parameter limits for a scene
func (s *Server) handleSceneConfig(c echo.Context) error {
	sceneName := c.QueryParam("scene")
	if sceneName == "" {
		sceneName = DefaultScene
	}

	sceneObj, err := s.loadScene(sceneName)
	if err != nil {
		return badRequest(c, err.Error())
	}

	intensity := lightsIntensity(sceneObj)
	response := map[string]interface{}{
		"scene": sceneName,
		"defaults": map[string]interface{}{
			"width":     DefaultWidth,
			"height":    DefaultHeight,
			"intensity": intensity,
			"power":     sceneObj.Shading.Power,
			"ambient":   sceneObj.Shading.Ambient,
			"model":     sceneObj.Shading.Model,
			"lights":    len(sceneObj.Lights),
			"objects":   sceneObj.GetPrimitiveCount(),
		},
		"limits": map[string]interface{}{
			"width":     map[string]int{"min": MinImageSize, "max": MaxImageSize},
			"height":    map[string]int{"min": MinImageSize, "max": MaxImageSize},
			"intensity": map[string]float64{"min": config.MinIntensity, "max": config.MaxIntensity},
			"power":     map[string]float64{"min": config.MinPower, "max": config.MaxPower},
		},
	}
	return c.JSON(http.StatusOK, response)
}

// parseRenderRequest parses and range-checks request parameters
func (s *Server) parseRenderRequest(values url.Values) (*RenderRequest, error) {
	req := &RenderRequest{Scene: values.Get("scene")}
	if req.Scene == "" {
		req.Scene = DefaultScene
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", DefaultWidth, MinImageSize, MaxImageSize); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(values, "height", DefaultHeight, MinImageSize, MaxImageSize); err != nil {
		return nil, err
	}
	if req.Intensity, err = parseFloatParam(values, "intensity", 10, config.MinIntensity, config.MaxIntensity); err != nil {
		return nil, err
	}
	if req.Power, err = parseFloatParam(values, "power", 35, config.MinPower, config.MaxPower); err != nil {
		return nil, err
	}

	if req.Width*req.Height > 1600*1200 {
		s.logger.Printf("Render warning: %dx%d image may render slowly", req.Width, req.Height)
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

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if !(parsed >= min && parsed <= max) {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// loadScene resolves a built-in scene name or a discovered file scene ID.
// Arbitrary paths are not accepted.
func (s *Server) loadScene(sceneName string) (*scene.Scene, error) {
	if !strings.HasPrefix(sceneName, "file:") {
		return scene.NewBuiltinScene(sceneName)
	}

	files, err := scene.ListFileScenes(s.logger)
	if err != nil {
		return nil, err
	}
	for _, info := range files {
		if info.ID == sceneName {
			return scene.LoadScene(info.FilePath)
		}
	}
	return nil, fmt.Errorf("%w: %q", scene.ErrUnknownScene, sceneName)
}

// createScene builds the scene snapshot a request renders
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	base, err := s.loadScene(req.Scene)
	if err != nil {
		return nil, err
	}
	sceneObj := base.WithResolution(req.Width, req.Height).WithTunables(req.Intensity, req.Power)
	if err := sceneObj.Validate(); err != nil {
		return nil, err
	}
	return sceneObj, nil
}

func lightsIntensity(sceneObj *scene.Scene) float64 {
	if len(sceneObj.Lights) == 0 {
		return 0
	}
	return sceneObj.Lights[0].GetIntensity()
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": message})
}
