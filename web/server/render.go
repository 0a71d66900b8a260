package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"net/http"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/loaders"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
	"github.com/df07/go-phong-raytracer/pkg/scene"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RenderIDHeader carries the ID assigned to each render
const RenderIDHeader = "X-Render-ID"

// TileUpdate represents a single tile update sent via SSE
type TileUpdate struct {
	TileX      int    `json:"tileX"`
	TileY      int    `json:"tileY"`
	ImageData  string `json:"imageData"`  // Base64 encoded PNG of just this tile
	TileNumber int    `json:"tileNumber"` // Tiles finished so far (1-based)
	TotalTiles int    `json:"totalTiles"`
}

// CompleteUpdate is the final SSE event of a render
type CompleteUpdate struct {
	RenderID  string `json:"renderId"`
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	ElapsedMs int64  `json:"elapsedMs"`
	Stats     Stats  `json:"stats"`
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "tile", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// handleRender renders one image and returns it as a PNG
func (s *Server) handleRender(c echo.Context) error {
	req, err := s.parseRenderRequest(c.QueryParams())
	if err != nil {
		return badRequest(c, fmt.Sprintf("Invalid request: %v", err))
	}
	sceneObj, err := s.createScene(req)
	if err != nil {
		return badRequest(c, err.Error())
	}

	renderID := uuid.New().String()
	pr, err := renderer.NewParallelRenderer(sceneObj, req.Width, req.Height, renderer.DefaultParallelConfig(), s.logger)
	if err != nil {
		return badRequest(c, err.Error())
	}

	s.logger.Printf("Render %s: scene %s at %dx%d", renderID, req.Scene, req.Width, req.Height)
	img, _, err := pr.Render(c.Request().Context(), nil)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	}

	var buf bytes.Buffer
	if err := loaders.EncodePNG(&buf, img); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	c.Response().Header().Set(RenderIDHeader, renderID)
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

// handleRenderStream renders one image and streams console output, finished
// tiles and the final image via SSE. A client disconnect cancels the render.
func (s *Server) handleRenderStream(c echo.Context) error {
	req, err := s.parseRenderRequest(c.QueryParams())
	if err != nil {
		return badRequest(c, fmt.Sprintf("Invalid request: %v", err))
	}
	sceneObj, err := s.createScene(req)
	if err != nil {
		return badRequest(c, err.Error())
	}

	renderID := uuid.New().String()
	s.setSSEHeaders(c, renderID)
	ctx := c.Request().Context()

	// Single writer goroutine owns the response
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(ctx, c.Response(), sseEventChan)
	}()

	consoleChan := make(chan ConsoleMessage, 50)
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()

	webLogger := NewWebLogger(renderID, consoleChan, s.logger)
	final := s.runStreamingRender(ctx, sseEventChan, sceneObj, req, renderID, webLogger)

	// Console output of the render must reach the client before the final event
	close(consoleChan)
	<-consoleDone
	sendEvent(ctx, sseEventChan, final)
	close(sseEventChan)
	<-writerDone
	return nil
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(c echo.Context, renderID string) {
	header := c.Response().Header()
	header.Set(echo.HeaderContentType, "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set(RenderIDHeader, renderID)
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Flush()
}

// runStreamingRender renders the scene, queueing tile events. It returns the
// final event, either "complete" or "error", for the caller to send last.
func (s *Server) runStreamingRender(ctx context.Context, sseEventChan chan SSEEvent, sceneObj *scene.Scene,
	req *RenderRequest, renderID string, logger *WebLogger) SSEEvent {

	pr, err := renderer.NewParallelRenderer(sceneObj, req.Width, req.Height, renderer.DefaultParallelConfig(), logger)
	if err != nil {
		return s.errorEvent(err.Error())
	}

	startTime := time.Now()
	img, stats, err := pr.Render(ctx, func(tile renderer.TileCompletionResult) {
		s.handleTileUpdate(ctx, sseEventChan, tile)
	})
	if err != nil {
		return s.errorEvent(fmt.Sprintf("Rendering failed: %v", err))
	}

	imageData, err := imageToBase64PNG(img)
	if err != nil {
		return s.errorEvent(fmt.Sprintf("Failed to encode image: %v", err))
	}

	data, err := json.Marshal(CompleteUpdate{
		RenderID:  renderID,
		ImageData: imageData,
		Width:     req.Width,
		Height:    req.Height,
		ElapsedMs: time.Since(startTime).Milliseconds(),
		Stats:     newStats(stats, sceneObj.GetPrimitiveCount()),
	})
	if err != nil {
		return s.errorEvent(err.Error())
	}
	return SSEEvent{Type: "complete", Data: string(data)}
}

// writeSSEEvents writes queued events until the channel closes. Events queued
// after the client disconnects are drained and dropped.
func (s *Server) writeSSEEvents(ctx context.Context, w *echo.Response, sseEventChan <-chan SSEEvent) {
	for event := range sseEventChan {
		if ctx.Err() != nil {
			continue
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
			continue
		}
		w.Flush()
	}
}

// streamConsoleMessages forwards console messages until consoleChan closes
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, sseEventChan chan<- SSEEvent) {
	for consoleMsg := range consoleChan {
		data, err := json.Marshal(consoleMsg)
		if err != nil {
			s.logger.Printf("Error marshaling console message: %v", err)
			continue
		}
		sendEvent(ctx, sseEventChan, SSEEvent{Type: "console", Data: string(data)})
	}
}

// handleTileUpdate processes and sends tile update events
func (s *Server) handleTileUpdate(ctx context.Context, sseEventChan chan<- SSEEvent, tileResult renderer.TileCompletionResult) {
	if ctx.Err() != nil {
		return
	}

	tileData, err := imageToBase64PNG(tileResult.TileImage)
	if err != nil {
		s.logger.Printf("Error encoding tile image (%d, %d): %v", tileResult.TileX, tileResult.TileY, err)
		return
	}

	data, err := json.Marshal(TileUpdate{
		TileX:      tileResult.TileX,
		TileY:      tileResult.TileY,
		ImageData:  tileData,
		TileNumber: tileResult.TileNumber,
		TotalTiles: tileResult.TotalTiles,
	})
	if err != nil {
		s.logger.Printf("Error marshaling tile update: %v", err)
		return
	}
	sendEvent(ctx, sseEventChan, SSEEvent{Type: "tile", Data: string(data)})
}

// errorEvent logs a render failure and returns the matching SSE event
func (s *Server) errorEvent(message string) SSEEvent {
	s.logger.Printf("Render error: %s", message)
	return SSEEvent{Type: "error", Data: message}
}

func sendEvent(ctx context.Context, sseEventChan chan<- SSEEvent, event SSEEvent) {
	select {
	case sseEventChan <- event:
	case <-ctx.Done():
	}
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := loaders.EncodePNG(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
