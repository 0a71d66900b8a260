package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// DefaultTileSize is the edge length in pixels of a square tile
const DefaultTileSize = 16

// ParallelConfig contains configuration for tiled parallel rendering
type ParallelConfig struct {
	TileSize   int // Size of each tile in pixels
	NumWorkers int // Number of parallel workers (0 = use CPU count)
}

// DefaultParallelConfig returns sensible default values
func DefaultParallelConfig() ParallelConfig {
	return ParallelConfig{
		TileSize:   DefaultTileSize,
		NumWorkers: 0, // Auto-detect CPU count
	}
}

// TileCompletionResult contains information about a completed tile for callbacks
type TileCompletionResult struct {
	TileX     int // Tile coordinates (not pixel coordinates)
	TileY     int
	TileImage *image.RGBA // Image data for just this tile

	// Progress information
	TileNumber int // Tiles completed so far, including this one (1-based)
	TotalTiles int
}

// ParallelRenderer splits a pass into tiles and renders them on a worker pool.
// The output is identical to Raytracer.RenderPass.
type ParallelRenderer struct {
	raytracer *Raytracer
	config    ParallelConfig
	tiles     []*Tile
	logger    core.Logger
}

// NewParallelRenderer creates a parallel renderer for a scene snapshot
func NewParallelRenderer(scene Scene, width, height int, config ParallelConfig, logger core.Logger) (*ParallelRenderer, error) {
	raytracer, err := NewRaytracer(scene, width, height)
	if err != nil {
		return nil, err
	}
	if config.TileSize <= 0 {
		config.TileSize = DefaultTileSize
	}
	if config.NumWorkers <= 0 {
		config.NumWorkers = DefaultWorkerCount()
	}
	if logger == nil {
		logger = core.NopLogger{}
	}

	return &ParallelRenderer{
		raytracer: raytracer,
		config:    config,
		tiles:     NewTileGrid(width, height, config.TileSize),
		logger:    logger,
	}, nil
}

// Raytracer returns the underlying single-threaded raytracer
func (pr *ParallelRenderer) Raytracer() *Raytracer { return pr.raytracer }

// Render renders one pass. tileCallback, if set, is called from the calling
// goroutine as tiles finish. A cancelled context aborts the pass between
// tiles and the partial image is discarded.
func (pr *ParallelRenderer) Render(ctx context.Context, tileCallback func(TileCompletionResult)) (*image.RGBA, RenderStats, error) {
	start := time.Now()
	width, height := pr.raytracer.Width(), pr.raytracer.Height()
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	workerPool := NewWorkerPool(pr.raytracer, pr.config.NumWorkers, len(pr.tiles))
	pr.logger.Printf("Rendering %dx%d in %d tiles (using %d workers)...\n",
		width, height, len(pr.tiles), workerPool.GetNumWorkers())

	workerPool.Start()
	for taskID, tile := range pr.tiles {
		workerPool.SubmitTask(TileTask{
			Ctx:    ctx,
			Tile:   tile,
			TaskID: taskID,
			Image:  img,
		})
	}

	stats := RenderStats{Workers: workerPool.GetNumWorkers()}
	var firstErr error

	// Drain every result so no worker is left blocked on the result queue
	for i := 0; i < len(pr.tiles); i++ {
		result, ok := workerPool.GetResult()
		if !ok {
			firstErr = fmt.Errorf("worker pool closed unexpectedly")
			break
		}
		if result.Error != nil {
			if firstErr == nil {
				firstErr = result.Error
			}
			continue
		}

		stats.Add(result.Stats)

		if tileCallback != nil && firstErr == nil {
			tile := pr.tiles[result.TaskID]
			tileCallback(TileCompletionResult{
				TileX:      tile.Bounds.Min.X / pr.config.TileSize,
				TileY:      tile.Bounds.Min.Y / pr.config.TileSize,
				TileImage:  extractTileImage(img, tile.Bounds),
				TileNumber: i + 1,
				TotalTiles: len(pr.tiles),
			})
		}
	}
	workerPool.Stop()

	if firstErr != nil {
		pr.logger.Printf("Render aborted: %v\n", firstErr)
		return nil, RenderStats{}, firstErr
	}

	stats.Duration = time.Since(start)
	pr.logger.Printf("Render completed in %v (%d hits, %d misses, %d shadow rays)\n",
		stats.Duration, stats.Hits, stats.Misses, stats.ShadowRays)

	return img, stats, nil
}

// extractTileImage copies the pixels of one tile into a new image
func extractTileImage(img *image.RGBA, bounds image.Rectangle) *image.RGBA {
	tileImage := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			tileImage.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, img.RGBAAt(x, y))
		}
	}
	return tileImage
}
