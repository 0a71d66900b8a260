package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/config"
	"github.com/df07/go-phong-raytracer/pkg/loaders"
	"github.com/df07/go-phong-raytracer/pkg/logging"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// options holds command line overrides. Zero values leave the config untouched.
type options struct {
	configPath string
	sceneName  string
	outputPath string
	width      int
	height     int
	intensity  float64
	power      float64
	workers    int
	logLevel   string
	list       bool
	help       bool
}

func main() {
	opts := parseFlags(os.Args[1:])
	if opts.help {
		printHelp()
		return
	}
	if opts.list {
		printScenes()
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newFlagSet(opts *options) *flag.FlagSet {
	fs := flag.NewFlagSet("raytracer", flag.ExitOnError)
	fs.StringVar(&opts.configPath, "config", "config.yaml", "Path to the render config file")
	fs.StringVar(&opts.sceneName, "scene", "default", "Built-in scene name or path to a .yaml scene file")
	fs.StringVar(&opts.outputPath, "out", "", "Output PNG path (default output/<scene>/render_<timestamp>.png)")
	fs.IntVar(&opts.width, "width", 0, "Image width in pixels")
	fs.IntVar(&opts.height, "height", 0, "Image height in pixels")
	fs.Float64Var(&opts.intensity, "intensity", 0, "Light intensity applied to every light")
	fs.Float64Var(&opts.power, "power", 0, "Phong specular exponent")
	fs.IntVar(&opts.workers, "workers", -1, "Number of render workers (0 = one per CPU)")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error, off")
	fs.BoolVar(&opts.list, "list", false, "List available scenes and exit")
	fs.BoolVar(&opts.help, "help", false, "Show help information")
	return fs
}

func parseFlags(args []string) options {
	var opts options
	newFlagSet(&opts).Parse(args)
	return opts
}

func printHelp() {
	fmt.Println("Phong Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	var opts options
	fs := newFlagSet(&opts)
	fs.SetOutput(os.Stdout)
	fs.PrintDefaults()
	fmt.Println()
	fmt.Println("Built-in scenes:")
	for _, name := range scene.BuiltinSceneNames() {
		fmt.Printf("  %s\n", name)
	}
	fmt.Println()
	fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.png")
}

func printScenes() {
	scenes, err := scene.ListAllScenes(logging.NewWriterLogger("info", os.Stderr))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	for _, group := range scenes.Groups {
		fmt.Printf("%s:\n", group.Name)
		for _, info := range group.Scenes {
			fmt.Printf("  %-24s %s\n", info.ID, info.Description)
		}
	}
}

// loadConfig reads the config file and applies command line overrides.
// A missing file falls back to defaults.
func loadConfig(opts options) (*config.Config, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	if opts.width > 0 {
		cfg.Camera.Width = opts.width
	}
	if opts.height > 0 {
		cfg.Camera.Height = opts.height
	}
	if opts.intensity != 0 {
		cfg.Shading.Intensity = opts.intensity
	}
	if opts.power != 0 {
		cfg.Shading.Power = opts.power
	}
	if opts.workers >= 0 {
		cfg.Render.Workers = opts.workers
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// createScene loads the named scene and applies the render config to it.
// Scene files keep their own background and shading unless the power was
// set on the command line.
func createScene(sceneName string, cfg *config.Config, powerOverride bool) (*scene.Scene, error) {
	if sceneName == "" {
		return nil, fmt.Errorf("%w: empty scene name", scene.ErrUnknownScene)
	}
	base, err := scene.Load(sceneName)
	if err != nil {
		return nil, err
	}

	camera, err := cfg.NewCamera()
	if err != nil {
		return nil, err
	}
	s := base.WithCamera(camera).WithResolution(cfg.Camera.Width, cfg.Camera.Height)

	power := s.Shading.Power
	if !scene.IsSceneFile(sceneName) {
		background, err := cfg.BackgroundColor()
		if err != nil {
			return nil, err
		}
		s.Background = background
		s.Shading = cfg.ShadingConfig()
		power = cfg.Shading.Power
	} else if powerOverride {
		power = cfg.Shading.Power
	}

	s = s.WithTunables(cfg.Shading.Intensity, power)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// createOutputDir returns the directory renders of sceneName are written to
func createOutputDir(baseDir, sceneName string) string {
	name := sceneName
	if scene.IsSceneFile(sceneName) {
		name = strings.TrimSuffix(filepath.Base(sceneName), filepath.Ext(sceneName))
	}
	if name == "" {
		name = "scene"
	}
	return filepath.Join(baseDir, name)
}

func run(ctx context.Context, opts options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	defer logger.Close()

	logger.Infof("Starting Phong Raytracer...")
	s, err := createScene(opts.sceneName, cfg, opts.power != 0)
	if err != nil {
		return err
	}
	logger.Infof("Scene %s: %d objects, %d lights, %dx%d", s.Name, s.GetPrimitiveCount(), len(s.Lights), s.Width, s.Height)

	pr, err := renderer.NewParallelRenderer(s, s.Width, s.Height, cfg.ParallelConfig(), logger)
	if err != nil {
		return err
	}

	img, stats, err := pr.Render(ctx, nil)
	if err != nil {
		return err
	}
	logRenderStats(logger, stats)

	filename := opts.outputPath
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = filepath.Join(createOutputDir(cfg.Output.Dir, opts.sceneName), fmt.Sprintf("render_%s.png", timestamp))
	}
	if err := loaders.SavePNG(filename, img); err != nil {
		return err
	}

	logger.Infof("Render saved as %s", filename)
	return nil
}

func logRenderStats(logger *logging.Logger, stats renderer.RenderStats) {
	logger.Infof("Pixels: %d (%.1f%% hit), shadow rays: %d", stats.TotalPixels, stats.HitRatio()*100, stats.ShadowRays)
	logger.Debugf("Tiles: %d across %d workers in %v", stats.Tiles, stats.Workers, stats.Duration)
}
