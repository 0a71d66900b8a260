package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/logging"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
	"gopkg.in/yaml.v2"
)

// Ranges accepted for the tunables applied before each pass
const (
	MinIntensity = 0.1
	MaxIntensity = 1000.0
	MinPower     = renderer.MinPower
	MaxPower     = renderer.MaxPower
)

var ErrInvalidConfig = errors.New("invalid config")

// Config contains all render settings
type Config struct {
	Camera  CameraConfig  `yaml:"camera"`
	Shading ShadingConfig `yaml:"shading"`
	Render  RenderConfig  `yaml:"render"`
	Log     LogConfig     `yaml:"log"`
	Output  OutputConfig  `yaml:"output"`
}

type CameraConfig struct {
	Position []float64 `yaml:"position"`
	Aim      []float64 `yaml:"aim"`
	ViewMin  []float64 `yaml:"view_min"`
	ViewMax  []float64 `yaml:"view_max"`
	ViewZ    float64   `yaml:"view_z"`
	Width    int       `yaml:"width"`
	Height   int       `yaml:"height"`
}

type ShadingConfig struct {
	Intensity float64 `yaml:"intensity"` // Applied to every light
	Power     float64 `yaml:"power"`     // Phong exponent
	Ambient   float64 `yaml:"ambient"`
	Model     string  `yaml:"model"` // phong, lambert
}

type RenderConfig struct {
	Workers    int       `yaml:"workers"` // 0 = host CPU count
	TileSize   int       `yaml:"tile_size"`
	Background []float64 `yaml:"background"`
}

type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error, off
	File  string `yaml:"file"`  // Optional: also write to this file
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Camera: CameraConfig{
			Position: []float64{0, 0, 10},
			Aim:      []float64{0, 0, -1},
			ViewMin:  []float64{-3, -2},
			ViewMax:  []float64{3, 2},
			ViewZ:    5,
			Width:    600,
			Height:   400,
		},
		Shading: ShadingConfig{
			Intensity: 10,
			Power:     35,
			Ambient:   0.3,
			Model:     string(renderer.ShadingPhong),
		},
		Render: RenderConfig{
			Workers:    0,
			TileSize:   renderer.DefaultTileSize,
			Background: []float64{0, 0, 0},
		},
		Log: LogConfig{
			Level: "info",
		},
		Output: OutputConfig{
			Dir: "output",
		},
	}
}

// LoadConfig loads configuration from a YAML file. Fields missing from the
// file keep their defaults. On error the defaults are returned with the error.
func LoadConfig(filePath string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filePath)
	if err != nil {
		return config, fmt.Errorf("config file not found, using defaults: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), fmt.Errorf("error parsing config: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to a file
func SaveConfig(config *Config, filePath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error serializing config: %w", err)
	}

	if dir := filepath.Dir(filePath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// Validate checks ranges and builds the camera to catch geometry errors
func (c *Config) Validate() error {
	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		return fmt.Errorf("%w: resolution %dx%d must be positive", ErrInvalidConfig, c.Camera.Width, c.Camera.Height)
	}
	if err := ValidateTunables(c.Shading.Intensity, c.Shading.Power); err != nil {
		return err
	}
	if c.Render.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidConfig)
	}
	if c.Render.TileSize < 0 {
		return fmt.Errorf("%w: tile_size must not be negative", ErrInvalidConfig)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := c.BackgroundColor(); err != nil {
		return err
	}
	if err := c.ShadingConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := c.NewCamera(); err != nil {
		return err
	}
	return nil
}

// ValidateTunables checks light intensity and Phong power against their ranges
func ValidateTunables(intensity, power float64) error {
	if math.IsNaN(intensity) || intensity < MinIntensity || intensity > MaxIntensity {
		return fmt.Errorf("%w: intensity %v outside [%v, %v]", ErrInvalidConfig, intensity, MinIntensity, MaxIntensity)
	}
	if math.IsNaN(power) || power < MinPower || power > MaxPower {
		return fmt.Errorf("%w: power %v outside [%v, %v]", ErrInvalidConfig, power, MinPower, MaxPower)
	}
	return nil
}

// CameraConfig converts the camera section to renderer settings
func (c *Config) CameraConfig() (renderer.CameraConfig, error) {
	position, err := vec3("camera.position", c.Camera.Position)
	if err != nil {
		return renderer.CameraConfig{}, err
	}
	aim, err := vec3("camera.aim", c.Camera.Aim)
	if err != nil {
		return renderer.CameraConfig{}, err
	}
	viewMin, err := vec2("camera.view_min", c.Camera.ViewMin)
	if err != nil {
		return renderer.CameraConfig{}, err
	}
	viewMax, err := vec2("camera.view_max", c.Camera.ViewMax)
	if err != nil {
		return renderer.CameraConfig{}, err
	}

	return renderer.CameraConfig{
		Position: position,
		Aim:      aim,
		ViewMin:  viewMin,
		ViewMax:  viewMax,
		ViewZ:    c.Camera.ViewZ,
	}, nil
}

// NewCamera builds and validates the configured camera
func (c *Config) NewCamera() (*renderer.Camera, error) {
	cameraConfig, err := c.CameraConfig()
	if err != nil {
		return nil, err
	}
	return renderer.NewCamera(cameraConfig)
}

// ShadingConfig converts the shading section to renderer settings
func (c *Config) ShadingConfig() renderer.ShadingConfig {
	return renderer.ShadingConfig{
		Ambient: c.Shading.Ambient,
		Power:   c.Shading.Power,
		Model:   renderer.ShadingModel(c.Shading.Model),
	}
}

// ParallelConfig converts the render section to renderer settings
func (c *Config) ParallelConfig() renderer.ParallelConfig {
	return renderer.ParallelConfig{
		TileSize:   c.Render.TileSize,
		NumWorkers: c.Render.Workers,
	}
}

// BackgroundColor returns the configured background color
func (c *Config) BackgroundColor() (core.Color, error) {
	bg := c.Render.Background
	if len(bg) != 3 {
		return core.Color{}, fmt.Errorf("%w: render.background needs 3 components, got %d", ErrInvalidConfig, len(bg))
	}
	return core.NewColor(bg[0], bg[1], bg[2]), nil
}

// NewLogger creates the configured logger
func (c *Config) NewLogger() (*logging.Logger, error) {
	if c.Log.File == "" {
		return logging.NewLogger(c.Log.Level), nil
	}
	return logging.NewMultiLogger(c.Log.Level, c.Log.File)
}

func vec3(field string, values []float64) (core.Vec3, error) {
	if len(values) != 3 {
		return core.Vec3{}, fmt.Errorf("%w: %s needs 3 components, got %d", ErrInvalidConfig, field, len(values))
	}
	return core.NewVec3(values[0], values[1], values[2]), nil
}

func vec2(field string, values []float64) (core.Vec2, error) {
	if len(values) != 2 {
		return core.Vec2{}, fmt.Errorf("%w: %s needs 2 components, got %d", ErrInvalidConfig, field, len(values))
	}
	return core.NewVec2(values[0], values[1]), nil
}
