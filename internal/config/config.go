package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"portalcaster/internal/mathutil"
)

// Config holds all raycaster configuration values
type Config struct {
	Display   DisplayConfig   `yaml:"display"`
	World     WorldConfig     `yaml:"world"`
	Movement  MovementConfig  `yaml:"movement"`
	Camera    CameraConfig    `yaml:"camera"`
	Raycast   RaycastConfig   `yaml:"raycast"`
	Graphics  GraphicsConfig  `yaml:"graphics"`
	Threading ThreadingConfig `yaml:"threading"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type DisplayConfig struct {
	WindowTitle string  `yaml:"window_title"`
	Scale       float64 `yaml:"scale"` // window size multiplier over the frame buffer
	TPS         int     `yaml:"tps"`
	ShowMinimap bool    `yaml:"show_minimap"`
	ShowFPS     bool    `yaml:"show_fps"`
}

type WorldConfig struct {
	MapFile string `yaml:"map_file"`
}

type MovementConfig struct {
	WalkSpeed    float64 `yaml:"walk_speed"`     // pixels per second
	TurnSpeedDeg float64 `yaml:"turn_speed_deg"` // degrees per second
}

type CameraConfig struct {
	FieldOfViewDeg float64 `yaml:"fov_deg"`
}

type RaycastConfig struct {
	MaxHits int `yaml:"max_hits"`
}

type GraphicsConfig struct {
	Colors  ColorsConfig  `yaml:"colors"`
	Minimap MinimapConfig `yaml:"minimap"`
}

// ColorsConfig holds packed AARRGGBB colours written as hex strings ("#C8333333").
type ColorsConfig struct {
	Clear          string `yaml:"clear"`
	Ceiling        string `yaml:"ceiling"`
	Floor          string `yaml:"floor"`
	WallVertical   string `yaml:"wall_vertical"`
	WallHorizontal string `yaml:"wall_horizontal"`
}

type MinimapConfig struct {
	Scale float64 `yaml:"scale"`
}

type ThreadingConfig struct {
	Parallel bool `yaml:"parallel"`
	Workers  int  `yaml:"workers"` // 0 means one per CPU
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

var (
	ErrInvalidColor  = errors.New("invalid colour")
	ErrInvalidConfig = errors.New("invalid config")
)

// Defaults returns the stock settings: 60° FOV, 200 px/s walk, 110°/s turn,
// ten layers per ray.
func Defaults() *Config {
	return &Config{
		Display: DisplayConfig{
			WindowTitle: "ray casting",
			Scale:       1,
			TPS:         60,
			ShowFPS:     true,
		},
		World:    WorldConfig{MapFile: "assets/maps/portal_hall.yaml"},
		Movement: MovementConfig{WalkSpeed: 200, TurnSpeedDeg: 110},
		Camera:   CameraConfig{FieldOfViewDeg: 60},
		Raycast:  RaycastConfig{MaxHits: 10},
		Graphics: GraphicsConfig{
			Colors: ColorsConfig{
				Clear:          "#FF000000",
				Ceiling:        "#C8333333",
				Floor:          "#C8777777",
				WallVertical:   "#C8FFFFFF",
				WallHorizontal: "#C8CCCCCC",
			},
			Minimap: MinimapConfig{Scale: 0.2},
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// LoadConfig loads the configuration from a YAML file. Missing keys keep their
// default values.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filename, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML on top of Defaults and validates the result.
func ParseConfig(data []byte) (*Config, error) {
	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoadConfig loads the configuration and panics on error
func MustLoadConfig(filename string) *Config {
	config, err := LoadConfig(filename)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return config
}

// Validate rejects values the renderer cannot work with.
func (c *Config) Validate() error {
	if c.Camera.FieldOfViewDeg <= 0 || c.Camera.FieldOfViewDeg >= 180 {
		return fmt.Errorf("%w: fov_deg must be in (0, 180), got %v", ErrInvalidConfig, c.Camera.FieldOfViewDeg)
	}
	if c.Raycast.MaxHits <= 0 {
		return fmt.Errorf("%w: max_hits must be positive, got %d", ErrInvalidConfig, c.Raycast.MaxHits)
	}
	if c.Movement.WalkSpeed < 0 || c.Movement.TurnSpeedDeg < 0 {
		return fmt.Errorf("%w: movement speeds must not be negative", ErrInvalidConfig)
	}
	if c.Display.Scale <= 0 {
		return fmt.Errorf("%w: display scale must be positive, got %v", ErrInvalidConfig, c.Display.Scale)
	}
	if c.Display.TPS <= 0 {
		return fmt.Errorf("%w: display tps must be positive, got %d", ErrInvalidConfig, c.Display.TPS)
	}
	if c.Graphics.Minimap.Scale <= 0 {
		return fmt.Errorf("%w: minimap scale must be positive, got %v", ErrInvalidConfig, c.Graphics.Minimap.Scale)
	}
	if c.Threading.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Threading.Workers)
	}
	for name, s := range map[string]string{
		"clear":           c.Graphics.Colors.Clear,
		"ceiling":         c.Graphics.Colors.Ceiling,
		"floor":           c.Graphics.Colors.Floor,
		"wall_vertical":   c.Graphics.Colors.WallVertical,
		"wall_horizontal": c.Graphics.Colors.WallHorizontal,
	} {
		if _, err := ParseColor(s); err != nil {
			return fmt.Errorf("graphics.colors.%s: %w", name, err)
		}
	}
	return nil
}

// ParseColor reads "#AARRGGBB" or "#RRGGBB" (implicitly opaque) into a packed
// 0xAARRGGBB value.
func ParseColor(s string) (uint32, error) {
	hex := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "#"), "0x")
	switch len(hex) {
	case 6:
		hex = "FF" + hex
	case 8:
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return uint32(v), nil
}

// MustColor is ParseColor for values already checked by Validate.
func MustColor(s string) uint32 {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Helper functions for easy access to commonly used values
func (c *Config) GetFOV() float64 {
	return mathutil.DegToRad(c.Camera.FieldOfViewDeg)
}

func (c *Config) GetTurnSpeed() float64 {
	return mathutil.DegToRad(c.Movement.TurnSpeedDeg)
}

func (c *Config) GetWalkSpeed() float64 {
	return c.Movement.WalkSpeed
}

func (c *Config) GetMaxHits() int {
	return c.Raycast.MaxHits
}
