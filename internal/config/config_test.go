package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestParseConfig_DefaultsSurvivePartialFile(t *testing.T) {
	cfg, err := ParseConfig([]byte("camera:\n  fov_deg: 90\n"))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if math.Abs(cfg.GetFOV()-math.Pi/2) > 1e-12 {
		t.Errorf("expected 90° FOV, got %v rad", cfg.GetFOV())
	}
	if cfg.Movement.WalkSpeed != 200 {
		t.Errorf("expected default walk speed 200, got %v", cfg.Movement.WalkSpeed)
	}
	if cfg.GetMaxHits() != 10 {
		t.Errorf("expected default max hits 10, got %d", cfg.GetMaxHits())
	}
}

func TestParseConfig_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"zero fov", "camera:\n  fov_deg: 0\n", ErrInvalidConfig},
		{"no hits", "raycast:\n  max_hits: 0\n", ErrInvalidConfig},
		{"negative workers", "threading:\n  workers: -2\n", ErrInvalidConfig},
		{"zero tps", "display:\n  tps: 0\n", ErrInvalidConfig},
		{"negative tps", "display:\n  tps: -30\n", ErrInvalidConfig},
		{"zero minimap scale", "graphics:\n  minimap:\n    scale: 0\n", ErrInvalidConfig},
		{"bad colour", "graphics:\n  colors:\n    floor: \"#12\"\n", ErrInvalidColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml))
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want uint32
	}{
		{"#C8333333", 0xC8333333},
		{"0xFF000000", 0xFF000000},
		{"#336699", 0xFF336699},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil {
			t.Fatalf("ParseColor(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %#08x, want %#08x", tt.in, got, tt.want)
		}
	}
}

func TestLoadConfig_RepositoryFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("..", "..", "config.yaml"))
	if err != nil {
		t.Fatalf("load config.yaml: %v", err)
	}
	if cfg.World.MapFile == "" {
		t.Error("expected a map file in config.yaml")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}
