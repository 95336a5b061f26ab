package cmd

import (
	"testing"

	"github.com/spf13/viper"
)

func TestPaletteConfig_Defaults(t *testing.T) {
	cfg, err := paletteConfig()
	if err != nil {
		t.Fatalf("paletteConfig() error: %v", err)
	}

	if cfg.Width != 720 || cfg.Height != 200 {
		t.Errorf("paletteConfig() = %dx%d, want 720x200", cfg.Width, cfg.Height)
	}
	if cfg.InvertY {
		t.Error("paletteConfig() InvertY = true, want false by default")
	}
}

func TestPaletteConfig_Invalid(t *testing.T) {
	viper.Set("width", 0)
	defer viper.Set("width", 720)

	if _, err := paletteConfig(); err == nil {
		t.Error("paletteConfig() with zero width: expected error")
	}
}

func TestGrainFromViper(t *testing.T) {
	if g := grainFromViper("render"); g != nil {
		t.Fatalf("grain disabled by default, got %+v", g)
	}

	viper.Set("render.grain", true)
	defer viper.Set("render.grain", false)

	g := grainFromViper("render")
	if g == nil {
		t.Fatal("grainFromViper() = nil with grain enabled")
	}
	if g.Seed != 1337 {
		t.Errorf("Seed = %d, want default 1337", g.Seed)
	}
	if g.Scale != 64 {
		t.Errorf("Scale = %v, want default 64", g.Scale)
	}
	if g.Strength != 0.05 {
		t.Errorf("Strength = %v, want default 0.05", g.Strength)
	}
}

func TestUpscale(t *testing.T) {
	cfgDefaults, err := paletteConfig()
	if err != nil {
		t.Fatalf("paletteConfig() error: %v", err)
	}
	cfgDefaults.Width, cfgDefaults.Height = 8, 4

	img, err := cfgDefaults.Render(t.Context())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	scaled := upscale(img, 3)
	if scaled.Bounds().Dx() != 24 || scaled.Bounds().Dy() != 12 {
		t.Errorf("upscale(3) = %v, want 24x12", scaled.Bounds())
	}
}
