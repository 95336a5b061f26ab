package palette

import (
	"image"
	"image/color"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/disintegration/gift"
)

// GrainConfig controls the optional paper-grain overlay. The grain perturbs
// the value channel before conversion, so grained pixels still pass through
// the validated HSV domain.
type GrainConfig struct {
	Seed     int64
	Scale    float64 // noise feature size in pixels (default 64)
	Strength float64 // maximum value jitter (default 0.05)
	Blur     float32 // Gaussian sigma applied to the noise field, 0 disables
}

// grainField is a noise field precomputed once per render and sampled per
// pixel.
type grainField struct {
	noise    *image.Gray
	strength float64
}

func newGrainField(cfg GrainConfig, width, height int) *grainField {
	if cfg.Scale <= 0 {
		cfg.Scale = 64
	}
	if cfg.Strength <= 0 {
		cfg.Strength = 0.05
	}

	// alpha: persistence, beta: lacunarity, n: octaves
	p := perlin.NewPerlin(2.0, 2.0, 3, cfg.Seed)

	noise := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// Noise2D returns roughly -1 to 1
			val := p.Noise2D(float64(x)/cfg.Scale, float64(y)/cfg.Scale)
			normalized := (val + 1) / 2
			gray := uint8(math.Max(0, math.Min(255, normalized*255)))
			noise.SetGray(x, y, color.Gray{Y: gray})
		}
	}

	if cfg.Blur > 0 {
		g := gift.New(gift.GaussianBlur(cfg.Blur))
		dst := image.NewGray(g.Bounds(noise.Bounds()))
		g.Draw(dst, noise)
		noise = dst
	}

	return &grainField{noise: noise, strength: cfg.Strength}
}

// jitterV perturbs a value channel by the noise at (x, y), clamped so the
// result stays inside the [0, 1] domain the conversion validates.
func (g *grainField) jitterV(x, y int, v float64) float64 {
	// Noise is centered around 128
	noise := float64(g.noise.GrayAt(x, y).Y)
	v += (noise - 128) / 128 * g.strength

	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return v
}
