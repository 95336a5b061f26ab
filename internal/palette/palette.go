// Package palette maps viewport coordinates onto the HSV colour space and
// renders the resulting gradient.
package palette

import (
	"context"
	"fmt"
	"image"
	"math"
	"runtime"

	"github.com/MeKo-Tech/huepick/internal/colour"
	"github.com/MeKo-Tech/huepick/internal/worker"
)

// bandRows is the number of image rows rendered per worker task.
const bandRows = 16

// Config describes a palette viewport and its render options.
type Config struct {
	Width   int
	Height  int
	InvertY bool

	// Grain enables the optional paper-grain overlay.
	Grain *GrainConfig

	// Workers caps render parallelism (default: number of CPUs).
	Workers int

	// OnProgress, if set, is called after each rendered band.
	OnProgress worker.ProgressFunc
}

// CoordToHSV maps a pixel coordinate to an HSV colour. Hue follows x
// linearly across [0, 360); the y axis is a tent: the top half ramps
// saturation from 0 to 1 while value pins at 1, the bottom half ramps value
// from 1 down to 0 while saturation pins at 1. With invertY the saturation
// and value assignments swap, for a bottom-left coordinate origin.
func CoordToHSV(width, height, x, y int, invertY bool) colour.HSVf {
	hue := 360 / float64(width) * float64(x)

	// A single-row viewport has no ramp to speak of; clamp the midpoint so
	// the arithmetic below stays finite.
	half := height / 2
	if half < 1 {
		half = 1
	}

	sat := 1.0
	if y <= half {
		sat = float64(y) * (1 / float64(half))
	}

	val := 1.0
	if y > half {
		val = float64(height-y) * (1 / float64(half))
	}

	if invertY {
		return colour.HSVf{H: hue, S: val, V: sat}
	}
	return colour.HSVf{H: hue, S: sat, V: val}
}

// Sample is the colour under one viewport coordinate in every representation
// the presentation shells report.
type Sample struct {
	X, Y int
	HSVf colour.HSVf
	RGBf colour.RGBf
	RGB  colour.RGB
	HSV  colour.HSV
}

// SampleAt resolves the colour under a viewport coordinate.
func (c Config) SampleAt(x, y int) (Sample, error) {
	if x < 0 || x >= c.Width || y < 0 || y >= c.Height {
		return Sample{}, fmt.Errorf("coordinate (%d, %d) outside %dx%d viewport", x, y, c.Width, c.Height)
	}

	hsvf := CoordToHSV(c.Width, c.Height, x, y, c.InvertY)
	rgbf, err := hsvf.ToRGBf()
	if err != nil {
		return Sample{}, fmt.Errorf("converting sample at (%d, %d): %w", x, y, err)
	}

	rgb := rgbf.ToRGB()
	return Sample{X: x, Y: y, HSVf: hsvf, RGBf: rgbf, RGB: rgb, HSV: rgb.ToHSV()}, nil
}

// PackWord packs a float RGB colour into a 0x00RRGGBB framebuffer word using
// the display scaling, floor(255.99 * channel). This is the word written to
// a 32-bit framebuffer and is deliberately distinct from RGBf.ToRGB, which
// is the reported byte value.
func PackWord(c colour.RGBf) uint32 {
	r := uint32(math.Floor(255.99 * c.R))
	g := uint32(math.Floor(255.99 * c.G))
	b := uint32(math.Floor(255.99 * c.B))
	return r<<16 | g<<8 | b
}

// Render draws the full gradient into a fresh image.
func (c Config) Render(ctx context.Context) (*image.NRGBA, error) {
	if c.Width <= 0 || c.Height <= 0 {
		return nil, fmt.Errorf("invalid viewport %dx%d", c.Width, c.Height)
	}

	img := image.NewNRGBA(image.Rect(0, 0, c.Width, c.Height))
	if err := c.RenderInto(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

// RenderInto draws the gradient into img, which must cover at least
// Width x Height pixels at origin. Rows are rendered in parallel bands;
// every pixel takes the validated conversion path, so a domain error
// anywhere aborts the whole render.
func (c Config) RenderInto(ctx context.Context, img *image.NRGBA) error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid viewport %dx%d", c.Width, c.Height)
	}
	if b := img.Bounds(); b.Dx() < c.Width || b.Dy() < c.Height {
		return fmt.Errorf("image %v smaller than %dx%d viewport", b, c.Width, c.Height)
	}

	var grain *grainField
	if c.Grain != nil {
		grain = newGrainField(*c.Grain, c.Width, c.Height)
	}

	workers := c.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	pool := worker.New(worker.Config{
		Workers:    workers,
		Renderer:   &bandRenderer{cfg: c, img: img, grain: grain},
		OnProgress: c.OnProgress,
	})

	for _, res := range pool.Run(ctx, worker.Bands(c.Height, bandRows)) {
		if res.Err != nil {
			return res.Err
		}
	}
	return nil
}

// bandRenderer renders one horizontal band of the gradient.
type bandRenderer struct {
	cfg   Config
	img   *image.NRGBA
	grain *grainField
}

func (r *bandRenderer) RenderBand(ctx context.Context, band worker.Band) error {
	for y := band.Y0; y < band.Y1; y++ {
		for x := 0; x < r.cfg.Width; x++ {
			hsvf := CoordToHSV(r.cfg.Width, r.cfg.Height, x, y, r.cfg.InvertY)
			if r.grain != nil {
				hsvf.V = r.grain.jitterV(x, y, hsvf.V)
			}

			rgbf, err := hsvf.ToRGBf()
			if err != nil {
				return fmt.Errorf("pixel (%d, %d): %w", x, y, err)
			}

			r.img.SetNRGBA(x, y, rgbf.ToRGB().NRGBA())
		}
	}
	return nil
}
