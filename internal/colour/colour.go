// Package colour implements the HSV and RGB representations used by the
// palette renderer and the conversions between them.
//
// Conversions are pure functions over value types: no shared state, no I/O,
// safe to call from any number of goroutines.
package colour

import (
	"fmt"
	"image/color"
	"math"
)

// HSVf is an HSV colour with float64 fields.
// H is degrees in [0, 360]; S and V are in [0, 1].
type HSVf struct {
	H, S, V float64
}

// HSV is the integer display form of an HSV colour: whole degrees for hue,
// whole percent for saturation and value. It is derived and lossy.
type HSV struct {
	H    uint16
	S, V uint8
}

// RGBf is an RGB colour with float64 channels in [0, 1].
type RGBf struct {
	R, G, B float64
}

// RGB is an RGB colour with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// InvalidInputError reports an HSVf whose fields fall outside their domain.
// It carries the offending values for diagnostics.
type InvalidInputError struct {
	H, S, V float64
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid HSV: h=%v s=%v v=%v", e.H, e.S, e.V)
}

// level names the role a channel plays inside a hue sector.
type level int

const (
	levelV level = iota
	levelP
	levelQ
	levelT
)

// sectors assigns the v/p/q/t levels to the (r, g, b) channels for each of
// the six 60° hue sectors.
var sectors = [6][3]level{
	{levelV, levelT, levelP},
	{levelQ, levelV, levelP},
	{levelP, levelV, levelT},
	{levelP, levelQ, levelV},
	{levelT, levelP, levelV},
	{levelV, levelP, levelQ},
}

// ToRGBf converts to floating-point RGB. It returns an *InvalidInputError
// when hue is outside [0, 360] or saturation/value are outside [0, 1].
// A hue of exactly 360 wraps to 0.
func (c HSVf) ToRGBf() (RGBf, error) {
	if c.H < 0 || c.H > 360 || c.S < 0 || c.S > 1 || c.V < 0 || c.V > 1 {
		return RGBf{}, &InvalidInputError{H: c.H, S: c.S, V: c.V}
	}

	h := c.H / 60
	if int64(math.Floor(c.H)) == 360 {
		h = 0
	}

	fraction := h - math.Floor(h)

	p := c.V * (1 - c.S)
	q := c.V * (1 - c.S*fraction)
	t := c.V * (1 - c.S*(1-fraction))

	sector := int(h)
	if sector < 0 || sector >= len(sectors) {
		// Unreachable after normalisation; black is the defined fallback.
		return RGBf{}, nil
	}

	levels := [...]float64{levelV: c.V, levelP: p, levelQ: q, levelT: t}
	roles := sectors[sector]
	return RGBf{
		R: levels[roles[0]],
		G: levels[roles[1]],
		B: levels[roles[2]],
	}, nil
}

// ToRGB scales each channel by 255 and truncates toward zero. Channels are
// expected in [0, 1] and are not validated; out-of-range input wraps.
func (c RGBf) ToRGB() RGB {
	return RGB{
		R: uint8(c.R * 255),
		G: uint8(c.G * 255),
		B: uint8(c.B * 255),
	}
}

// ToHSV converts to the integer HSV display form. Hue is truncated to whole
// degrees in [0, 359], saturation and value to whole percent, so the result
// is lossy. Channels are normalised in single precision, matching the
// precision the readout values were calibrated against.
func (c RGB) ToHSV() HSV {
	r := float32(c.R) / 255
	g := float32(c.G) / 255
	b := float32(c.B) / 255

	cmax := max(r, g, b)
	cmin := min(r, g, b)
	delta := cmax - cmin

	var hue float32
	switch {
	case delta == 0:
		// Achromatic: the piecewise formula below divides by delta.
		hue = 0
	case r == cmax:
		hue = float32(math.Mod(float64((g-b)/delta), 6))
		if hue < 0 {
			hue += 6
		}
		hue *= 60
	case g == cmax:
		hue = ((b-r)/delta + 2) * 60
	case b == cmax:
		hue = ((r-g)/delta + 4) * 60
	}

	var sat float32
	if cmax > 0 {
		sat = delta / cmax
	}

	return HSV{
		H: uint16(hue),
		S: uint8(sat * 100),
		V: uint8(cmax * 100),
	}
}

// NRGBA returns the colour as an opaque image/color value.
func (c RGB) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Hex returns the colour in #rrggbb form.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c HSV) String() string {
	return fmt.Sprintf("h: %d°, s: %d%%, v: %d%%", c.H, c.S, c.V)
}
