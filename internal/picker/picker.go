// Package picker provides the interactive palette window.
package picker

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/MeKo-Tech/huepick/internal/palette"
)

// PaletteCanvas displays the gradient and reports the colour under the
// cursor through the OnHover and OnPick callbacks.
type PaletteCanvas struct {
	widget.BaseWidget

	base   palette.Config
	logger *slog.Logger
	raster *fynecanvas.Raster

	// Cached render, re-used until the display size changes
	img  *image.NRGBA
	imgW int
	imgH int

	OnHover func(palette.Sample)
	OnPick  func(palette.Sample)
}

var (
	_ desktop.Hoverable = (*PaletteCanvas)(nil)
	_ fyne.Tappable     = (*PaletteCanvas)(nil)
)

// NewPaletteCanvas creates a palette canvas for the given viewport.
func NewPaletteCanvas(base palette.Config, logger *slog.Logger) *PaletteCanvas {
	if logger == nil {
		logger = slog.Default()
	}

	pc := &PaletteCanvas{base: base, logger: logger}
	pc.raster = fynecanvas.NewRaster(pc.draw)
	pc.raster.ScaleMode = fynecanvas.ImageScalePixels
	pc.ExtendBaseWidget(pc)
	return pc
}

func (pc *PaletteCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(pc.raster)
}

func (pc *PaletteCanvas) MinSize() fyne.Size {
	return fyne.NewSize(float32(pc.base.Width), float32(pc.base.Height))
}

// draw re-renders the gradient whenever the raster is displayed at a new
// pixel size. The coordinate map keeps every pixel inside the conversion
// domain, so a render error here means the map itself is broken; it is
// logged and the stale buffer shown rather than crashing the UI loop.
func (pc *PaletteCanvas) draw(w, h int) image.Image {
	if w <= 0 || h <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, 1, 1))
	}

	if pc.img == nil || pc.imgW != w || pc.imgH != h {
		cfg := pc.base
		cfg.Width, cfg.Height = w, h

		img, err := cfg.Render(context.Background())
		if err != nil {
			pc.logger.Error("palette render failed", "error", err, "width", w, "height", h)
			if pc.img == nil {
				pc.img = image.NewNRGBA(image.Rect(0, 0, w, h))
			}
		} else {
			pc.img = img
		}
		pc.imgW, pc.imgH = w, h
	}

	return pc.img
}

// sampleAt maps a pointer position (in widget points) onto the palette.
func (pc *PaletteCanvas) sampleAt(pos fyne.Position) (palette.Sample, bool) {
	size := pc.Size()
	cfg := pc.base
	cfg.Width, cfg.Height = int(size.Width), int(size.Height)
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return palette.Sample{}, false
	}

	s, err := cfg.SampleAt(int(pos.X), int(pos.Y))
	if err != nil {
		// Pointer left the gradient area.
		return palette.Sample{}, false
	}
	return s, true
}

func (pc *PaletteCanvas) MouseIn(ev *desktop.MouseEvent) {
	pc.MouseMoved(ev)
}

func (pc *PaletteCanvas) MouseMoved(ev *desktop.MouseEvent) {
	if pc.OnHover == nil {
		return
	}
	if s, ok := pc.sampleAt(ev.Position); ok {
		pc.OnHover(s)
	}
}

func (pc *PaletteCanvas) MouseOut() {}

// Tapped reports the clicked colour.
func (pc *PaletteCanvas) Tapped(ev *fyne.PointEvent) {
	if pc.OnPick == nil {
		return
	}
	if s, ok := pc.sampleAt(ev.Position); ok {
		pc.OnPick(s)
	}
}

// Config controls the picker window.
type Config struct {
	Palette palette.Config
	Title   string
}

// Run opens the picker window and blocks until it is closed. Hovering
// updates the swatch, readout, and window title; clicking prints the sample
// line to stdout; Escape closes the window.
func Run(cfg Config, logger *slog.Logger) {
	if cfg.Title == "" {
		cfg.Title = "Colour Palette"
	}
	if logger == nil {
		logger = slog.Default()
	}

	a := app.New()
	win := a.NewWindow(cfg.Title)

	pc := NewPaletteCanvas(cfg.Palette, logger)

	swatch := fynecanvas.NewRectangle(color.NRGBA{A: 0xff})
	swatch.SetMinSize(fyne.NewSize(100, 25))

	readout := widget.NewLabel("")

	pc.OnHover = func(s palette.Sample) {
		swatch.FillColor = s.RGB.NRGBA()
		swatch.Refresh()
		readout.SetText(fmt.Sprintf("%s  %s", s.RGB.Hex(), s.HSV))
		win.SetTitle(StatusLine(s))
	}
	pc.OnPick = func(s palette.Sample) {
		fmt.Println(StatusLine(s))
		logger.Debug("picked colour", "x", s.X, "y", s.Y, "hex", s.RGB.Hex())
	}

	bottom := container.NewHBox(swatch, readout)
	win.SetContent(container.NewBorder(nil, bottom, nil, nil, pc))

	win.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			win.Close()
		}
	})

	win.Resize(fyne.NewSize(float32(cfg.Palette.Width), float32(cfg.Palette.Height)+60))
	win.ShowAndRun()
}

// StatusLine formats a sample the way the title bar and click log show it.
func StatusLine(s palette.Sample) string {
	return fmt.Sprintf("[ x: %d, y: %d ]  r: %d, g: %d, b: %d", s.X, s.Y, s.RGB.R, s.RGB.G, s.RGB.B)
}
