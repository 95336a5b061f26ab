// Package server serves palette previews and colour samples over HTTP.
package server

import (
	"encoding/json"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/MeKo-Tech/huepick/internal/palette"
)

// PreviewConfig configures the preview server.
type PreviewConfig struct {
	Palette palette.Config

	// MaxWidth/MaxHeight bound per-request viewport overrides.
	MaxWidth  int
	MaxHeight int

	SwatchWidth  int
	SwatchHeight int

	CacheControl   string
	PNGCompression string
}

// Preview serves the palette gradient and colour samples.
type Preview struct {
	cfg     PreviewConfig
	logger  *slog.Logger
	encoder png.Encoder

	totalRendered atomic.Int64
	totalFailed   atomic.Int64
}

// NewPreview creates a preview server, filling unset config fields with
// defaults.
func NewPreview(cfg PreviewConfig, logger *slog.Logger) (*Preview, error) {
	if cfg.Palette.Width <= 0 {
		cfg.Palette.Width = 720
	}
	if cfg.Palette.Height <= 0 {
		cfg.Palette.Height = 200
	}
	if cfg.MaxWidth <= 0 {
		cfg.MaxWidth = 4096
	}
	if cfg.MaxHeight <= 0 {
		cfg.MaxHeight = 4096
	}
	if cfg.SwatchWidth <= 0 {
		cfg.SwatchWidth = 100
	}
	if cfg.SwatchHeight <= 0 {
		cfg.SwatchHeight = 25
	}
	if cfg.CacheControl == "" {
		cfg.CacheControl = "no-store"
	}
	if logger == nil {
		logger = slog.Default()
	}

	level, err := PNGCompressionLevel(cfg.PNGCompression)
	if err != nil {
		return nil, err
	}

	return &Preview{
		cfg:     cfg,
		logger:  logger,
		encoder: png.Encoder{CompressionLevel: level},
	}, nil
}

// PNGCompressionLevel maps a configuration name to a png encoder level.
func PNGCompressionLevel(name string) (png.CompressionLevel, error) {
	switch name {
	case "", "default":
		return png.DefaultCompression, nil
	case "speed":
		return png.BestSpeed, nil
	case "best":
		return png.BestCompression, nil
	case "none":
		return png.NoCompression, nil
	}
	return 0, fmt.Errorf("unsupported png compression %q", name)
}

// Handler returns the route set for the preview server.
func (p *Preview) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/status", p.handleStatus)

	mux.Handle("/palette.png", withCORS(http.HandlerFunc(p.handlePalette)))
	mux.Handle("/swatch.png", withCORS(http.HandlerFunc(p.handleSwatch)))
	mux.Handle("/sample", withCORS(http.HandlerFunc(p.handleSample)))

	return mux
}

func (p *Preview) handlePalette(w http.ResponseWriter, r *http.Request) {
	cfg, err := p.requestPalette(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	img, err := cfg.Render(r.Context())
	if err != nil {
		p.totalFailed.Add(1)
		p.logger.Error("palette render failed", "error", err, "width", cfg.Width, "height", cfg.Height)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	p.totalRendered.Add(1)

	p.writePNG(w, img)
}

func (p *Preview) handleSwatch(w http.ResponseWriter, r *http.Request) {
	x, y, err := coordParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s, err := p.cfg.Palette.SampleAt(x, y)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	swatch := image.NewNRGBA(image.Rect(0, 0, p.cfg.SwatchWidth, p.cfg.SwatchHeight))
	draw.Draw(swatch, swatch.Bounds(), image.NewUniform(s.RGB.NRGBA()), image.Point{}, draw.Src)

	p.writePNG(w, swatch)
}

type sampleRGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

type sampleHSV struct {
	H uint16 `json:"h"`
	S uint8  `json:"s"`
	V uint8  `json:"v"`
}

type sampleResponse struct {
	X    int       `json:"x"`
	Y    int       `json:"y"`
	Hex  string    `json:"hex"`
	RGB  sampleRGB `json:"rgb"`
	HSV  sampleHSV `json:"hsv"`
	Word uint32    `json:"word"`
}

func (p *Preview) handleSample(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	x, y, err := coordParams(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	s, err := p.cfg.Palette.SampleAt(x, y)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := sampleResponse{
		X:    s.X,
		Y:    s.Y,
		Hex:  s.RGB.Hex(),
		RGB:  sampleRGB{R: s.RGB.R, G: s.RGB.G, B: s.RGB.B},
		HSV:  sampleHSV{H: s.HSV.H, S: s.HSV.S, V: s.HSV.V},
		Word: palette.PackWord(s.RGBf),
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		p.logger.Error("failed to encode sample", "error", err)
	}
}

func (p *Preview) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	status := struct {
		Width         int   `json:"width"`
		Height        int   `json:"height"`
		TotalRendered int64 `json:"total_rendered"`
		TotalFailed   int64 `json:"total_failed"`
	}{
		Width:         p.cfg.Palette.Width,
		Height:        p.cfg.Palette.Height,
		TotalRendered: p.totalRendered.Load(),
		TotalFailed:   p.totalFailed.Load(),
	}

	if err := json.NewEncoder(w).Encode(status); err != nil {
		p.logger.Error("failed to encode status", "error", err)
		http.Error(w, "failed to encode status", http.StatusInternalServerError)
	}
}

// requestPalette applies per-request viewport overrides, clamped to the
// configured maxima.
func (p *Preview) requestPalette(r *http.Request) (palette.Config, error) {
	cfg := p.cfg.Palette

	width, err := intParam(r, "width", cfg.Width)
	if err != nil {
		return cfg, err
	}
	height, err := intParam(r, "height", cfg.Height)
	if err != nil {
		return cfg, err
	}

	if width < 1 || width > p.cfg.MaxWidth {
		return cfg, fmt.Errorf("width %d outside [1, %d]", width, p.cfg.MaxWidth)
	}
	if height < 1 || height > p.cfg.MaxHeight {
		return cfg, fmt.Errorf("height %d outside [1, %d]", height, p.cfg.MaxHeight)
	}
	cfg.Width = width
	cfg.Height = height

	if v := r.URL.Query().Get("invert"); v != "" {
		invert, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid invert parameter %q", v)
		}
		cfg.InvertY = invert
	}

	return cfg, nil
}

func (p *Preview) writePNG(w http.ResponseWriter, img image.Image) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", p.cfg.CacheControl)

	if err := p.encoder.Encode(w, img); err != nil {
		p.logger.Error("failed to encode png", "error", err)
	}
}

func coordParams(r *http.Request) (x, y int, err error) {
	x, err = intParam(r, "x", -1)
	if err != nil {
		return 0, 0, err
	}
	y, err = intParam(r, "y", -1)
	if err != nil {
		return 0, 0, err
	}
	if !r.URL.Query().Has("x") || !r.URL.Query().Has("y") {
		return 0, 0, fmt.Errorf("x and y parameters are required")
	}
	return x, y, nil
}

func intParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s parameter %q", name, v)
	}
	return n, nil
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
