package server

import (
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MeKo-Tech/huepick/internal/palette"
	"github.com/stretchr/testify/require"
)

func newTestPreview(t *testing.T) *Preview {
	t.Helper()

	p, err := NewPreview(PreviewConfig{
		Palette:   palette.Config{Width: 72, Height: 20},
		MaxWidth:  256,
		MaxHeight: 256,
	}, nil)
	require.NoError(t, err)
	return p
}

func TestPreview_Healthz(t *testing.T) {
	srv := httptest.NewServer(newTestPreview(t).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPreview_PalettePNG(t *testing.T) {
	srv := httptest.NewServer(newTestPreview(t).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/palette.png")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	img, err := png.Decode(resp.Body)
	require.NoError(t, err)
	require.Equal(t, 72, img.Bounds().Dx())
	require.Equal(t, 20, img.Bounds().Dy())
}

func TestPreview_PaletteOverrides(t *testing.T) {
	srv := httptest.NewServer(newTestPreview(t).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/palette.png?width=100&height=40&invert=true")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	img, err := png.Decode(resp.Body)
	require.NoError(t, err)
	require.Equal(t, 100, img.Bounds().Dx())
	require.Equal(t, 40, img.Bounds().Dy())
}

func TestPreview_PaletteOverrideBounds(t *testing.T) {
	srv := httptest.NewServer(newTestPreview(t).Handler())
	defer srv.Close()

	for _, query := range []string{
		"?width=0",
		"?width=10000",
		"?height=-5",
		"?width=abc",
		"?invert=maybe",
	} {
		resp, err := http.Get(srv.URL + "/palette.png" + query)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, "query %s", query)
	}
}

func TestPreview_Sample(t *testing.T) {
	srv := httptest.NewServer(newTestPreview(t).Handler())
	defer srv.Close()

	// x=18 of 72 is hue 90 at the fully saturated midline: chartreuse.
	resp, err := http.Get(srv.URL + "/sample?x=18&y=10")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var sample struct {
		X   int    `json:"x"`
		Y   int    `json:"y"`
		Hex string `json:"hex"`
		RGB struct {
			R, G, B uint8
		} `json:"rgb"`
		HSV struct {
			H uint16
			S uint8
			V uint8
		} `json:"hsv"`
		Word uint32 `json:"word"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sample))

	require.Equal(t, 18, sample.X)
	require.Equal(t, 10, sample.Y)
	require.Equal(t, "#7fff00", sample.Hex)
	require.EqualValues(t, 127, sample.RGB.R)
	require.EqualValues(t, 255, sample.RGB.G)
	require.EqualValues(t, 0, sample.RGB.B)
	require.EqualValues(t, 90, sample.HSV.H)
	require.EqualValues(t, 100, sample.HSV.S)
	require.EqualValues(t, 100, sample.HSV.V)
	require.EqualValues(t, 0x7FFF00, sample.Word)
}

func TestPreview_SampleErrors(t *testing.T) {
	srv := httptest.NewServer(newTestPreview(t).Handler())
	defer srv.Close()

	queries := []string{
		"",           // missing coordinates
		"?x=5",       // missing y
		"?x=5&y=999", // outside viewport
		"?x=-1&y=5",  // outside viewport
		"?x=zzz&y=5", // not a number
	}

	for _, query := range queries {
		resp, err := http.Get(srv.URL + "/sample" + query)
		require.NoError(t, err)

		require.Equal(t, http.StatusBadRequest, resp.StatusCode, "query %q", query)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body), "query %q", query)
		resp.Body.Close()
		require.Contains(t, body, "error", "query %q", query)
	}
}

func TestPreview_Swatch(t *testing.T) {
	srv := httptest.NewServer(newTestPreview(t).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/swatch.png?x=18&y=10")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	img, err := png.Decode(resp.Body)
	require.NoError(t, err)
	require.Equal(t, 100, img.Bounds().Dx())
	require.Equal(t, 25, img.Bounds().Dy())

	// Uniform chartreuse fill.
	r, g, b, _ := img.At(50, 12).RGBA()
	require.EqualValues(t, 127, r>>8)
	require.EqualValues(t, 255, g>>8)
	require.EqualValues(t, 0, b>>8)
}

func TestPreview_Status(t *testing.T) {
	p := newTestPreview(t)
	srv := httptest.NewServer(p.Handler())
	defer srv.Close()

	// Render once so the counter moves.
	resp, err := http.Get(srv.URL + "/palette.png")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	var status struct {
		Width         int   `json:"width"`
		Height        int   `json:"height"`
		TotalRendered int64 `json:"total_rendered"`
		TotalFailed   int64 `json:"total_failed"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))

	require.Equal(t, 72, status.Width)
	require.Equal(t, 20, status.Height)
	require.EqualValues(t, 1, status.TotalRendered)
	require.EqualValues(t, 0, status.TotalFailed)
}

func TestPNGCompressionLevel(t *testing.T) {
	for _, name := range []string{"", "default", "speed", "best", "none"} {
		_, err := PNGCompressionLevel(name)
		require.NoError(t, err, "level %q", name)
	}

	_, err := PNGCompressionLevel("fastest")
	require.Error(t, err)
}
