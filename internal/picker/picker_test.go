package picker

import (
	"testing"

	"github.com/MeKo-Tech/huepick/internal/palette"
)

func TestStatusLine(t *testing.T) {
	cfg := palette.Config{Width: 720, Height: 200}

	s, err := cfg.SampleAt(180, 100)
	if err != nil {
		t.Fatalf("SampleAt: %v", err)
	}

	want := "[ x: 180, y: 100 ]  r: 127, g: 255, b: 0"
	if got := StatusLine(s); got != want {
		t.Errorf("StatusLine() = %q, want %q", got, want)
	}
}
