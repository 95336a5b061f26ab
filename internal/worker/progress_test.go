package worker

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestProgress_Update(t *testing.T) {
	p := NewProgress(10, false)

	p.Update(5, 10, 0)

	if p.completed != 5 {
		t.Errorf("Expected completed=5, got %d", p.completed)
	}
	if p.total != 10 {
		t.Errorf("Expected total=10, got %d", p.total)
	}
}

func TestProgress_Print(t *testing.T) {
	var buf bytes.Buffer

	p := NewProgress(10, true)
	p.output = &buf
	p.startTime = time.Now().Add(-10 * time.Second) // Simulate 10 seconds elapsed

	p.Update(5, 10, 1)

	output := buf.String()

	// Should contain progress bar
	if !strings.Contains(output, "█") {
		t.Error("Expected progress bar in output")
	}

	// Should show completed/total
	if !strings.Contains(output, "5/10 bands") {
		t.Errorf("Expected '5/10 bands' in output, got: %s", output)
	}

	// Should show failed count
	if !strings.Contains(output, "(1 failed)") {
		t.Errorf("Expected '(1 failed)' in output, got: %s", output)
	}

	// Should show rate
	if !strings.Contains(output, "bands/sec") {
		t.Errorf("Expected 'bands/sec' in output, got: %s", output)
	}
}

func TestProgress_Done(t *testing.T) {
	var buf bytes.Buffer

	p := NewProgress(4, true)
	p.output = &buf
	p.Update(4, 4, 0)
	p.Done()

	output := buf.String()
	if !strings.Contains(output, "Done in") {
		t.Errorf("Expected completion message, got: %s", output)
	}
	if !strings.HasSuffix(output, "\n") {
		t.Error("Expected trailing newline after Done")
	}
}

func TestProgress_Summary(t *testing.T) {
	p := NewProgress(8, false)
	p.Update(8, 8, 2)

	summary := p.Summary()
	if !strings.Contains(summary, "6/8 bands") {
		t.Errorf("Expected '6/8 bands' in summary, got: %s", summary)
	}
	if !strings.Contains(summary, "(2 failed)") {
		t.Errorf("Expected '(2 failed)' in summary, got: %s", summary)
	}
}
