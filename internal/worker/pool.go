// Package worker provides a parallel row-band rendering worker pool.
package worker

import (
	"context"
	"sync"
	"time"
)

// Band is a half-open range of image rows [Y0, Y1).
type Band struct {
	Y0, Y1 int
}

// Rows returns the number of rows in the band.
func (b Band) Rows() int {
	return b.Y1 - b.Y0
}

// Renderer is the interface for band rendering.
// This matches the signature of the palette band renderer.
type Renderer interface {
	RenderBand(ctx context.Context, band Band) error
}

// Result represents the outcome of a band rendering task.
type Result struct {
	Band    Band
	Err     error
	Elapsed time.Duration
}

// ProgressFunc is called after each band completes.
type ProgressFunc func(completed, total, failed int)

// Config configures the worker pool.
type Config struct {
	Workers    int
	Renderer   Renderer
	OnProgress ProgressFunc
}

// Pool manages parallel band rendering.
type Pool struct {
	workers    int
	renderer   Renderer
	onProgress ProgressFunc
}

// New creates a new worker pool.
func New(cfg Config) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	return &Pool{
		workers:    workers,
		renderer:   cfg.Renderer,
		onProgress: cfg.OnProgress,
	}
}

// Bands splits height rows into bands of at most rows each.
func Bands(height, rows int) []Band {
	if rows <= 0 {
		rows = 1
	}

	bands := make([]Band, 0, (height+rows-1)/rows)
	for y := 0; y < height; y += rows {
		y1 := y + rows
		if y1 > height {
			y1 = height
		}
		bands = append(bands, Band{Y0: y, Y1: y1})
	}
	return bands
}

// Run executes all bands and returns results.
// Bands are processed in parallel by the configured number of workers.
// The function blocks until all bands complete or the context is cancelled.
func (p *Pool) Run(ctx context.Context, bands []Band) []Result {
	if len(bands) == 0 {
		return nil
	}

	bandCh := make(chan Band, len(bands))
	resultCh := make(chan Result, len(bands))

	// Track progress
	var (
		completed int
		failed    int
		mu        sync.Mutex
	)

	// Start workers
	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.worker(ctx, bandCh, resultCh)
		}()
	}

	// Feed bands
	go func() {
		for _, band := range bands {
			select {
			case bandCh <- band:
			case <-ctx.Done():
				// Context cancelled, stop feeding
				break
			}
		}
		close(bandCh)
	}()

	// Collect results in a separate goroutine
	results := make([]Result, 0, len(bands))
	done := make(chan struct{})

	go func() {
		for result := range resultCh {
			results = append(results, result)

			// Update progress
			mu.Lock()
			completed++
			if result.Err != nil {
				failed++
			}
			c, f := completed, failed
			mu.Unlock()

			if p.onProgress != nil {
				p.onProgress(c, len(bands), f)
			}
		}
		close(done)
	}()

	// Wait for workers to finish
	wg.Wait()
	close(resultCh)

	// Wait for result collection to finish
	<-done

	return results
}

// worker processes bands from the band channel and sends results to the result channel.
func (p *Pool) worker(ctx context.Context, bands <-chan Band, results chan<- Result) {
	for band := range bands {
		select {
		case <-ctx.Done():
			// Send cancellation result
			results <- Result{
				Band: band,
				Err:  ctx.Err(),
			}
			continue
		default:
		}

		start := time.Now()
		err := p.renderer.RenderBand(ctx, band)
		elapsed := time.Since(start)

		results <- Result{
			Band:    band,
			Err:     err,
			Elapsed: elapsed,
		}
	}
}
