package influxdb

import (
	"context"
	"fmt"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// GenerationRun describes one completed (or failed) generation run.
type GenerationRun struct {
	// RunID uniquely identifies the run across restarts.
	RunID string

	// Source names the inventory backend used (remote, registry, mqtt, none).
	Source string

	// Success is false when the run aborted before writing a document.
	Success bool

	// Rooms, Views and Cards count what ended up in the document.
	Rooms int
	Views int
	Cards int

	// Duration is the wall-clock time of the whole run.
	Duration time.Duration
}

// WriteGenerationRun records a generation run as a single point in the
// generation_runs measurement.
func (c *Client) WriteGenerationRun(ctx context.Context, run GenerationRun) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}

	point := generationRunPoint(run, time.Now())
	if err := c.writeAPI.WritePoint(ctx, point); err != nil {
		return fmt.Errorf("writing generation run: %w", err)
	}
	return nil
}

// generationRunPoint builds the telemetry point for a run. Low-cardinality
// attributes go into tags, counters and timings into fields.
func generationRunPoint(run GenerationRun, ts time.Time) *write.Point {
	return write.NewPoint(
		"generation_runs",
		map[string]string{
			"source":  run.Source,
			"success": fmt.Sprintf("%t", run.Success),
		},
		map[string]interface{}{
			"run_id":      run.RunID,
			"rooms":       run.Rooms,
			"views":       run.Views,
			"cards":       run.Cards,
			"duration_ms": run.Duration.Milliseconds(),
		},
		ts,
	)
}
