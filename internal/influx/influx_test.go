package influx

import (
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/san-kum/lorenztrail/internal/dynamo"
	"github.com/san-kum/lorenztrail/internal/storage"
)

func testRun() (storage.RunMetadata, [][]dynamo.Vec3) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	meta := storage.RunMetadata{
		ID:           "Lorenz_1",
		ParameterSet: "Lorenz",
		Params:       dynamo.Params{Rho: 28, Sigma: 10, Beta: 8.0 / 3},
		Timestamp:    ts,
		Dt:           0.5,
		MaxPoints:    4,
		Steps:        10,
	}
	buffers := [][]dynamo.Vec3{
		{{X: 0}, {X: 1}, {X: 2}, {X: 3}},
		{{Y: 1}, {Y: math.NaN()}, {Y: 2}, {Y: 3}},
	}
	return meta, buffers
}

func TestRunPoints(t *testing.T) {
	meta, buffers := testRun()
	points := RunPoints(meta, buffers, 1)

	// one summary + 4 + 3 finite samples
	if len(points) != 8 {
		t.Fatalf("expected 8 points, got %d", len(points))
	}

	summary := points[0]
	if summary.Name() != runMeasurement || !summary.Time().Equal(meta.Timestamp) {
		t.Errorf("unexpected summary %s at %v", summary.Name(), summary.Time())
	}
	fields := map[string]any{}
	for _, f := range summary.FieldList() {
		fields[f.Key] = f.Value
	}
	if fields["extent_x"] != 3.0 || fields["extent_y"] != 3.0 {
		t.Errorf("unexpected extents %v", fields)
	}

	first := points[1]
	if first.Name() != pointMeasurement {
		t.Errorf("expected point measurement, got %s", first.Name())
	}
	if want := meta.Timestamp.Add(-1500 * time.Millisecond); !first.Time().Equal(want) {
		t.Errorf("oldest sample should be 3 steps back, got %v", first.Time())
	}
	last := points[4]
	if !last.Time().Equal(meta.Timestamp) {
		t.Errorf("newest sample should sit at run time, got %v", last.Time())
	}
}

func TestRunPointsStride(t *testing.T) {
	meta, buffers := testRun()
	if n := len(RunPoints(meta, buffers[:1], 2)); n != 3 {
		t.Errorf("expected summary + 2 strided samples, got %d", n)
	}
	if n := len(RunPoints(meta, buffers[:1], 0)); n != 5 {
		t.Errorf("stride below 1 should sample every point, got %d", n)
	}
}

func TestNewPublisherRequiresTarget(t *testing.T) {
	if _, err := NewPublisher(Config{}, zerolog.Nop()); err == nil {
		t.Error("expected error without url")
	}
	if _, err := NewPublisher(Config{URL: "http://localhost:8086"}, zerolog.Nop()); err == nil {
		t.Error("expected error without bucket")
	}
	p, err := NewPublisher(Config{URL: "http://localhost:8086", Bucket: "lorenz"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.Close()
}
