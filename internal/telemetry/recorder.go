package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/lorenztrail/internal/dynamo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/san-kum/lorenztrail/internal/telemetry"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Recorder counts what a Ticker does each frame: advances, skipped ticks,
// and trajectories whose head has left the finite range.
type Recorder struct {
	ticker *dynamo.Ticker
	attrs  metric.MeasurementOption

	advances  metric.Int64Counter
	skipped   metric.Int64Counter
	nonFinite metric.Int64Counter
	steps     metric.Int64ObservableGauge

	diverged []bool
}

// NewRecorder uses the global OTel meter (no-op if not configured).
func NewRecorder(ticker *dynamo.Ticker) (*Recorder, error) {
	return NewRecorderWithMeter(ticker, meter())
}

func NewRecorderWithMeter(ticker *dynamo.Ticker, m metric.Meter) (*Recorder, error) {
	sim := ticker.Simulator()
	r := &Recorder{
		ticker:   ticker,
		attrs:    metric.WithAttributes(attribute.String("parameter_set", sim.ParameterSet())),
		diverged: make([]bool, sim.NumTrajectories()),
	}

	var err error
	r.advances, err = m.Int64Counter(
		"sim.advances",
		metric.WithDescription("Simulator advances performed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating advances counter: %w", err)
	}

	r.skipped, err = m.Int64Counter(
		"sim.ticks.skipped",
		metric.WithDescription("Ticks that arrived inside the animate interval"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating skipped counter: %w", err)
	}

	r.nonFinite, err = m.Int64Counter(
		"sim.nonfinite",
		metric.WithDescription("Trajectories whose leading point became NaN or infinite"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating nonfinite counter: %w", err)
	}

	r.steps, err = m.Int64ObservableGauge(
		"sim.steps",
		metric.WithDescription("Advances since construction or reset"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating steps gauge: %w", err)
	}

	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			o.ObserveInt64(r.steps, int64(sim.Steps()), r.attrs)
			return nil
		},
		r.steps,
	)
	if err != nil {
		return nil, fmt.Errorf("registering steps callback: %w", err)
	}

	return r, nil
}

// Tick forwards to the ticker and records the outcome.
func (r *Recorder) Tick(ctx context.Context, now time.Time) bool {
	advanced := r.ticker.Tick(now)
	r.record(ctx, advanced)
	return advanced
}

// Observe records a tick performed elsewhere. Its signature matches the
// OnTick hooks of the live views.
func (r *Recorder) Observe(advanced bool) {
	r.record(context.Background(), advanced)
}

func (r *Recorder) record(ctx context.Context, advanced bool) {
	if !advanced {
		r.skipped.Add(ctx, 1, r.attrs)
		return
	}
	r.advances.Add(ctx, int64(r.ticker.Repeats()), r.attrs)

	sim := r.ticker.Simulator()
	for i := range r.diverged {
		finite := sim.Head(i).IsFinite()
		if !finite && !r.diverged[i] {
			r.nonFinite.Add(ctx, 1, r.attrs)
		}
		r.diverged[i] = !finite
	}
}
