package optim

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/san-kum/lorenztrail/internal/dynamo"
)

func TestPointsOrder(t *testing.T) {
	g := NewGridSearch([]float64{1, 2}, []float64{10}, []float64{3, 4})
	pts := g.Points()
	want := []dynamo.Params{
		{Rho: 1, Sigma: 10, Beta: 3},
		{Rho: 1, Sigma: 10, Beta: 4},
		{Rho: 2, Sigma: 10, Beta: 3},
		{Rho: 2, Sigma: 10, Beta: 4},
	}
	if len(pts) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(pts))
	}
	for i := range want {
		if pts[i] != want[i] {
			t.Errorf("point %d: got %+v, want %+v", i, pts[i], want[i])
		}
	}
}

func TestSearchKeepsOrder(t *testing.T) {
	g := NewGridSearch([]float64{1, 2, 3, 4, 5}, []float64{1}, []float64{1}).WithWorkers(3)
	var calls atomic.Int32
	results, err := g.Search(context.Background(), func(ctx context.Context, p dynamo.Params) (float64, error) {
		calls.Add(1)
		return p.Rho * 2, nil
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if calls.Load() != 5 {
		t.Errorf("expected 5 evaluations, got %d", calls.Load())
	}
	for i, r := range results {
		if r.Value != float64(i+1)*2 {
			t.Errorf("result %d out of order: %+v", i, r)
		}
	}
	best, ok := Best(results)
	if !ok || best.Params.Rho != 5 {
		t.Errorf("expected rho 5 as best, got %+v", best)
	}
}

func TestSearchError(t *testing.T) {
	boom := errors.New("boom")
	g := NewGridSearch([]float64{1, 2}, []float64{1}, []float64{1})
	_, err := g.Search(context.Background(), func(ctx context.Context, p dynamo.Params) (float64, error) {
		if p.Rho == 2 {
			return 0, boom
		}
		return 0, nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func TestLyapunovSeparatesRegimes(t *testing.T) {
	eval := Lyapunov(dynamo.Vec3{X: 1, Y: 1, Z: 1}, 0.01, 1000, 10000)
	stable, err := eval(context.Background(), dynamo.ParameterSets["Stable"])
	if err != nil {
		t.Fatal(err)
	}
	chaotic, err := eval(context.Background(), dynamo.ParameterSets["Lorenz"])
	if err != nil {
		t.Fatal(err)
	}
	if stable >= 0 || chaotic <= 0 {
		t.Errorf("expected negative exponent for Stable and positive for Lorenz, got %f and %f", stable, chaotic)
	}

	if _, err := eval(context.Background(), dynamo.Params{Rho: 28, Sigma: 10, Beta: 8.0 / 3}); err != nil {
		t.Errorf("explicit params: %v", err)
	}
}

func TestParseRange(t *testing.T) {
	vals, err := ParseRange("10:30:3")
	if err != nil || len(vals) != 3 || vals[0] != 10 || vals[1] != 20 || vals[2] != 30 {
		t.Errorf("unexpected range %v, %v", vals, err)
	}
	if vals, err := ParseRange("28"); err != nil || len(vals) != 1 || vals[0] != 28 {
		t.Errorf("unexpected single value %v, %v", vals, err)
	}
	for _, bad := range []string{"", "a", "1:2", "1:2:0", "1:x:3"} {
		if _, err := ParseRange(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
