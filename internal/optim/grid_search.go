package optim

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/lorenztrail/internal/analysis"
	"github.com/san-kum/lorenztrail/internal/dynamo"
	"golang.org/x/sync/errgroup"
)

// Result is the metric measured at one grid point.
type Result struct {
	Params dynamo.Params
	Value  float64
}

// Evaluator measures one parameter triple.
type Evaluator func(ctx context.Context, p dynamo.Params) (float64, error)

// GridSearch walks the cartesian product of rho, sigma and beta values.
type GridSearch struct {
	ranges  [3][]float64
	workers int
}

func NewGridSearch(rho, sigma, beta []float64) *GridSearch {
	return &GridSearch{
		ranges:  [3][]float64{rho, sigma, beta},
		workers: runtime.GOMAXPROCS(0),
	}
}

// WithWorkers bounds how many evaluations run at once.
func (g *GridSearch) WithWorkers(n int) *GridSearch {
	g.workers = max(n, 1)
	return g
}

// Points lists the grid with rho varying slowest.
func (g *GridSearch) Points() []dynamo.Params {
	var out []dynamo.Params
	g.collect(0, [3]float64{}, &out)
	return out
}

func (g *GridSearch) collect(depth int, current [3]float64, out *[]dynamo.Params) {
	if depth == len(g.ranges) {
		*out = append(*out, dynamo.Params{Rho: current[0], Sigma: current[1], Beta: current[2]})
		return
	}
	for _, v := range g.ranges[depth] {
		current[depth] = v
		g.collect(depth+1, current, out)
	}
}

// Search evaluates every grid point concurrently. Results keep the order
// of Points. The first evaluation error cancels the rest.
func (g *GridSearch) Search(ctx context.Context, eval Evaluator) ([]Result, error) {
	points := g.Points()
	results := make([]Result, len(points))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for i, p := range points {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := eval(ctx, p)
			if err != nil {
				return fmt.Errorf("rho=%g sigma=%g beta=%g: %w", p.Rho, p.Sigma, p.Beta, err)
			}
			results[i] = Result{Params: p, Value: v}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Best returns the result with the largest value.
func Best(results []Result) (Result, bool) {
	if len(results) == 0 {
		return Result{}, false
	}
	sorted := append([]Result(nil), results...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Value > sorted[j].Value })
	return sorted[0], true
}

// Lyapunov estimates the largest Lyapunov exponent from x0 with the
// two-particle method.
func Lyapunov(x0 dynamo.Vec3, dt float64, transient, steps int) Evaluator {
	return func(ctx context.Context, p dynamo.Params) (float64, error) {
		sim, err := dynamo.NewWithParams(p, []dynamo.Vec3{x0}, 1, dt)
		if err != nil {
			return 0, err
		}
		return analysis.LyapunovExponent(sim, x0, transient, steps, 1e-8), nil
	}
}

// ParseRange reads "v" or "lo:hi:n" into evenly spaced values.
func ParseRange(s string) ([]float64, error) {
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 1:
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("bad value %q: %w", s, err)
		}
		return []float64{v}, nil
	case 3:
		lo, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		hi, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		n, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err1 != nil || err2 != nil || err3 != nil || n < 1 {
			return nil, fmt.Errorf("bad range %q: want lo:hi:n", s)
		}
		return Linspace(lo, hi, n), nil
	default:
		return nil, fmt.Errorf("bad range %q: want v or lo:hi:n", s)
	}
}

// Linspace returns n values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}
