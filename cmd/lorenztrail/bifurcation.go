package main

import (
	"fmt"
	"math"

	"github.com/san-kum/lorenztrail/internal/analysis"
	"github.com/san-kum/lorenztrail/internal/config"
	"github.com/san-kum/lorenztrail/internal/dynamo"
	"github.com/san-kum/lorenztrail/internal/viz"
	"github.com/spf13/cobra"
)

var (
	bifRhoMin    float64
	bifRhoMax    float64
	bifColumns   int
	bifRows      int
	bifTransient int
	bifRecord    int
)

func newBifurcationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bifurcation",
		Short: "plot z maxima against rho",
		RunE:  runBifurcation,
	}
	cmd.Flags().Float64Var(&bifRhoMin, "rho-min", 10, "first rho")
	cmd.Flags().Float64Var(&bifRhoMax, "rho-max", 200, "last rho")
	cmd.Flags().IntVar(&bifColumns, "width", 80, "plot width in cells")
	cmd.Flags().IntVar(&bifRows, "height", 24, "plot height in cells")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().IntVar(&bifTransient, "transient", 20000, "discarded steps per rho")
	cmd.Flags().IntVar(&bifRecord, "record", 5000, "recorded steps per rho")
	return cmd
}

func runBifurcation(cmd *cobra.Command, args []string) error {
	step := cfg.Dt
	if cmd.Flags().Changed("dt") {
		step = dt
	}
	base, err := dynamo.LookupParams(dynamo.DefaultParameterSet)
	if err != nil {
		return err
	}
	if cfg.Params != nil {
		base = *cfg.Params
	}

	canvas := viz.NewCanvas(bifColumns, bifRows)
	points, err := analysis.BifurcationDiagram(base, bifRhoMin, bifRhoMax, canvas.SubWidth(),
		config.DefaultInitial, step, bifTransient, bifRecord)
	if err != nil {
		return err
	}

	lo, hi := plotBifurcation(canvas, points)
	fmt.Printf("z max %.1f (top) to %.1f (bottom)\n", hi, lo)
	fmt.Print(canvas.String())
	fmt.Printf("rho %.1f..%.1f (sigma %g, beta %.4f)\n", bifRhoMin, bifRhoMax, base.Sigma, base.Beta)
	return nil
}

// plotBifurcation draws one column of dots per rho and returns the z range
// the rows span.
func plotBifurcation(c *viz.Canvas, points []analysis.BifurcationPoint) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		for _, v := range p.Values {
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 0) {
		return 0, 0
	}
	if hi == lo {
		hi = lo + 1
	}

	w, h := c.SubWidth(), c.SubHeight()
	for i, p := range points {
		x := i * w / len(points)
		for _, v := range p.Values {
			y := h - 1 - int((v-lo)/(hi-lo)*float64(h-1))
			c.Set(x, y)
		}
	}
	return lo, hi
}
