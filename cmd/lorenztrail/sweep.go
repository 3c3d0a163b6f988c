package main

import (
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/san-kum/lorenztrail/internal/config"
	"github.com/san-kum/lorenztrail/internal/optim"
	"github.com/spf13/cobra"
)

var (
	sweepRho       string
	sweepSigma     string
	sweepBeta      string
	sweepSteps     int
	sweepTransient int
	sweepWorkers   int
)

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "estimate the Lyapunov exponent over a parameter grid",
		RunE:  runSweep,
	}
	cmd.Flags().StringVar(&sweepRho, "rho", "10:200:20", "rho value or lo:hi:n")
	cmd.Flags().StringVar(&sweepSigma, "sigma", "10", "sigma value or lo:hi:n")
	cmd.Flags().StringVar(&sweepBeta, "beta", "2.6667", "beta value or lo:hi:n")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().IntVar(&sweepSteps, "steps", 10000, "measured steps per point")
	cmd.Flags().IntVar(&sweepTransient, "transient", 1000, "discarded steps per point")
	cmd.Flags().IntVar(&sweepWorkers, "workers", 0, "parallel evaluations (0 = GOMAXPROCS)")
	return cmd
}

func runSweep(cmd *cobra.Command, args []string) error {
	var axes [3][]float64
	for i, s := range []string{sweepRho, sweepSigma, sweepBeta} {
		vals, err := optim.ParseRange(s)
		if err != nil {
			return err
		}
		axes[i] = vals
	}

	step := cfg.Dt
	if cmd.Flags().Changed("dt") {
		step = dt
	}
	x0 := config.DefaultInitial
	if len(cfg.InitialConditions) > 0 {
		x0 = cfg.InitialConditions[0]
	}

	grid := optim.NewGridSearch(axes[0], axes[1], axes[2])
	if sweepWorkers > 0 {
		grid.WithWorkers(sweepWorkers)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	start := time.Now()
	results, err := grid.Search(ctx, optim.Lyapunov(x0, step, sweepTransient, sweepSteps))
	if err != nil {
		return err
	}
	logger.Info().Int("points", len(results)).Dur("elapsed", time.Since(start)).Msg("sweep done")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RHO\tSIGMA\tBETA\tLAMBDA\tREGIME")
	for _, r := range results {
		regime := "stable"
		if r.Value > 0 {
			regime = "chaotic"
		}
		fmt.Fprintf(w, "%.3f\t%.3f\t%.4f\t%+.4f\t%s\n", r.Params.Rho, r.Params.Sigma, r.Params.Beta, r.Value, regime)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if best, ok := optim.Best(results); ok {
		fmt.Printf("\nmost chaotic: rho %.3f sigma %.3f beta %.4f (lambda %.4f)\n",
			best.Params.Rho, best.Params.Sigma, best.Params.Beta, best.Value)
	}
	return nil
}
