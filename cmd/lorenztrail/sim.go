package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/san-kum/lorenztrail/internal/config"
	"github.com/san-kum/lorenztrail/internal/dynamo"
	"github.com/san-kum/lorenztrail/internal/gui"
	"github.com/san-kum/lorenztrail/internal/influx"
	"github.com/san-kum/lorenztrail/internal/storage"
	"github.com/san-kum/lorenztrail/internal/telemetry"
	"github.com/san-kum/lorenztrail/internal/viz"
	"github.com/spf13/cobra"
)

var (
	steps   int
	publish bool
	stride  int
)

func parseInterval(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("bad --interval %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("bad --interval %q: must not be negative", s)
	}
	return d, nil
}

func newLiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "live [parameter_set]",
		Short: "run simulation with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSimFlags(cmd)
	return cmd
}

func runLive(cmd *cobra.Command, args []string) error {
	c, err := simConfig(cmd, args)
	if err != nil {
		return err
	}
	ticker, err := c.NewTicker()
	if err != nil {
		return err
	}
	rec, err := telemetry.NewRecorder(ticker)
	if err != nil {
		return err
	}
	return viz.Run(ticker, viz.Options{FPS: c.FPS, Theme: c.Theme, OnTick: rec.Observe})
}

func newGUICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gui [parameter_set]",
		Short: "run simulation in a 3D window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}
	addSimFlags(cmd)
	return cmd
}

func runGUI(cmd *cobra.Command, args []string) error {
	c, err := simConfig(cmd, args)
	if err != nil {
		return err
	}
	ticker, err := c.NewTicker()
	if err != nil {
		return err
	}
	rec, err := telemetry.NewRecorder(ticker)
	if err != nil {
		return err
	}

	logger.Info().
		Str("backend", gui.Backend).
		Str("set", ticker.Simulator().ParameterSet()).
		Int("trajectories", ticker.Simulator().NumTrajectories()).
		Msg("opening window")

	scene := gui.NewScene(ticker, gui.Options{Theme: c.Theme, FPS: c.FPS, OnTick: rec.Observe})
	return gui.Run(scene)
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [parameter_set]",
		Short: "run simulation headless and save the buffers",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addSimFlags(cmd)
	cmd.Flags().IntVar(&steps, "steps", 10000, "advances to perform")
	cmd.Flags().BoolVar(&publish, "publish", false, "publish the run to InfluxDB")
	cmd.Flags().IntVar(&stride, "stride", 10, "publish every n-th buffer point")
	return cmd
}

// runSimulation drives the ticker with a virtual clock so every tick
// advances. Steps round up to a whole number of ticks.
func runSimulation(cmd *cobra.Command, args []string) error {
	c, err := simConfig(cmd, args)
	if err != nil {
		return err
	}
	if steps <= 0 {
		return fmt.Errorf("--steps must be positive, got %d", steps)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker, err := c.NewTicker()
	if err != nil {
		return err
	}
	sim := ticker.Simulator()

	local := telemetry.NewLocal()
	defer local.Shutdown(context.Background())
	rec, err := telemetry.NewRecorderWithMeter(ticker, local.Provider.Meter("lorenztrail"))
	if err != nil {
		return err
	}

	logger.Info().
		Str("set", sim.ParameterSet()).
		Int("trajectories", sim.NumTrajectories()).
		Int("steps", steps).
		Float64("dt", sim.Dt()).
		Msg("running simulation")

	start := time.Now()
	clock := start
	for sim.Steps() < steps {
		if ctx.Err() != nil {
			logger.Warn().Int("steps", sim.Steps()).Msg("interrupted, saving partial run")
			break
		}
		rec.Tick(ctx, clock)
		clock = clock.Add(ticker.Interval() + time.Nanosecond)
	}
	elapsed := time.Since(start)

	st, closeStore, err := openStore(c)
	if err != nil {
		return err
	}
	defer closeStore()

	runID, err := saveRun(st, sim)
	if err != nil {
		return err
	}

	totals, err := local.Totals(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d (t = %.2f)\n", sim.Steps(), sim.Time())
	fmt.Printf("trajectories: %d\n", sim.NumTrajectories())
	fmt.Printf("non-finite: %d\n", totals["sim.nonfinite"])
	for i := 0; i < sim.NumTrajectories(); i++ {
		fmt.Printf("  head %d: %s\n", i, sim.Head(i))
	}

	if publish {
		meta, err := st.Load(runID)
		if err != nil {
			return err
		}
		n, err := publishRun(ctx, c.Influx, *meta, snapshot(sim))
		if err != nil {
			return err
		}
		fmt.Printf("published %d points\n", n)
	}
	return nil
}

func snapshot(sim *dynamo.Simulator) [][]dynamo.Vec3 {
	out := make([][]dynamo.Vec3, sim.NumTrajectories())
	for i := range out {
		out[i] = sim.Buffer(i)
	}
	return out
}

// openStore returns the run store, indexed in the catalog when it can be
// opened. The catalog is optional: failures are logged and skipped.
func openStore(c *config.Config) (*storage.Store, func(), error) {
	st := storage.New(c.DataDir)
	if err := st.Init(); err != nil {
		return nil, nil, err
	}
	cat, err := storage.OpenCatalog(c.CatalogDSN, c.DataDir)
	if err != nil {
		logger.Warn().Err(err).Msg("run catalog unavailable")
		return st, func() {}, nil
	}
	return st.WithCatalog(cat), func() { cat.Close() }, nil
}

// saveRun writes sim to st. A run that reached disk but not the catalog
// is still reported as saved.
func saveRun(st *storage.Store, sim *dynamo.Simulator) (string, error) {
	runID, err := st.Save(sim)
	if errors.Is(err, storage.ErrNotIndexed) && runID != "" {
		logger.Warn().Err(err).Str("run", runID).Msg("run saved but not indexed, use reindex")
		return runID, nil
	}
	return runID, err
}

func publishRun(ctx context.Context, ic influx.Config, meta storage.RunMetadata, buffers [][]dynamo.Vec3) (int, error) {
	pub, err := influx.NewPublisher(ic, logger)
	if err != nil {
		return 0, err
	}
	defer pub.Close()

	if err := pub.Ping(ctx); err != nil {
		return 0, err
	}
	return pub.Publish(ctx, meta, buffers, stride)
}
