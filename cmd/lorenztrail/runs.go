package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/lorenztrail/internal/analysis"
	"github.com/san-kum/lorenztrail/internal/config"
	"github.com/san-kum/lorenztrail/internal/dynamo"
	"github.com/san-kum/lorenztrail/internal/export"
	"github.com/san-kum/lorenztrail/internal/storage"
	"github.com/san-kum/lorenztrail/internal/viz"
	"github.com/spf13/cobra"
)

var (
	listSet    string
	trajectory int
	svgOut     string
	svgWidth   int
	svgHeight  int
	svgRotX    float64
	svgRotY    float64
	svgBraille bool
	svgScale   float64
	lyapSteps  int
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}
	cmd.Flags().StringVar(&listSet, "set", "", "only runs of this parameter set")
	return cmd
}

func listRuns(cmd *cobra.Command, args []string) error {
	cat, err := storage.OpenCatalog(cfg.CatalogDSN, cfg.DataDir)
	if err != nil {
		logger.Warn().Err(err).Msg("run catalog unavailable, scanning data directory")
		return listFromStore()
	}
	defer cat.Close()

	runs, err := cat.Query(listSet)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		return listFromStore()
	}
	if onDisk, err := storage.New(cfg.DataDir).List(); err == nil && len(onDisk) > len(runs) && listSet == "" {
		logger.Warn().Int("catalog", len(runs)).Int("disk", len(onDisk)).Msg("catalog is missing runs, use reindex")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSET\tTIME\tSTEPS\tDT\tRHO\tTRAJ\tNONFINITE")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4f\t%.2f\t%d\t%d\n",
			run.ID,
			run.ParameterSet,
			run.CreatedAt.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Dt,
			run.Rho,
			run.Trajectories,
			run.NonFinite,
		)
	}
	return w.Flush()
}

func listFromStore() error {
	runs, err := storage.New(cfg.DataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSET\tTIME\tSTEPS\tDT")
	for _, run := range runs {
		if listSet != "" && run.ParameterSet != listSet {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4f\n",
			run.ID,
			run.ParameterSet,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Dt,
		)
	}
	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, [][]dynamo.Vec3, error) {
	st := storage.New(cfg.DataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	buffers, err := st.LoadBuffers(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, buffers, nil
}

func newPlotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot x, y and z of one trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	cmd.Flags().IntVar(&trajectory, "trajectory", 0, "trajectory index")
	return cmd
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, buffers, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if trajectory < 0 || trajectory >= len(buffers) {
		return fmt.Errorf("trajectory %d out of range (run has %d)", trajectory, len(buffers))
	}

	buf := buffers[trajectory]
	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("set: %s (rho %.2f, sigma %.2f, beta %.3f)\n", meta.ParameterSet, meta.Params.Rho, meta.Params.Sigma, meta.Params.Beta)
	fmt.Printf("samples: %d\n\n", len(buf))

	for axis, name := range []string{"x", "y", "z"} {
		data := finite(analysis.Component(buf, axis))
		if len(data) == 0 {
			fmt.Printf("%s: no finite samples\n\n", name)
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+" vs step"),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func finite(data []float64) []float64 {
	out := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

func newExportCSVCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run buffers to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, buffers, err := loadRun(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	w.Write([]string{"trajectory", "index", "x", "y", "z"})
	for ti, buf := range buffers {
		for i, p := range buf {
			w.Write([]string{
				strconv.Itoa(ti),
				strconv.Itoa(i),
				strconv.FormatFloat(p.X, 'g', -1, 64),
				strconv.FormatFloat(p.Y, 'g', -1, 64),
				strconv.FormatFloat(p.Z, 'g', -1, 64),
			})
		}
	}
	w.Flush()
	return w.Error()
}

func newExportJSONCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and buffers to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(cfg.DataDir).ExportJSON(os.Stdout, args[0])
		},
	}
}

func newExportSVGCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render run trails to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	cmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (default stdout)")
	cmd.Flags().IntVar(&svgWidth, "width", 1280, "image width")
	cmd.Flags().IntVar(&svgHeight, "height", 720, "image height")
	cmd.Flags().Float64Var(&svgRotX, "rot-x", 0, "camera pitch (radians)")
	cmd.Flags().Float64Var(&svgRotY, "rot-y", 0, "camera yaw (radians)")
	cmd.Flags().BoolVar(&svgBraille, "braille", false, "render the terminal braille view as dots")
	cmd.Flags().Float64Var(&svgScale, "scale", 4, "pixels per braille dot")
	cmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme")
	return cmd
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, buffers, err := loadRun(args[0])
	if err != nil {
		return err
	}

	themeName := cfg.Theme
	if cmd.Flags().Changed("theme") {
		themeName = theme
	}
	cam := viz.NewCamera()
	cam.AutoRotate = false
	cam.RotX, cam.RotY = svgRotX, svgRotY

	var svg string
	if svgBraille {
		if svgScale <= 0 {
			return fmt.Errorf("scale must be positive, got %g", svgScale)
		}
		svg = export.BrailleToSVG(buffers, cam, svgWidth, svgHeight, svgScale, viz.GetTheme(themeName))
	} else {
		svg = export.TrajectoriesToSVG(buffers, cam, svgWidth, svgHeight, viz.GetTheme(themeName))
	}
	if svgOut == "" {
		_, err := fmt.Println(svg)
		return err
	}
	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}
	logger.Info().Str("file", svgOut).Int("trajectories", len(buffers)).Msg("wrote svg")
	return nil
}

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "bounds, dominant frequency and Lyapunov estimate",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	cmd.Flags().IntVar(&lyapSteps, "lyapunov-steps", 20000, "steps for the Lyapunov estimate (0 to skip)")
	return cmd
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, buffers, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("set: %s  steps: %d  t: %.2f\n\n", meta.ParameterSet, meta.Steps, meta.SimulatedTime())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRAJ\tFINITE\tNONFINITE\tX RANGE\tY RANGE\tZ RANGE\tZ FREQ")
	for i, buf := range buffers {
		box := analysis.Bounds(buf)
		freq := analysis.DominantFrequency(finite(analysis.Component(buf, 2)), meta.Dt)
		fmt.Fprintf(w, "%d\t%d\t%d\t[%.2f, %.2f]\t[%.2f, %.2f]\t[%.2f, %.2f]\t%.4f\n",
			i, box.Finite, box.NonFinite,
			box.Min.X, box.Max.X,
			box.Min.Y, box.Max.Y,
			box.Min.Z, box.Max.Z,
			freq,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(buffers) > 1 {
		sep := analysis.Separation(buffers[0], buffers[1])
		if len(sep) > 0 {
			fmt.Printf("\nseparation 0-1: first %.3g, last %.3g\n", sep[0], sep[len(sep)-1])
		}
	}

	if lyapSteps > 0 && len(meta.InitialConditions) > 0 {
		sim, err := dynamo.NewWithParams(meta.Params, meta.InitialConditions[:1], 1, meta.Dt)
		if err != nil {
			return err
		}
		lambda := analysis.LyapunovExponent(sim, meta.InitialConditions[0], 1000, lyapSteps, 1e-8)
		fmt.Printf("largest lyapunov exponent: %.4f\n", lambda)
	}
	return nil
}

func newPublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish [run_id]",
		Short: "publish a saved run to InfluxDB",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, buffers, err := loadRun(args[0])
			if err != nil {
				return err
			}
			n, err := publishRun(cmd.Context(), cfg.Influx, *meta, buffers)
			if err != nil {
				return err
			}
			fmt.Printf("published %d points to %s/%s\n", n, cfg.Influx.URL, cfg.Influx.Bucket)
			return nil
		},
	}
	cmd.Flags().IntVar(&stride, "stride", 10, "publish every n-th buffer point")
	return cmd
}

func newReindexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "rebuild the run catalog from the data directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := storage.OpenCatalog(cfg.CatalogDSN, cfg.DataDir)
			if err != nil {
				return err
			}
			defer cat.Close()

			n, err := cat.Reindex(storage.New(cfg.DataDir))
			if err != nil {
				return err
			}
			logger.Info().Str("dialect", cat.Dialect()).Int("runs", n).Msg("catalog rebuilt")
			return nil
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [run_id...]",
		Short: "delete saved runs and their catalog entries",
		Args:  cobra.MinimumNArgs(1),
		RunE:  deleteRuns,
	}
}

func deleteRuns(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	for _, runID := range args {
		if err := st.Delete(runID); err != nil {
			return fmt.Errorf("deleting run %s: %w", runID, err)
		}
		logger.Info().Str("run", runID).Msg("deleted run")
	}
	return nil
}

func newSetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sets",
		Short: "list parameter sets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SET\tRHO\tSIGMA\tBETA")
			for _, name := range dynamo.ParameterSetNames() {
				p, _ := dynamo.LookupParams(name)
				fmt.Fprintf(w, "%s\t%g\t%g\t%.4f\n", name, p.Rho, p.Sigma, p.Beta)
			}
			return w.Flush()
		},
	}
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PRESET\tSET\tDT\tPOINTS\tPARTICLES")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%g\t%d\t%d\n", name, p.ParameterSet, p.Dt, p.MaxPoints, len(p.InitialConditions))
			}
			return w.Flush()
		},
	}
}

func newInitConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the effective config to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
}
