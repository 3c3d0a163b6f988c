package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/san-kum/lorenztrail/internal/config"
	"github.com/san-kum/lorenztrail/internal/dynamo"
	"github.com/san-kum/lorenztrail/internal/logging"
	"github.com/san-kum/lorenztrail/internal/viz"
	"github.com/spf13/cobra"
)

var (
	// Persistent flags
	configFile string
	dataDir    string
	logLevel   string

	// Simulation flags
	parameterSet string
	preset       string
	dt           float64
	maxPoints    int
	repeats      int
	interval     string
	frameRate    int
	theme        string

	cfg       *config.Config
	logger    = zerolog.Nop()
	logCloser io.Closer
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "lorenztrail",
		Short:             "lorenz attractor trails in the terminal",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logCloser != nil {
				logCloser.Close()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(cfg, viz.Options{FPS: cfg.FPS, Theme: cfg.Theme})
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(
		newLiveCmd(),
		newGUICmd(),
		newRunCmd(),
		newListCmd(),
		newPlotCmd(),
		newExportCSVCmd(),
		newExportJSONCmd(),
		newExportSVGCmd(),
		newAnalyzeCmd(),
		newSetsCmd(),
		newPresetsCmd(),
		newPublishCmd(),
		newReindexCmd(),
		newDeleteCmd(),
		newSweepCmd(),
		newBifurcationCmd(),
		newInitConfigCmd(),
	)
	return rootCmd
}

// setup loads the config (file, then LORENZ_* env, then flags) and builds
// the logger.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if configFile != "" {
		cfg, err = config.Load(configFile)
	} else {
		cfg, err = config.FromEnv()
	}
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	logger, logCloser, err = logging.New(logging.Options{
		Level:       cfg.LogLevel,
		GraylogAddr: cfg.GraylogAddr,
	})
	if err != nil {
		return err
	}
	logger.Debug().
		Str("config", configFile).
		Str("data", cfg.DataDir).
		Str("set", cfg.ParameterSet).
		Msg("config loaded")
	return nil
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&parameterSet, "set", dynamo.DefaultParameterSet, "parameter set")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().IntVar(&maxPoints, "points", config.DefaultMaxPoints, "trail length per trajectory")
	cmd.Flags().IntVar(&repeats, "repeats", config.DefaultRepeats, "advances per tick")
	cmd.Flags().StringVar(&interval, "interval", config.DefaultAnimateInterval.String(), "minimum time between ticks")
	cmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	cmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme")
}

// simConfig applies --preset and then any explicitly set simulation flags
// on top of the loaded config. A positional argument names the set.
func simConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	c := *cfg
	flags := cmd.Flags()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		c.ParameterSet = p.ParameterSet
		c.Params = p.Params
		c.Dt = p.Dt
		c.MaxPoints = p.MaxPoints
		c.InitialConditions = p.InitialConditions
	}

	if len(args) > 0 {
		c.ParameterSet = args[0]
		c.Params = nil
	} else if flags.Changed("set") {
		c.ParameterSet = parameterSet
		c.Params = nil
	}
	if flags.Changed("dt") {
		c.Dt = dt
	}
	if flags.Changed("points") {
		c.MaxPoints = maxPoints
	}
	if flags.Changed("repeats") {
		c.NumRepeats = repeats
	}
	if flags.Changed("interval") {
		d, err := parseInterval(interval)
		if err != nil {
			return nil, err
		}
		c.AnimateInterval = d
	}
	if flags.Changed("fps") {
		c.FPS = frameRate
	}
	if flags.Changed("theme") {
		c.Theme = theme
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
