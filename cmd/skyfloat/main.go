package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/skyfloat/internal/config"
	"github.com/san-kum/skyfloat/internal/gui"
	"github.com/san-kum/skyfloat/internal/lifecycle"
	"github.com/san-kum/skyfloat/internal/storage"
	"github.com/san-kum/skyfloat/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       int64
	width      float64
	height     float64
	logLevel   string
	logFile    string
	logJSON    bool

	runSteps    int
	traceSteps  int
	exportSteps int
	every       int
	csvPath  string
	outPath  string
	category string
	index    int
	svgPath  string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd registers the commands. The root runs the terminal UI when no
// subcommand is given.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "skyfloat",
		Short:        "a to-do list of floating balloons",
		SilenceUsage: true,
		RunE:         runTUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".skyfloat", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	pf.Float64Var(&width, "width", config.DefaultWidth, "field width")
	pf.Float64Var(&height, "height", config.DefaultHeight, "field height")
	pf.StringVar(&logLevel, "log-level", "info", "debug|info|warn|error")
	pf.StringVar(&logFile, "log-file", "", "log destination (default stderr, <data>/skyfloat.log for the tui)")
	pf.BoolVar(&logJSON, "log-json", false, "log as JSON")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "run the terminal field",
		RunE:  runTUI,
	}

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the desktop field",
		RunE:  runGUI,
	}

	addCmd := &cobra.Command{
		Use:   "add [text]",
		Short: "add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE:  addTask,
	}
	addCmd.Flags().StringVar(&category, "category", "none", "none|work|personal")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list tasks",
		RunE:  listTasks,
	}

	editCmd := &cobra.Command{
		Use:   "edit [n] [text]",
		Short: "replace the text of task n",
		Args:  cobra.MinimumNArgs(2),
		RunE:  editTask,
	}

	completeCmd := &cobra.Command{
		Use:   "complete [n]",
		Short: "complete task n",
		Args:  cobra.ExactArgs(1),
		RunE:  completeTask,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the field headless and report metrics",
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&runSteps, "steps", 600, "steps to simulate")
	runCmd.Flags().IntVar(&every, "every", 10, "csv sample interval in steps")
	runCmd.Flags().StringVar(&csvPath, "csv", "", "write per-balloon samples to this csv file")

	traceCmd := &cobra.Command{
		Use:   "trace",
		Short: "plot the altitude of one balloon",
		RunE:  traceBalloon,
	}
	traceCmd.Flags().IntVar(&traceSteps, "steps", 600, "steps to simulate")
	traceCmd.Flags().IntVar(&index, "balloon", 1, "task number to trace")
	traceCmd.Flags().StringVar(&svgPath, "svg", "", "also write the trace as svg")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv",
		Short: "export the field state as csv",
		RunE:  exportCSV,
	}
	exportSVGCmd := &cobra.Command{
		Use:   "export-svg",
		Short: "render the field as svg",
		RunE:  exportSVG,
	}
	exportPNGCmd := &cobra.Command{
		Use:   "export-png",
		Short: "render the field as png",
		RunE:  exportPNG,
	}
	for _, c := range []*cobra.Command{exportCSVCmd, exportSVGCmd, exportPNGCmd} {
		c.Flags().IntVar(&exportSteps, "steps", 300, "steps to simulate before exporting")
		c.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout for csv and svg)")
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list drift presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(tuiCmd, guiCmd, addCmd, listCmd, editCmd, completeCmd, runCmd, traceCmd,
		exportCSVCmd, exportSVGCmd, exportPNGCmd, presetsCmd)
	return rootCmd
}

// loadConfig layers defaults, preset, config file and explicitly set flags,
// in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		if !cfg.Apply(preset) {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		if err := cfg.Overlay(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("width") {
		cfg.Field.Width = width
	}
	if flags.Changed("height") {
		cfg.Field.Height = height
	}
	if flags.Changed("data") || cfg.Storage.Dir == "" {
		cfg.Storage.Dir = dataDir
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return cfg, cfg.Validate()
}

// newLogger builds the slog handler from the log flags and installs it as
// the default. The returned func releases the log file, if one was opened.
func newLogger(cfg *config.Config, defaultFile string) (*slog.Logger, func() error, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, nil, fmt.Errorf("bad --log-level %q: %w", logLevel, err)
	}

	path := logFile
	if path == "" && defaultFile != "" {
		path = filepath.Join(cfg.Storage.Dir, defaultFile)
	}
	var w io.Writer = os.Stderr
	closer := func() error { return nil }
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, err
		}
		w, closer = f, f.Close
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler = slog.NewTextHandler(w, opts)
	if logJSON {
		h = slog.NewJSONHandler(w, opts)
	}
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger, closer, nil
}

// session is everything a command needs: the loaded field and its logger.
type session struct {
	cfg    *config.Config
	log    *slog.Logger
	mgr    *lifecycle.Manager
	closer func() error
}

func (s *session) Close() error { return s.closer() }

func openSession(cmd *cobra.Command, defaultLog string) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, closer, err := newLogger(cfg, defaultLog)
	if err != nil {
		return nil, err
	}

	kv := storage.NewFileKV(cfg.Storage.Dir, cfg.Storage.File)
	if err := kv.Init(); err != nil {
		closer()
		return nil, fmt.Errorf("failed to prepare data dir: %w", err)
	}
	mgr, err := lifecycle.New(lifecycle.Options{
		Config: cfg,
		Store:  storage.NewBalloons(kv, cfg.Storage.Key),
		Logger: logger,
	})
	if err != nil {
		closer()
		return nil, err
	}

	loaded, skipped := mgr.Load()
	logger.Debug("field loaded", "path", kv.Path(), "balloons", loaded, "skipped", skipped, "seed", cfg.Seed)
	return &session{cfg: cfg, log: logger, mgr: mgr, closer: closer}, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, "skyfloat.log")
	if err != nil {
		return err
	}
	defer s.Close()
	return viz.Run(s.mgr, s.log)
}

func runGUI(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, "")
	if err != nil {
		return err
	}
	defer s.Close()
	gui.Run(s.mgr, s.log)
	return nil
}

func joinArgs(args []string) string { return strings.Join(args, " ") }
