package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/viant/neighbourhood/engine"
	"github.com/viant/neighbourhood/index/kdtree"
	"github.com/viant/neighbourhood/vector"
)

const (
	defaultPoints = 100000
	defaultWarmup = 1000
	defaultDt     = 0.02
)

type rootOptions struct {
	points     int
	warmup     int
	dt         float64
	radii      []float64
	dbPath     string
	bruteForce int
	logFormat  string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "corrdim",
		Short: "Estimate the correlation dimension of a point set",
		Long: `Estimate the correlation dimension of a point set from k-d tree
neighbourhood counts.

Without --db the points are a trajectory of the Lorenz attractor.

Examples:
  corrdim
  corrdim --points 20000 --radii 1,2,4
  corrdim --db points.sqlite`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}
	flags := cmd.Flags()
	flags.IntVarP(&opts.points, "points", "n", defaultPoints, "number of Lorenz trajectory points")
	flags.IntVar(&opts.warmup, "warmup", defaultWarmup, "integration steps discarded before sampling")
	flags.Float64Var(&opts.dt, "dt", defaultDt, "integration step")
	flags.Float64SliceVarP(&opts.radii, "radii", "r", []float64{1, 4}, "radii for the correlation sums")
	flags.StringVar(&opts.dbPath, "db", "", "SQLite database with a points table to load instead of the Lorenz trajectory")
	flags.IntVar(&opts.bruteForce, "brute-force", kdtree.DefaultBruteForceSize, "brute force subtree size")
	flags.StringVar(&opts.logFormat, "log-format", "text", "log format: text or json")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

func newLogger(w io.Writer, format string, verbose bool) (*slog.Logger, error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	default:
		return nil, fmt.Errorf("corrdim: unsupported log format %q", format)
	}
}

func run(ctx context.Context, out, errOut io.Writer, opts *rootOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger, err := newLogger(errOut, opts.logFormat, opts.verbose)
	if err != nil {
		return err
	}
	points, err := loadPoints(ctx, opts)
	if err != nil {
		return err
	}
	logger.Debug("corrdim: points loaded", "points", len(points), "source", source(opts))

	tree, err := kdtree.New(points, kdtree.WithBruteForceSize(opts.bruteForce), kdtree.WithLogger(logger))
	if err != nil {
		return err
	}
	started := time.Now()
	est, err := correlationDimension(tree, opts.radii)
	if err != nil {
		return err
	}
	for i, r := range est.Radii {
		logger.Debug("corrdim: correlation sum", "radius", r, "sum", est.Sums[i])
	}
	logger.Debug("corrdim: estimated", "elapsed", time.Since(started))
	_, err = fmt.Fprintf(out, "Correlation dimension: %v\n", est.Dimension)
	return err
}

func source(opts *rootOptions) string {
	if opts.dbPath != "" {
		return opts.dbPath
	}
	return "lorenz"
}

func loadPoints(ctx context.Context, opts *rootOptions) ([][]float64, error) {
	if opts.dbPath == "" {
		if opts.points <= 0 {
			return nil, fmt.Errorf("corrdim: --points must be positive, got %d", opts.points)
		}
		if opts.warmup < 0 {
			return nil, fmt.Errorf("corrdim: --warmup must not be negative, got %d", opts.warmup)
		}
		return lorenzTrajectory(opts.points, opts.warmup, opts.dt), nil
	}
	db, err := engine.Open(opts.dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	store, err := vector.NewSQLiteStore(db)
	if err != nil {
		return nil, err
	}
	stored, err := store.Points(ctx)
	if err != nil {
		return nil, err
	}
	points := make([][]float64, len(stored))
	for i, p := range stored {
		points[i] = vector.Float64s(p.Coords)
	}
	return points, nil
}
