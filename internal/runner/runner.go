// Package runner discovers source units under a root directory and feeds them
// through the engine, in parallel, once or continuously.
package runner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"beangen/internal/config"
	"beangen/internal/engine"
)

// ErrPendingChanges is returned in check mode when a unit would be rewritten.
var ErrPendingChanges = errors.New("generated regions are out of date")

const lockRetryDelay = 50 * time.Millisecond

// Runner processes the units of a directory tree.
type Runner struct {
	fs      afero.Fs
	engine  *engine.Engine
	options config.Options
	logger  *zap.Logger
	runID   string
}

// Option configures a Runner.
type Option func(*Runner)

// WithFs sets the filesystem. The default is the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(r *Runner) {
		r.fs = fs
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// Report summarizes one pass over a set of units.
type Report struct {
	Processed int      // Units read
	Targets   int      // Units declaring an entity
	Changed   []string // Units whose region changed, sorted
	Failed    []string // Units that could not be processed, sorted
}

// New creates a new Runner.
func New(cfg *config.Config, opts ...Option) (*Runner, error) {
	eng, err := engine.New(cfg.Generator)
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}
	r := &Runner{
		fs:      afero.NewOsFs(),
		engine:  eng,
		options: cfg.Options,
		logger:  zap.NewNop(),
		runID:   uuid.NewString(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(zap.String("run_id", r.runID))
	return r, nil
}

// RunID returns the identifier attached to every log line of the runner.
func (r *Runner) RunID() string {
	return r.runID
}

// Discover returns the units under root that pass the include and exclude
// patterns, sorted. Patterns are slash-separated and relative to root.
func (r *Runner) Discover(root string) ([]string, error) {
	base := root
	if _, ok := r.fs.(*afero.OsFs); ok {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("resolving root: %w", err)
		}
		base = abs
	}
	fsys := afero.NewIOFS(afero.NewBasePathFs(r.fs, base))
	seen := make(map[string]bool)
	for _, pattern := range r.options.Include {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			if r.options.ShouldInclude(match, matchPattern) {
				seen[match] = true
			}
		}
	}

	files := make([]string, 0, len(seen))
	for rel := range seen {
		files = append(files, filepath.Join(root, filepath.FromSlash(rel)))
	}
	slices.Sort(files)
	return files, nil
}

// Run processes every unit under root.
func (r *Runner) Run(ctx context.Context, root string) (*Report, error) {
	files, err := r.Discover(root)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("Discovered units", zap.String("root", root), zap.Int("count", len(files)))
	return r.RunFiles(ctx, files)
}

// RunFiles processes the given units in parallel. A failing unit is left
// untouched and does not stop the others; the returned error joins every
// failure.
func (r *Runner) RunFiles(ctx context.Context, files []string) (*Report, error) {
	workers := r.options.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var (
		mu     sync.Mutex
		report Report
		errs   []error
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := r.ProcessFile(ctx, path)

			mu.Lock()
			defer mu.Unlock()
			report.Processed++
			if err != nil {
				report.Failed = append(report.Failed, path)
				errs = append(errs, err)
				r.logger.Error("Failed to process unit", zap.String("unit", path), zap.Error(err))
				return nil
			}
			if res.Target {
				report.Targets++
			}
			if res.Changed {
				report.Changed = append(report.Changed, path)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		errs = append(errs, err)
	}

	slices.Sort(report.Changed)
	slices.Sort(report.Failed)
	if r.options.Check && len(report.Changed) > 0 {
		errs = append(errs, fmt.Errorf("%w: %d unit(s)", ErrPendingChanges, len(report.Changed)))
	}
	r.logger.Info("Run complete",
		zap.Int("processed", report.Processed),
		zap.Int("targets", report.Targets),
		zap.Int("changed", len(report.Changed)),
		zap.Int("failed", len(report.Failed)))
	return &report, errors.Join(errs...)
}

// ProcessFile regenerates the region of one unit and writes it back when it
// changed, unless running in check or dry-run mode.
func (r *Runner) ProcessFile(ctx context.Context, path string) (engine.Result, error) {
	write := !r.options.Check && !r.options.DryRun
	if write {
		unlock, err := r.lock(ctx, path)
		if err != nil {
			return engine.Result{}, err
		}
		defer unlock()
	}

	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return engine.Result{}, fmt.Errorf("reading unit: %w", err)
	}
	out, res, err := r.engine.ProcessBytes(path, data)
	if err != nil {
		return res, err
	}

	log := r.logger.With(zap.String("unit", path))
	if !res.Target {
		log.Debug("Skipping unit without entity")
		return res, nil
	}
	log = log.With(
		zap.String("entity", res.Entity),
		zap.Int("properties", res.Properties),
		zap.Bool("changed", res.Changed))

	if !res.Changed || !write {
		log.Info("Processed unit")
		return res, nil
	}
	info, err := r.fs.Stat(path)
	if err != nil {
		return res, fmt.Errorf("reading unit mode: %w", err)
	}
	if err := afero.WriteFile(r.fs, path, out, info.Mode().Perm()); err != nil {
		return res, fmt.Errorf("writing unit: %w", err)
	}
	log.Info("Regenerated unit")
	return res, nil
}

// lock takes an exclusive advisory lock on path. Only the OS filesystem is
// locked; other filesystems and the noLock option get a no-op.
func (r *Runner) lock(ctx context.Context, path string) (func(), error) {
	if _, ok := r.fs.(*afero.OsFs); !ok || r.options.NoLock {
		return func() {}, nil
	}
	fl := flock.New(path)
	locked, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("locking unit: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("locking unit: %s is held by another process", path)
	}
	return func() {
		if err := fl.Unlock(); err != nil {
			r.logger.Warn("Failed to unlock unit", zap.String("unit", path), zap.Error(err))
		}
	}, nil
}

// matchPattern adapts doublestar.Match to the filter signature, treating invalid
// patterns as non-matching.
func matchPattern(pattern, path string) bool {
	ok, err := doublestar.Match(pattern, path)
	return err == nil && ok
}
