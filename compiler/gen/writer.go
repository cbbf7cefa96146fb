package gen

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/modelgen"
	"github.com/syssam/modelgen/compiler/load"
)

// Writer compiles models and writes one module per model in parallel.
// A failure on one model is recorded in its Result and does not stop the
// others.
type Writer struct {
	cfg    *Config
	log    *zap.Logger
	dryRun bool

	// Metrics for performance monitoring
	mu      sync.Mutex
	metrics *WriterMetrics
}

// WriterMetrics tracks generation performance.
type WriterMetrics struct {
	FilesGenerated int
	FilesFailed    int
	TotalBytes     int64
	CompileTime    int64 // nanoseconds
	WriteTime      int64 // nanoseconds
}

// Result reports the outcome for one model.
type Result struct {
	Entity string
	Path   string
	Source string
	Err    error
}

// NewWriter creates a writer for the given config.
func NewWriter(cfg *Config, log *zap.Logger) *Writer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Writer{
		cfg:     cfg,
		log:     log,
		metrics: &WriterMetrics{},
	}
}

// DryRun makes the writer compile without touching the file system.
func (w *Writer) DryRun(v bool) *Writer {
	w.dryRun = v
	return w
}

// Metrics returns the generation metrics.
func (w *Writer) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return *w.metrics
}

// WriteAll compiles and writes all models. Results are returned in input
// order. Models whose names repeat in the batch, ignoring case, all fail
// and none of them is written. The returned error is non-nil only when the
// target directory cannot be created or the context is canceled.
func (w *Writer) WriteAll(ctx context.Context, schemas []*load.Schema) ([]Result, error) {
	if w.cfg == nil || w.cfg.Target == "" {
		return nil, NewConfigError("Target", nil, "missing target directory in config")
	}
	if !w.dryRun {
		if err := EnsureTarget(w.cfg.Target); err != nil {
			return nil, err
		}
	}
	results := make([]Result, len(schemas))
	dups := duplicates(schemas)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.cfg.workers())
	for i, s := range schemas {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if n, ok := dups[strings.ToLower(s.Name)]; ok {
				results[i] = w.reject(s, n)
				return nil
			}
			results[i] = w.write(s)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// EnsureTarget creates dir when it does not exist.
func EnsureTarget(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return modelgen.NewDirectoryError(dir, err)
	}
	return nil
}

// duplicates counts the lower-cased model names that occur more than once.
// Such models would share a module file on case-insensitive file systems
// and always share a table name.
func duplicates(schemas []*load.Schema) map[string]int {
	seen := make(map[string]int, len(schemas))
	for _, s := range schemas {
		if s.Name != "" {
			seen[strings.ToLower(s.Name)]++
		}
	}
	maps.DeleteFunc(seen, func(_ string, n int) bool { return n < 2 })
	return seen
}

func (w *Writer) reject(s *load.Schema, n int) Result {
	r := Result{
		Entity: s.Name,
		Err: NewGenerationError("write", s.Name, "", "duplicate model name",
			fmt.Errorf("%d models in the batch are named %q ignoring case", n, s.Name)),
	}
	w.record(r, 0, 0)
	w.log.Error("write model", zap.String("model", s.Name), zap.Error(r.Err))
	return r
}

// write compiles and writes a single model.
func (w *Writer) write(s *load.Schema) Result {
	r := Result{Entity: s.Name}
	log := w.log.With(zap.String("model", s.Name))

	start := time.Now()
	src, err := Compile(w.cfg, s)
	compiled := time.Since(start)
	if err != nil {
		r.Err = err
		w.record(r, compiled, 0)
		log.Error("compile model", zap.Error(err))
		return r
	}
	r.Source = src
	if err := ValidFileName(s.Name); err != nil {
		r.Err = NewGenerationError("write", s.Name, "", "unsafe model name", err)
		w.record(r, compiled, 0)
		log.Error("write model", zap.Error(r.Err))
		return r
	}
	r.Path = filepath.Join(w.cfg.Target, s.Name+".py")
	if w.dryRun {
		w.record(r, compiled, 0)
		log.Debug("compiled model", zap.Int("bytes", len(src)))
		return r
	}

	start = time.Now()
	if err := os.WriteFile(r.Path, []byte(src), 0o644); err != nil {
		r.Err = NewGenerationError("write", s.Name, r.Path, "", err)
		w.record(r, compiled, time.Since(start))
		log.Error("write model", zap.String("path", r.Path), zap.Error(err))
		return r
	}
	w.record(r, compiled, time.Since(start))
	log.Info("wrote model", zap.String("path", r.Path), zap.Int("bytes", len(src)))
	return r
}

func (w *Writer) record(r Result, compile, write time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if r.Err != nil {
		w.metrics.FilesFailed++
	} else {
		w.metrics.FilesGenerated++
		w.metrics.TotalBytes += int64(len(r.Source))
	}
	w.metrics.CompileTime += int64(compile)
	w.metrics.WriteTime += int64(write)
}

// ValidFileName reports an error for model names that would place the
// module outside the target directory.
func ValidFileName(name string) error {
	switch {
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("model name %q contains a path separator", name)
	case strings.Contains(name, ".."):
		return fmt.Errorf("model name %q contains \"..\"", name)
	case strings.HasPrefix(name, "."):
		return fmt.Errorf("model name %q starts with a dot", name)
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("model name %q contains a NUL byte", name)
	}
	return nil
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}
