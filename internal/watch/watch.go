// Package watch re-evaluates a scenario or configuration file each time it
// changes on disk.
//
// The parent directory is watched rather than the file itself so that
// editors which save by renaming a temporary file are still noticed. Bursts
// of events are coalesced: evaluation runs once the file has been quiet for
// the debounce interval.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/agbru/renewcalc/internal/feasibility"
	"github.com/agbru/renewcalc/internal/logging"
	"github.com/agbru/renewcalc/internal/orchestration"
	"github.com/agbru/renewcalc/internal/scenario"
)

// DefaultDebounce is the quiet period required before re-evaluating.
const DefaultDebounce = 300 * time.Millisecond

// Evaluator evaluates the watched file.
type Evaluator func(ctx context.Context, path string) ([]orchestration.ScenarioResult, error)

// Evaluation is delivered to the callback after each run.
type Evaluation struct {
	Path    string
	Seq     int
	At      time.Time
	Results []orchestration.ScenarioResult
	// Err is set when the file could not be loaded or evaluated. The
	// watcher keeps running.
	Err error
}

// Stats counts watcher activity.
type Stats struct {
	Events      int
	Evaluations int
	Errors      int
	LastEvent   time.Time
}

// Watcher watches one file.
type Watcher struct {
	path     string
	eval     Evaluator
	onChange func(Evaluation)
	debounce time.Duration
	logger   logging.Logger

	mu    sync.Mutex
	stats Stats
}

// Option customises a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period. Non-positive values are ignored.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option { return func(w *Watcher) { w.logger = l } }

// New returns a watcher for path. The file must exist.
func New(path string, eval Evaluator, onChange func(Evaluation), opts ...Option) (*Watcher, error) {
	if eval == nil || onChange == nil {
		return nil, errors.New("watch: evaluator and callback are required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	w := &Watcher{
		path:     abs,
		eval:     eval,
		onChange: onChange,
		debounce: DefaultDebounce,
		logger:   logging.NewStdLoggerAdapter(log.New(io.Discard, "", 0)),
	}
	for _, o := range opts {
		o(w)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Stats returns a snapshot of the counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// Run evaluates the file once, then again after every settled change,
// until ctx is done. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	w.logger.Info("watching", logging.String("path", w.path), logging.Duration("debounce", w.debounce))

	seq := 0
	w.evaluate(ctx, &seq)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.mu.Lock()
			w.stats.Events++
			w.stats.LastEvent = time.Now()
			w.mu.Unlock()
			w.logger.Debug("file event", logging.String("op", event.Op.String()))
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()
			w.logger.Error("watcher error", err)

		case <-timer.C:
			if _, err := os.Stat(w.path); err != nil {
				// Removed or mid-rename; wait for the next event.
				continue
			}
			w.evaluate(ctx, &seq)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0
}

func (w *Watcher) evaluate(ctx context.Context, seq *int) {
	*seq++
	results, err := w.eval(ctx, w.path)

	w.mu.Lock()
	w.stats.Evaluations++
	if err != nil {
		w.stats.Errors++
	}
	w.mu.Unlock()

	if err != nil {
		w.logger.Error("evaluation failed", err, logging.Int("seq", *seq))
	} else {
		w.logger.Debug("evaluated", logging.Int("seq", *seq), logging.Int("scenarios", len(results)))
	}
	w.onChange(Evaluation{Path: w.path, Seq: *seq, At: time.Now(), Results: results, Err: err})
}

// ScenarioFile returns an Evaluator that loads a scenario YAML file and
// evaluates it on site.
func ScenarioFile(site feasibility.Site, opts feasibility.Options) Evaluator {
	return func(ctx context.Context, path string) ([]orchestration.ScenarioResult, error) {
		sc, err := scenario.LoadFile(path)
		if err != nil {
			return nil, err
		}
		if err := feasibility.ValidateParams(sc.Params); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", sc.Key, err)
		}
		results := orchestration.ExecuteScenarios(ctx, []scenario.Scenario{sc}, site, opts, orchestration.NullProgressReporter{}, io.Discard)
		return results, results[0].Err
	}
}
