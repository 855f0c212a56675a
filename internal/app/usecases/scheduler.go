package usecases

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bigking1998/algo-trade-bot-sub010/internal/app/dto"
	"github.com/bigking1998/algo-trade-bot-sub010/internal/core/strategy"
	"github.com/bigking1998/algo-trade-bot-sub010/pkg/serialization"
)

// PassResult pairs the validation report with the compilation result (nil
// when validation blocked compilation) for one scheduled pass.
type PassResult struct {
	Fingerprint string
	Report      *dto.ValidationReport
	Compilation *dto.CompilationResult
}

// Scheduler collapses rapid successive graph edits into a single
// validation/compilation pass. Only the most recent snapshot is ever
// processed; an in-flight pass superseded by a newer snapshot has its
// result discarded rather than delivered.
//
// Thread-safe: Submit may be called from any goroutine.
type Scheduler struct {
	validator Validator
	compiler  StrategyCompiler
	opts      CompileOptions
	debounce  time.Duration
	logger    *slog.Logger

	mu       sync.Mutex
	pending  *strategy.Graph
	timer    *time.Timer
	lastSeen string // fingerprint of the last processed snapshot
	seq      uint64
	closed   bool

	results chan PassResult
	wg      sync.WaitGroup
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithDebounce overrides the default 1.5s debounce window.
func WithDebounce(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCompileOptions sets the options used for scheduled compilations.
func WithCompileOptions(opts CompileOptions) SchedulerOption {
	return func(s *Scheduler) { s.opts = opts }
}

// NewScheduler creates a debounced revalidation/recompile scheduler.
func NewScheduler(validator Validator, compiler StrategyCompiler, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		validator: validator,
		compiler:  compiler,
		debounce:  1500 * time.Millisecond,
		logger:    slog.Default(),
		results:   make(chan PassResult, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Results delivers completed passes. Superseded passes are never delivered.
func (s *Scheduler) Results() <-chan PassResult {
	return s.results
}

// Submit schedules a validation/compilation pass for the given snapshot,
// restarting the debounce window. Snapshots identical to the last
// processed one are skipped entirely.
func (s *Scheduler) Submit(g *strategy.Graph) error {
	if g == nil {
		return dto.ErrNilGraph
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return dto.ErrSchedulerClosed
	}

	s.pending = g
	s.seq++
	seq := s.seq

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() { s.fire(seq) })
	return nil
}

// fire runs the pass scheduled as seq unless a newer submission replaced it.
func (s *Scheduler) fire(seq uint64) {
	s.mu.Lock()
	if s.closed || seq != s.seq || s.pending == nil {
		s.mu.Unlock()
		return
	}
	g := s.pending
	s.mu.Unlock()

	fp, err := serialization.Fingerprint(g)
	if err != nil {
		s.logger.Warn("snapshot fingerprint failed", "error", err)
	}

	s.mu.Lock()
	if fp != "" && fp == s.lastSeen {
		s.mu.Unlock()
		return // unchanged graph, nothing to recompute
	}
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run(seq, g, fp)
}

func (s *Scheduler) run(seq uint64, g *strategy.Graph, fp string) {
	defer s.wg.Done()

	report := s.validator.Validate(g)

	var compilation *dto.CompilationResult
	if report.IsValid {
		ctx, cancel := context.WithCancel(context.Background())
		// Supersession check between phases: cancel if a newer snapshot
		// arrived while this pass was in flight.
		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(10 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					s.mu.Lock()
					superseded := seq != s.seq
					s.mu.Unlock()
					if superseded {
						cancel()
						return
					}
				}
			}
		}()
		compilation = s.compiler.Compile(ctx, g, s.opts)
		close(done)
		cancel()
	}

	s.mu.Lock()
	if s.closed || seq != s.seq {
		s.mu.Unlock()
		s.logger.Debug("discarding superseded pass", "seq", seq)
		return
	}
	s.lastSeen = fp
	s.mu.Unlock()

	result := PassResult{Fingerprint: fp, Report: report, Compilation: compilation}
	select {
	case s.results <- result:
	default:
		// Listener fell behind; drop the oldest result in favor of this one.
		// The retry stays non-blocking: a racing pass may have refilled the
		// slot after the drain, in which case this result is the stale one.
		select {
		case <-s.results:
		default:
		}
		select {
		case s.results <- result:
		default:
			s.logger.Debug("dropping pass result, listener not keeping up", "seq", seq)
		}
	}
}

// Close stops the scheduler and waits for any in-flight pass to finish.
// Pending (not yet fired) passes are abandoned.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()

	s.wg.Wait()
	close(s.results)
}
