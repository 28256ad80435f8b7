// Package scheduler runs named repeating background tasks.
//
// Each task fires on a fixed interval. Firings of the same task never
// overlap: when a firing is still running at the next tick, that tick is
// skipped. Scheduling a name that already exists replaces the previous task.
package scheduler

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// task tracks one scheduled repeating action.
type task struct {
	cancel  context.CancelFunc
	done    chan struct{} // closed when the tick loop exits
	wg      sync.WaitGroup
	running atomic.Bool
}

// stop cancels the task and waits for the tick loop and any in-flight firing.
func (t *task) stop() {
	t.cancel()
	<-t.done
	t.wg.Wait()
}

// Scheduler owns a set of named repeating tasks. Safe for concurrent use.
type Scheduler struct {
	logger *slog.Logger

	mu    sync.Mutex
	tasks map[string]*task
}

// New creates an empty Scheduler.
func New(logger *slog.Logger) *Scheduler {
	return &Scheduler{
		logger: logger,
		tasks:  make(map[string]*task),
	}
}

// Schedule registers a repeating task under the given name. An existing task
// with the same name is canceled first, so the latest registration wins.
//
// The action runs on its own goroutine per firing. Errors are logged, panics
// are recovered and logged; neither stops the schedule.
func (s *Scheduler) Schedule(name string, interval time.Duration, action func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.tasks[name]; ok {
		existing.stop()
		s.logger.Info("replacing scheduled task", slog.String("task", name))
	}

	ctx, cancel := context.WithCancel(context.Background())
	t := &task{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	s.tasks[name] = t

	go s.run(ctx, name, interval, action, t)

	s.logger.Info("task scheduled",
		slog.String("task", name),
		slog.Duration("interval", interval))
}

// run is the per-task tick loop.
func (s *Scheduler) run(
	ctx context.Context,
	name string,
	interval time.Duration,
	action func(ctx context.Context) error,
	t *task,
) {
	defer close(t.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !t.running.CompareAndSwap(false, true) {
				s.logger.Warn("skipping task firing, previous run still in progress",
					slog.String("task", name))
				continue
			}

			t.wg.Add(1)
			go func() {
				defer t.wg.Done()
				defer t.running.Store(false)
				defer func() {
					if r := recover(); r != nil {
						s.logger.Error("scheduled task panicked",
							slog.String("task", name),
							slog.Any("panic", r))
					}
				}()

				if err := action(ctx); err != nil {
					s.logger.Error("scheduled task failed",
						slog.String("task", name),
						slog.Any("error", err))
				}
			}()
		}
	}
}

// Cancel stops and removes the named task. Returns false when no task with
// that name exists.
func (s *Scheduler) Cancel(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[name]
	if !ok {
		return false
	}

	t.stop()
	delete(s.tasks, name)

	s.logger.Info("task canceled", slog.String("task", name))
	return true
}

// CancelAll stops and removes every task. Used during shutdown.
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, t := range s.tasks {
		t.stop()
		delete(s.tasks, name)
	}

	s.logger.Info("all tasks canceled")
}

// Tasks returns the names of the currently scheduled tasks, sorted.
func (s *Scheduler) Tasks() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.tasks))
	for name := range s.tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
