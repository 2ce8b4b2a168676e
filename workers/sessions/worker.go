package sessions

import (
	"sync"
	"time"

	"github.com/xiaoyuanzhu-com/ai-session-hub/log"
	"github.com/xiaoyuanzhu-com/ai-session-hub/resolve"
)

// Config holds session worker settings
type Config struct {
	Interval     time.Duration // time between scheduled passes
	StartupDelay time.Duration // delay before the first pass after boot
	BatchSize    int           // max raw records fetched per pass
}

// Worker runs processing passes on a fixed timer and on demand. Passes are
// serialized through a single loop goroutine; a concurrent pass from another
// process would still converge safely thanks to idempotent inserts.
type Worker struct {
	cfg       Config
	processor *Processor

	stopChan chan struct{}
	trigger  chan chan Summary
	wg       sync.WaitGroup
}

// NewWorker creates a session worker with dependencies
func NewWorker(cfg Config, store Store, resolver *resolve.Resolver) *Worker {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}

	return &Worker{
		cfg:       cfg,
		processor: NewProcessor(store, resolver, cfg.BatchSize),
		stopChan:  make(chan struct{}),
		trigger:   make(chan chan Summary),
	}
}

// Start begins scheduled processing
func (w *Worker) Start() {
	log.Info().
		Dur("interval", w.cfg.Interval).
		Int("batch", w.cfg.BatchSize).
		Msg("starting session worker")

	w.wg.Add(1)
	go w.loop()
}

// Stop stops the session worker
func (w *Worker) Stop() {
	close(w.stopChan)
	w.wg.Wait()
	log.Info().Msg("session worker stopped")
}

// TriggerNow runs one processing pass on demand and returns its summary.
// The pass is queued behind any pass already in flight.
func (w *Worker) TriggerNow() Summary {
	reply := make(chan Summary, 1)
	select {
	case w.trigger <- reply:
		return <-reply
	case <-w.stopChan:
		return Summary{}
	}
}

// loop serializes scheduled, startup, and on-demand passes
func (w *Worker) loop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	// One pass shortly after startup to drain anything that accumulated
	// while the service was down.
	startup := time.After(w.cfg.StartupDelay)

	for {
		select {
		case <-startup:
			w.processor.Run()
		case <-ticker.C:
			w.processor.Run()
		case reply := <-w.trigger:
			reply <- w.processor.Run()
		case <-w.stopChan:
			return
		}
	}
}
