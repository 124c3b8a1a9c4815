package station

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Watcher periodically refreshes a station view until stopped.
type Watcher struct {
	refresh  func(ctx context.Context) error
	interval time.Duration
	stopChan chan struct{}
	wg       sync.WaitGroup
	mu       sync.RWMutex
	running  bool
}

func NewWatcher(refresh func(ctx context.Context) error, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Watcher{
		refresh:  refresh,
		interval: interval,
	}
}

// Start refreshes once right away, then every interval. A stopped watcher can be started again.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher is already running")
	}
	w.running = true
	stop := make(chan struct{})
	w.stopChan = stop
	w.wg.Add(1)
	w.mu.Unlock()

	log.Infof("Starting watcher, refreshing every %s", w.interval)

	go func() {
		defer w.wg.Done()
		w.run(ctx, stop)
	}()

	return nil
}

func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	stop := w.stopChan
	w.mu.Unlock()

	log.Info("Stopping watcher")
	close(stop)
	w.wg.Wait()
}

func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

func (w *Watcher) run(ctx context.Context, stop <-chan struct{}) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info("Context cancelled, stopping watcher")
			return
		case <-stop:
			log.Debug("Stop signal received, stopping watcher")
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

// tick never stops the loop; a failed refresh is logged and retried on the next tick.
func (w *Watcher) tick(ctx context.Context) {
	if err := w.refresh(ctx); err != nil {
		log.Errorf("refresh failed: %v", err)
	}
}
