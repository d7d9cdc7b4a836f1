// Package autosave persists session state in the background after changes.
package autosave

import (
	"context"
	"sync"
	"time"

	"github.com/existflow/projecttasks/internal/logger"
)

// SaveFunc writes the current state somewhere durable
type SaveFunc func(ctx context.Context) error

// AutoSave manages debounced background saving
type AutoSave struct {
	save         SaveFunc
	debounceTime time.Duration
	pending      bool
	lastErr      error
	mu           sync.Mutex
	saveMu       sync.Mutex // one save at a time
	stopCh       chan struct{}
	stopOnce     sync.Once
	wg           sync.WaitGroup
	onSaved      func(error)
}

// New creates an autosave manager that calls save delay after the last trigger
func New(save SaveFunc, delay time.Duration) *AutoSave {
	return &AutoSave{
		save:         save,
		debounceTime: delay,
		stopCh:       make(chan struct{}),
	}
}

// SetOnSaved sets a callback invoked after every background save
func (a *AutoSave) SetOnSaved(callback func(error)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onSaved = callback
}

// Trigger marks that a save is needed. Triggers arriving while a save is
// already scheduled are folded into it.
func (a *AutoSave) Trigger() {
	a.mu.Lock()
	defer a.mu.Unlock()

	select {
	case <-a.stopCh:
		return
	default:
	}

	if !a.pending {
		a.pending = true
		a.wg.Add(1)
		go a.debouncedSave()
	}
}

func (a *AutoSave) debouncedSave() {
	defer a.wg.Done()

	timer := time.NewTimer(a.debounceTime)
	defer timer.Stop()

	select {
	case <-timer.C:
		a.performSave()
	case <-a.stopCh:
		return
	}
}

func (a *AutoSave) performSave() {
	a.mu.Lock()
	if !a.pending {
		// flushed in the meantime
		a.mu.Unlock()
		return
	}
	a.pending = false
	a.mu.Unlock()

	err := a.run()

	a.mu.Lock()
	callback := a.onSaved
	a.mu.Unlock()

	if callback != nil {
		callback(err)
	}
}

func (a *AutoSave) run() error {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	err := a.save(context.Background())

	a.mu.Lock()
	a.lastErr = err
	a.mu.Unlock()

	if err != nil {
		logger.Error("Autosave failed", logger.F("error", err))
	} else {
		logger.Debug("Autosave complete")
	}
	return err
}

// Flush saves immediately if a save is pending
func (a *AutoSave) Flush() error {
	a.mu.Lock()
	isPending := a.pending
	a.pending = false
	a.mu.Unlock()

	if !isPending {
		return nil
	}
	return a.run()
}

// Stop cancels any scheduled save and waits for a running one to finish.
// Call Flush first to keep pending changes.
func (a *AutoSave) Stop() {
	a.stopOnce.Do(func() {
		a.mu.Lock()
		close(a.stopCh)
		a.mu.Unlock()
	})
	a.wg.Wait()
}

// IsPending returns true if a save is scheduled
func (a *AutoSave) IsPending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending
}

// LastError returns the result of the most recent save
func (a *AutoSave) LastError() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}
