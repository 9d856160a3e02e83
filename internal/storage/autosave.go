package storage

import (
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nikbrunner/shelf/internal/debounce"
	"github.com/nikbrunner/shelf/internal/model"
)

// Saver persists a tree under a source name.
type Saver interface {
	SaveTree(source string, tree *model.Tree) error
}

// AutoSaver coalesces bursts of saves into one write after a quiet period.
// It snapshots the tree on every call so the caller may keep mutating it.
type AutoSaver struct {
	saver     Saver
	scheduler debounce.Scheduler
	log       logrus.FieldLogger

	// OnError is called with every failed save, from the saving goroutine.
	OnError func(error)

	writeMu sync.Mutex

	mu     sync.Mutex
	source string
	latest *model.Tree
	saves  int
}

// NewAutoSaver creates an AutoSaver that waits delay before writing.
func NewAutoSaver(saver Saver, delay time.Duration, log logrus.FieldLogger) *AutoSaver {
	return NewAutoSaverWithScheduler(saver, debounce.New(delay), log)
}

// NewAutoSaverWithScheduler creates an AutoSaver driven by scheduler.
func NewAutoSaverWithScheduler(saver Saver, scheduler debounce.Scheduler, log logrus.FieldLogger) *AutoSaver {
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	return &AutoSaver{saver: saver, scheduler: scheduler, log: log}
}

// SaveTree schedules a save of a snapshot of tree. It never fails; errors are
// reported through OnError.
func (a *AutoSaver) SaveTree(source string, tree *model.Tree) error {
	a.mu.Lock()
	if a.latest != nil && a.source != source {
		// A different source is pending; write it before switching.
		a.mu.Unlock()
		a.Flush()
		a.mu.Lock()
	}
	a.source = source
	a.latest = tree.Clone()
	a.mu.Unlock()

	a.scheduler.Trigger(a.write)
	return nil
}

func (a *AutoSaver) write() {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()

	a.mu.Lock()
	source, tree := a.source, a.latest
	a.latest = nil
	a.mu.Unlock()

	if tree == nil {
		return
	}
	if err := a.saver.SaveTree(source, tree); err != nil {
		a.log.WithError(err).WithField("source", source).Error("autosave failed")
		if a.OnError != nil {
			a.OnError(err)
		}
		return
	}

	a.mu.Lock()
	a.saves++
	a.mu.Unlock()
}

// Flush writes a pending snapshot now.
func (a *AutoSaver) Flush() {
	if !a.scheduler.Flush() {
		// The timer may have fired already; write anything it left behind.
		a.write()
	}
}

// Saves returns the number of completed writes.
func (a *AutoSaver) Saves() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.saves
}
