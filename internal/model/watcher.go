package model

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/a1s/gridbuf/internal/dao"
	"github.com/a1s/gridbuf/internal/model1"
)

// DefaultRefreshRate is used when a watcher is given a non positive rate.
const DefaultRefreshRate = 5 * time.Second

// Watcher periodically pulls rows from an accessor and pushes them to an
// updater.
type Watcher struct {
	accessor    dao.Accessor
	updater     Updater
	synchronous bool
	refreshRate time.Duration
	rows        model1.Rows
	events      *model1.RowEvents
	listeners   []WatchListener
	cancelFn    context.CancelFunc
	log         *slog.Logger
	mx          sync.RWMutex
}

// NewWatcher returns a new watcher.
func NewWatcher(accessor dao.Accessor, updater Updater, refreshRate time.Duration) *Watcher {
	return &Watcher{
		accessor:    accessor,
		updater:     updater,
		refreshRate: refreshRate,
		events:      model1.NewRowEvents(0),
		listeners:   make([]WatchListener, 0, 2),
		log:         slog.Default(),
	}
}

// SetLogger sets the watcher logger.
func (w *Watcher) SetLogger(l *slog.Logger) {
	w.mx.Lock()
	defer w.mx.Unlock()
	w.log = l
}

// SetSynchronous controls whether updates block the refresh loop until
// applied.
func (w *Watcher) SetSynchronous(b bool) {
	w.mx.Lock()
	defer w.mx.Unlock()
	w.synchronous = b
}

// SetUpdater changes the row destination.
func (w *Watcher) SetUpdater(u Updater) {
	w.mx.Lock()
	defer w.mx.Unlock()
	w.updater = u
}

// Header returns the accessor header.
func (w *Watcher) Header() model1.Header {
	w.mx.RLock()
	defer w.mx.RUnlock()
	if w.accessor == nil {
		return nil
	}
	return w.accessor.Header()
}

// Events returns the row events computed by the last refresh.
func (w *Watcher) Events() *model1.RowEvents {
	w.mx.RLock()
	defer w.mx.RUnlock()
	return w.events
}

// AddListener registers a watch listener.
func (w *Watcher) AddListener(l WatchListener) {
	w.mx.Lock()
	defer w.mx.Unlock()
	w.listeners = append(w.listeners, l)
}

// RemoveListener unregisters a watch listener.
func (w *Watcher) RemoveListener(l WatchListener) {
	w.mx.Lock()
	defer w.mx.Unlock()

	for i, listener := range w.listeners {
		if listener == l {
			w.listeners = append(w.listeners[:i], w.listeners[i+1:]...)
			return
		}
	}
}

// Watch performs an initial refresh and keeps refreshing until ctx is done
// or Stop is called.
func (w *Watcher) Watch(ctx context.Context) error {
	w.mx.Lock()
	if w.cancelFn != nil {
		w.cancelFn()
	}
	watchCtx, cancel := context.WithCancel(ctx)
	w.cancelFn = cancel
	w.mx.Unlock()

	if err := w.Refresh(watchCtx); err != nil {
		w.notifyLoadFailed(err)
		return err
	}

	go w.watchLoop(watchCtx)
	return nil
}

func (w *Watcher) watchLoop(ctx context.Context) {
	w.mx.RLock()
	refreshRate := w.refreshRate
	w.mx.RUnlock()

	if refreshRate <= 0 {
		refreshRate = DefaultRefreshRate
	}

	ticker := time.NewTicker(refreshRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.Refresh(ctx); err != nil {
				w.notifyLoadFailed(err)
			}
		}
	}
}

// Refresh pulls rows from the accessor immediately.
func (w *Watcher) Refresh(ctx context.Context) error {
	w.mx.RLock()
	accessor, updater := w.accessor, w.updater
	synchronous, prev, log := w.synchronous, w.rows, w.log
	w.mx.RUnlock()

	if accessor == nil {
		return ErrNoAccessor
	}
	if updater == nil {
		return ErrNoUpdater
	}

	rows, err := accessor.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list rows: %w", err)
	}

	header := accessor.Header()
	events := model1.Track(prev, rows, header)
	prevIdx := prev.Index()
	events.Range(func(_ int, re model1.RowEvent) bool {
		if re.Kind != model1.EventUpdate {
			return true
		}
		i, ok := prevIdx[re.Row.ID]
		if !ok {
			return true
		}
		patch, err := dao.Describe(header, prev[i], re.Row)
		if err != nil {
			log.Warn("Unable to describe row change", slog.String("id", re.Row.ID), slog.Any("error", err))
			return true
		}
		log.Debug("Row changed", slog.String("id", re.Row.ID), slog.String("patch", patch))
		return true
	})

	w.mx.Lock()
	w.rows, w.events = rows, events
	w.mx.Unlock()

	log.Debug("Rows loaded",
		slog.Int("count", len(rows)),
		slog.Int("added", events.Count(model1.EventAdd)),
		slog.Int("updated", events.Count(model1.EventUpdate)),
		slog.Int("deleted", events.Count(model1.EventDelete)),
	)
	updater.Update(rows, synchronous, func() {
		w.notifyLoaded(events)
	})

	return nil
}

// Stop stops the watch loop.
func (w *Watcher) Stop() {
	w.mx.Lock()
	defer w.mx.Unlock()

	if w.cancelFn != nil {
		w.cancelFn()
		w.cancelFn = nil
	}
}

func (w *Watcher) notifyLoaded(events *model1.RowEvents) {
	w.mx.RLock()
	listeners := make([]WatchListener, len(w.listeners))
	copy(listeners, w.listeners)
	w.mx.RUnlock()

	for _, l := range listeners {
		l.RowsLoaded(events)
	}
}

func (w *Watcher) notifyLoadFailed(err error) {
	w.mx.RLock()
	listeners := make([]WatchListener, len(w.listeners))
	copy(listeners, w.listeners)
	w.mx.RUnlock()

	for _, l := range listeners {
		l.LoadFailed(err)
	}
}
