package ui

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// LogGrid is a GridView that logs the updates it receives instead of drawing
// them. It tracks item counts so batches are checked like on a Grid.
type LogGrid struct {
	sources map[int]DataSource
	counts  map[int]int
	batch   *batch
	log     *slog.Logger
	mx      sync.Mutex
}

// NewLogGrid returns a grid logging to l.
func NewLogGrid(l *slog.Logger) *LogGrid {
	if l == nil {
		l = slog.Default()
	}
	return &LogGrid{
		sources: make(map[int]DataSource),
		counts:  make(map[int]int),
		log:     l.With(slog.String("component", "grid")),
	}
}

// Count returns the tracked item count of a group.
func (l *LogGrid) Count(group int) int {
	l.mx.Lock()
	defer l.mx.Unlock()

	return l.counts[group]
}

// SetDataSource installs ds for a group.
func (l *LogGrid) SetDataSource(group int, ds DataSource) {
	l.mx.Lock()
	l.sources[group] = ds
	l.counts[group] = ds.ItemCount(group)
	n := l.counts[group]
	l.mx.Unlock()

	l.log.Info("Data source set", slog.Int("group", group), slog.Int("items", n))
	l.dump(group, ds, n)
}

// RemoveDataSource drops a group.
func (l *LogGrid) RemoveDataSource(group int) {
	l.mx.Lock()
	delete(l.sources, group)
	delete(l.counts, group)
	l.mx.Unlock()

	l.log.Info("Data source removed", slog.Int("group", group))
}

// PerformBatchUpdates runs updates and checks the resulting counts. A batch
// opened while another is running joins the outer one.
func (l *LogGrid) PerformBatchUpdates(updates func(), completion func(bool)) error {
	l.mx.Lock()
	if l.batch != nil {
		l.mx.Unlock()
		if updates != nil {
			updates()
		}
		if completion != nil {
			completion(true)
		}
		return nil
	}
	l.batch = newBatch()
	l.mx.Unlock()

	if updates != nil {
		updates()
	}

	l.mx.Lock()
	b := l.batch
	l.batch = nil
	err := l.apply(b)
	l.mx.Unlock()

	if err != nil {
		l.log.Warn("Batch update failed, reloading", slog.Any("error", err))
		l.ReloadData()
	} else {
		for _, g := range b.groups() {
			l.log.Info("Batch applied",
				slog.Int("group", g),
				slog.Any("deleted", b.deleted[g]),
				slog.Any("inserted", b.inserted[g]),
			)
		}
		l.logReloaded(b)
	}
	if completion != nil {
		completion(err == nil)
	}

	return err
}

// InsertItems logs inserted positions.
func (l *LogGrid) InsertItems(paths []IndexPath) {
	l.mx.Lock()
	defer l.mx.Unlock()

	if l.batch != nil {
		record(l.batch.inserted, paths)
		return
	}
	for _, p := range paths {
		l.counts[p.Group]++
	}
	l.log.Info("Items inserted", slog.Any("paths", paths))
}

// DeleteItems logs deleted positions.
func (l *LogGrid) DeleteItems(paths []IndexPath) {
	l.mx.Lock()
	defer l.mx.Unlock()

	if l.batch != nil {
		record(l.batch.deleted, paths)
		return
	}
	for _, p := range paths {
		l.counts[p.Group]--
	}
	l.log.Info("Items deleted", slog.Any("paths", paths))
}

// ReloadItems logs the reloaded cells. Inside a batch they are logged once
// the batch is applied.
func (l *LogGrid) ReloadItems(paths []IndexPath) {
	l.mx.Lock()
	if l.batch != nil {
		record(l.batch.reloaded, paths)
		l.mx.Unlock()
		return
	}
	sources := make(map[int]DataSource, len(paths))
	for _, p := range paths {
		sources[p.Group] = l.sources[p.Group]
	}
	l.mx.Unlock()

	for _, p := range paths {
		ds := sources[p.Group]
		if ds == nil {
			continue
		}
		l.logCell(ds, p, "Item reloaded")
	}
}

// ReloadData resyncs every group count.
func (l *LogGrid) ReloadData() {
	l.mx.Lock()
	groups := make([]int, 0, len(l.sources))
	for g, ds := range l.sources {
		l.counts[g] = ds.ItemCount(g)
		groups = append(groups, g)
	}
	slices.Sort(groups)
	l.mx.Unlock()

	for _, g := range groups {
		l.log.Info("Group reloaded", slog.Int("group", g), slog.Int("items", l.Count(g)))
	}
}

// apply checks a batch against the data sources. Callers hold mx.
func (l *LogGrid) apply(b *batch) error {
	for _, g := range b.groups() {
		ds, ok := l.sources[g]
		if !ok {
			continue
		}
		n := l.counts[g] - distinct(b.deleted[g]) + distinct(b.inserted[g])
		if want := ds.ItemCount(g); n != want {
			return fmt.Errorf("%w: group %d holds %d items, source reports %d", ErrInconsistentUpdate, g, n, want)
		}
		l.counts[g] = n
	}

	return nil
}

func (l *LogGrid) logReloaded(b *batch) {
	var paths []IndexPath
	for _, g := range b.groups() {
		for _, i := range b.reloaded[g] {
			paths = append(paths, IndexPath{Group: g, Item: i})
		}
	}
	if len(paths) > 0 {
		l.ReloadItems(paths)
	}
}

func (l *LogGrid) dump(group int, ds DataSource, n int) {
	if !l.log.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	for i := range n {
		l.logCell(ds, IndexPath{Group: group, Item: i}, "Item loaded")
	}
}

func (l *LogGrid) logCell(ds DataSource, p IndexPath, msg string) {
	c, err := ds.Cell(p.Group, p.Item)
	if err != nil || c == nil {
		l.log.Warn("Unable to render cell", slog.String("path", p.String()), slog.Any("error", err))
		return
	}
	l.log.Debug(msg, slog.String("path", p.String()), slog.String("text", c.Text))
}

func distinct(ii []int) int {
	ii = slices.Clone(ii)
	slices.Sort(ii)
	return len(slices.Compact(ii))
}
