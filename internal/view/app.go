// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2024 a1s Contributors

package view

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/a1s/gridbuf/internal/config"
	"github.com/a1s/gridbuf/internal/dao"
	"github.com/a1s/gridbuf/internal/model1"
	"github.com/a1s/gridbuf/internal/ui"
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

const (
	// FlashDelay sets the flash auto-clear delay.
	FlashDelay = 5 * time.Second

	titleFmt       = " [aqua::b]%s[white::-]<[orange::b]%s[white::-]>[[aqua::b]%d[white::-]] "
	titleFilterFmt = " [aqua::b]%s[white::-]<[orange::b]%s[white::-]>[[aqua::b]%d[white::-]] [yellow::]/%s "
)

// FlashLevel represents flash message severity.
type FlashLevel int

const (
	// FlashInfo represents an info message.
	FlashInfo FlashLevel = iota
	// FlashWarn represents a warning message.
	FlashWarn
	// FlashErr represents an error message.
	FlashErr
)

// Flash handles flash messages in the application.
type Flash struct {
	*tview.TextView
	app    *App
	cancel context.CancelFunc
	mx     sync.RWMutex
}

// NewFlash creates a new Flash instance.
func NewFlash(app *App) *Flash {
	f := &Flash{
		TextView: tview.NewTextView(),
		app:      app,
	}
	f.SetDynamicColors(true)
	f.SetTextAlign(tview.AlignLeft)
	f.SetBorderPadding(0, 0, 1, 1)
	return f
}

// Info displays an informational message.
func (f *Flash) Info(msg string) {
	f.setMessage(FlashInfo, msg)
}

// Infof displays a formatted informational message.
func (f *Flash) Infof(format string, args ...interface{}) {
	f.Info(fmt.Sprintf(format, args...))
}

// Warn displays a warning message.
func (f *Flash) Warn(msg string) {
	f.setMessage(FlashWarn, msg)
}

// Err displays an error message.
func (f *Flash) Err(err error) {
	if err != nil {
		f.setMessage(FlashErr, err.Error())
	}
}

// Clear clears the flash message.
func (f *Flash) Clear() {
	f.mx.Lock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.mx.Unlock()

	f.app.queueDraw(func() {
		f.TextView.Clear()
	})
}

func (f *Flash) setMessage(level FlashLevel, msg string) {
	f.mx.Lock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.mx.Unlock()

	if msg == "" {
		f.Clear()
		return
	}

	f.app.queueDraw(func() {
		f.TextView.Clear()
		f.SetTextColor(flashColor(level))
		fmt.Fprintf(f.TextView, "%s %s", flashPrefix(level), tview.Escape(msg))
	})

	ctx, cancel := context.WithCancel(context.Background())
	f.mx.Lock()
	f.cancel = cancel
	f.mx.Unlock()

	go f.autoClear(ctx)
}

func (f *Flash) autoClear(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(FlashDelay):
		f.Clear()
	}
}

func flashColor(level FlashLevel) tcell.Color {
	switch level {
	case FlashWarn:
		return tcell.ColorYellow
	case FlashErr:
		return tcell.ColorRed
	default:
		return tcell.ColorGreen
	}
}

func flashPrefix(level FlashLevel) string {
	switch level {
	case FlashWarn:
		return "[WARN]"
	case FlashErr:
		return "[ERROR]"
	default:
		return "[INFO]"
	}
}

// App represents the main application container.
type App struct {
	*tview.Application

	cfg      *config.Config
	version  string
	grid     *ui.Grid
	prompt   *ui.Prompt
	menu     *ui.Menu
	flash    *Flash
	browser  *Browser
	source   string
	count    int
	cancelFn context.CancelFunc
	log      *slog.Logger
	mx       sync.RWMutex
}

// NewApp creates a new application instance.
func NewApp(cfg *config.Config, version string, log *slog.Logger) *App {
	if log == nil {
		log = slog.Default()
	}
	app := &App{
		Application: tview.NewApplication(),
		cfg:         cfg,
		version:     version,
		grid:        ui.NewGrid(cfg.Gridbuf.UI.Columns),
		prompt:      ui.NewPrompt(),
		menu:        ui.NewMenu(ui.DefaultMenuRows),
		log:         log,
	}
	app.flash = NewFlash(app)

	app.Application.SetInputCapture(app.keyboard)
	app.prompt.SetChangeFn(app.applyFilter)
	app.prompt.SetDoneFn(func(text string, ok bool) {
		if !ok {
			app.applyFilter("")
		}
	})

	return app
}

// Init wires accessor rows into the grid and builds the layout.
func (a *App) Init(accessor dao.Accessor) error {
	a.grid.Init()
	a.grid.SetLogger(a.log)

	src := a.cfg.Gridbuf.CurrentSource()
	a.source = src.String()
	a.grid.SetGroupTitle(0, src.Kind)

	b, err := NewBrowser(accessor, a.grid, a.cfg.Gridbuf, a.Dispatch, a.log)
	if err != nil {
		return fmt.Errorf("failed to create browser: %w", err)
	}
	b.SetListener(a)
	a.browser = b

	a.bindKeys()
	a.menu.Hydrate(a.grid)
	a.updateTitle()

	a.SetRoot(a.buildLayout(), true)
	a.SetFocus(a.grid)
	a.EnableMouse(a.cfg.Gridbuf.UI.EnableMouse)

	return nil
}

// Run starts the application.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	a.mx.Lock()
	a.cancelFn = cancel
	a.mx.Unlock()

	go func() {
		if err := a.browser.Start(ctx); err != nil {
			a.log.Error("Initial load failed", slog.Any("error", err))
		}
	}()
	defer a.browser.Stop()
	defer cancel()

	return a.Application.Run()
}

// Stop stops the application.
func (a *App) Stop() {
	a.mx.Lock()
	defer a.mx.Unlock()

	if a.cancelFn != nil {
		a.cancelFn()
	}
	a.Application.Stop()
}

// queueDraw hands fn to the UI thread without blocking the caller.
func (a *App) queueDraw(fn func()) {
	go a.Application.QueueUpdateDraw(fn)
}

// Dispatch hands fn to the UI thread. Calls are delivered in order.
func (a *App) Dispatch(fn func()) {
	a.Application.QueueUpdateDraw(fn)
}

// BrowserLoaded implements BrowserListener.
func (a *App) BrowserLoaded(count int, events *model1.RowEvents) {
	a.mx.Lock()
	a.count = count
	a.mx.Unlock()

	a.updateTitle()
	if n := events.Count(model1.EventAdd | model1.EventUpdate | model1.EventDelete); n > 0 {
		a.flash.Infof("%d changes (+%d ~%d -%d)", n,
			events.Count(model1.EventAdd), events.Count(model1.EventUpdate), events.Count(model1.EventDelete))
	}
}

// BrowserFailed implements BrowserListener.
func (a *App) BrowserFailed(err error) {
	a.flash.Err(err)
}

func (a *App) buildLayout() *tview.Flex {
	bottomBar := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.flash, 1, 0, false).
		AddItem(a.menu, 2, 0, false)

	return tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.prompt, 1, 0, false).
		AddItem(a.grid, 0, 1, true).
		AddItem(bottomBar, 3, 0, false)
}

func (a *App) bindKeys() {
	a.grid.Actions().Bulk(ui.KeyMap{
		ui.KeyR:        ui.NewKeyAction("Refresh", a.refreshCmd, true),
		ui.KeyS:        ui.NewKeyAction("Sort", a.sortCmd, true),
		ui.KeyD:        ui.NewKeyAction("Detail", a.detailCmd, true),
		ui.KeySlash:    ui.NewKeyAction("Filter", a.filterCmd, true),
		tcell.KeyEnter: ui.NewKeyAction("Describe", a.describeCmd, true),
		tcell.KeyEsc:   ui.NewKeyAction("Clear Filter", a.clearFilterCmd, false),
	})
}

// keyboard handles global keyboard events.
func (a *App) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	if a.prompt.IsActive() {
		return a.prompt.HandleKey(evt)
	}

	switch ui.AsKey(evt) {
	case ui.KeyQ, tcell.KeyCtrlC:
		a.Stop()
		return nil
	}

	return evt
}

func (a *App) refreshCmd(*tcell.EventKey) *tcell.EventKey {
	a.flash.Info("Refreshing...")
	go func() {
		if err := a.browser.Refresh(context.Background()); err != nil {
			a.flash.Err(err)
		}
	}()

	return nil
}

func (a *App) sortCmd(*tcell.EventKey) *tcell.EventKey {
	col := a.browser.CycleSort()
	_, asc := a.browser.SortColumn()
	dir := "asc"
	if !asc {
		dir = "desc"
	}
	a.flash.Infof("Sorted by %s %s", col, dir)

	return nil
}

func (a *App) detailCmd(*tcell.EventKey) *tcell.EventKey {
	if col := a.browser.CycleDetail(); col != "" {
		a.flash.Infof("Showing %s", col)
	}

	return nil
}

func (a *App) filterCmd(*tcell.EventKey) *tcell.EventKey {
	a.prompt.Activate()

	return nil
}

func (a *App) clearFilterCmd(*tcell.EventKey) *tcell.EventKey {
	if a.browser.Filter() != "" {
		a.applyFilter("")
	}

	return nil
}

func (a *App) describeCmd(*tcell.EventKey) *tcell.EventKey {
	path, ok := a.grid.Selected()
	if !ok {
		return nil
	}
	desc, err := a.browser.Describe(path.Item)
	if err != nil {
		a.flash.Err(err)
		return nil
	}
	a.flash.Info(desc)

	return nil
}

func (a *App) applyFilter(text string) {
	a.browser.SetFilter(text)
	a.updateTitle()
}

func (a *App) updateTitle() {
	a.mx.RLock()
	source, count := a.source, a.count
	a.mx.RUnlock()

	name := config.AppName
	if f := a.browser.Filter(); f != "" {
		a.grid.SetTitle(fmt.Sprintf(titleFilterFmt, name, source, count, f))
		return
	}
	a.grid.SetTitle(fmt.Sprintf(titleFmt, name, source, count))
}
