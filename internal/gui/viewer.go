// Package gui is the desktop shortcut viewer built on fyne.
package gui

import (
	"context"
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/Iron-Ham/shortcuts/internal/app"
	"github.com/Iron-Ham/shortcuts/internal/config"
	"github.com/Iron-Ham/shortcuts/internal/hotkey"
	"github.com/Iron-Ham/shortcuts/internal/logging"
	"github.com/Iron-Ham/shortcuts/internal/store"
	"github.com/Iron-Ham/shortcuts/internal/watch"
)

// Viewer is the main window. All fields are touched on the fyne UI
// goroutine only; other goroutines hand work over with fyne.Do.
type Viewer struct {
	fyneApp fyne.App
	win     fyne.Window
	appCtx  *app.Context
	logger  *logging.Logger
	cfg     config.GUIConfig

	current  *store.Store
	names    []string
	selected int

	list      *widget.List
	cards     *fyne.Container
	scroll    *container.Scroll
	status    *widget.Label
	reloadBtn *widget.Button
	syncBtn   *widget.Button
	agentBtn  *widget.Button

	visible bool
	runCtx  context.Context
	cancel  context.CancelFunc

	base      *logging.Logger
	listener  *hotkey.Listener
	watcher   *watch.Watcher
	closeOnce sync.Once
}

func newViewer(fa fyne.App, appCtx *app.Context, logger *logging.Logger) *Viewer {
	if logger == nil {
		logger = logging.NopLogger()
	}
	base := logger
	logger = logger.WithComponent("gui")
	logger.Debug("constructing viewer")

	cfg := appCtx.Config().GUI
	ctx, cancel := context.WithCancel(context.Background())
	v := &Viewer{
		fyneApp: fa,
		appCtx:  appCtx,
		logger:  logger,
		cfg:     cfg,
		current: appCtx.Store(),
		runCtx:  ctx,
		cancel:  cancel,
		base:    base,
	}

	v.win = fa.NewWindow(cfg.Title)
	v.win.Resize(fyne.NewSize(float32(cfg.Width), float32(cfg.Height)))
	v.win.SetContent(v.build())
	v.win.SetCloseIntercept(v.Close)
	return v
}

func (v *Viewer) build() fyne.CanvasObject {
	v.status = v.newStatusLabel()
	v.list = v.newCategoryList()
	v.cards = container.NewVBox()
	v.scroll = container.NewVScroll(v.cards)

	toolbar := v.newToolbar()
	split := container.NewHSplit(v.list, v.scroll)
	split.Offset = 0.25

	v.showStore(v.current)
	return container.NewBorder(toolbar, v.status, nil, nil, split)
}

func (v *Viewer) newStatusLabel() *widget.Label {
	v.logger.Debug("constructing status label")
	l := widget.NewLabel("")
	l.Truncation = fyne.TextTruncateEllipsis
	return l
}

func (v *Viewer) newCategoryList() *widget.List {
	v.logger.Debug("constructing category list")
	list := widget.NewList(
		func() int { return len(v.names) },
		func() fyne.CanvasObject { return widget.NewLabel("category") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < len(v.names) {
				obj.(*widget.Label).SetText(v.names[id])
			}
		},
	)
	list.OnSelected = func(id widget.ListItemID) {
		v.selectCategory(id)
	}
	return list
}

func (v *Viewer) newToolbar() fyne.CanvasObject {
	v.logger.Debug("constructing toolbar")
	v.reloadBtn = widget.NewButton("Reload", v.Reload)
	v.syncBtn = widget.NewButton("Sync", v.Sync)
	v.agentBtn = widget.NewButton("Agent", v.Agent)
	return container.NewHBox(v.reloadBtn, v.syncBtn, v.agentBtn)
}

// showStore swaps the displayed store, keeping the selected category when
// it still exists.
func (v *Viewer) showStore(s *store.Store) {
	var keep string
	if v.selected >= 0 && v.selected < len(v.names) {
		keep = v.names[v.selected]
	}

	v.current = s
	v.names = s.Names()
	v.selected = 0
	for i, name := range v.names {
		if name == keep {
			v.selected = i
			break
		}
	}
	v.list.Refresh()
	v.renderCategory()
	if len(v.names) > 0 {
		v.list.Select(v.selected)
	}
	v.status.SetText(fmt.Sprintf("%d categories, %d entries", s.Len(), s.EntryCount()))
}

func (v *Viewer) selectCategory(id int) {
	if id < 0 || id >= len(v.names) || id == v.selected && len(v.cards.Objects) > 0 {
		return
	}
	v.selected = id
	v.renderCategory()
}

// renderCategory rebuilds the cards for the selected category and points
// them at the scroll container.
func (v *Viewer) renderCategory() {
	v.cards.RemoveAll()
	if len(v.names) == 0 {
		v.cards.Add(widget.NewLabel("No shortcuts yet"))
		v.cards.Refresh()
		return
	}

	c, _ := v.current.Get(v.names[v.selected])
	if !c.IsList() {
		v.cards.Add(newScalarNote(c.ScalarText(), v.cfg.WrapWidth, v.logger))
	} else {
		for _, e := range c.Entries {
			v.cards.Add(newEntryCard(e, v.cfg.WrapWidth, v.logger))
		}
	}
	attached := attachScroller(v.cards, v.scroll)
	v.logger.Debug("category rendered", "category", c.Name, "cards", attached)
	v.cards.Refresh()
	v.scroll.ScrollToTop()
}

// Reload re-reads the store file. A load failure shows a non-blocking error
// dialog over the placeholder entry.
func (v *Viewer) Reload() {
	s, err := v.appCtx.Reload()
	v.showStore(s)
	if err != nil {
		v.showLoadError(err)
	}
}

func (v *Viewer) showLoadError(err error) {
	dialog.ShowError(fmt.Errorf("could not load shortcuts: %w", err), v.win)
}

// Sync runs the sync collaborator off the UI goroutine and reloads when it
// exits.
func (v *Viewer) Sync() {
	v.syncBtn.Disable()
	v.status.SetText("Syncing from cloud...")
	go func() {
		err := v.appCtx.SyncFromCloud()
		fyne.Do(func() {
			v.syncBtn.Enable()
			v.showStore(v.appCtx.Store())
			if err != nil {
				v.status.SetText(fmt.Sprintf("Sync failed: %v", err))
			}
			if loadErr := v.appCtx.LoadError(); loadErr != nil {
				v.showLoadError(loadErr)
			}
		})
	}()
}

// Agent hides the window while the agent collaborator runs and brings it
// back, reloaded, once it exits whatever the outcome.
func (v *Viewer) Agent() {
	v.Hide()
	started := v.appCtx.RunAgent(v.runCtx, func(err error) {
		fyne.Do(func() {
			v.Reload()
			v.Show()
			if err != nil {
				v.status.SetText(fmt.Sprintf("Agent exited: %v", err))
			}
		})
	})
	if !started {
		v.Show()
		v.status.SetText("Agent is already running")
	}
}

// Show brings the window to the front.
func (v *Viewer) Show() {
	v.visible = true
	v.win.Show()
	v.win.RequestFocus()
}

// Hide hides the window without touching the instance lock.
func (v *Viewer) Hide() {
	v.visible = false
	v.win.Hide()
}

// Toggle shows a hidden window and hides a visible one.
func (v *Viewer) Toggle() {
	if v.visible {
		v.Hide()
	} else {
		v.Show()
	}
}

// Close releases everything the viewer holds and quits the application.
func (v *Viewer) Close() {
	v.shutdown()
	v.fyneApp.Quit()
}

// shutdown stops background listeners and releases the instance lock.
func (v *Viewer) shutdown() {
	v.closeOnce.Do(func() {
		v.logger.Info("viewer closing")
		v.cancel()
		if v.listener != nil {
			if err := v.listener.Stop(); err != nil {
				v.logger.Warn("hotkey unregister failed", "error", err)
			}
		}
		if v.watcher != nil {
			v.watcher.Stop()
		}
		v.appCtx.Close()
	})
}

// startHotkey registers the global show/hide hotkey. Failure is not fatal:
// the viewer keeps working without it.
func (v *Viewer) startHotkey(cfg config.HotkeyConfig) {
	if !cfg.Enabled {
		return
	}
	l, err := hotkey.Listen(cfg.Combination, func() { fyne.Do(v.Toggle) }, v.base)
	if err != nil {
		v.logger.Warn("hotkey unavailable", "accelerator", cfg.Combination, "error", err)
		return
	}
	v.listener = l
}

// startWatcher reloads the store whenever the file changes on disk.
func (v *Viewer) startWatcher(path string) {
	if !v.cfg.AutoReload {
		return
	}
	w, err := watch.New(path, watch.WithLogger(v.base))
	if err != nil {
		v.logger.Warn("store watcher unavailable", "path", path, "error", err)
		return
	}
	w.OnEvent(func(ev watch.Event) {
		v.logger.Debug("store file event", "event", ev.String())
		fyne.Do(v.Reload)
	})
	w.Start()
	v.watcher = w
}
