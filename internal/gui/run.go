package gui

import (
	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"

	"github.com/Iron-Ham/shortcuts/internal/app"
	"github.com/Iron-Ham/shortcuts/internal/logging"
)

// AppID identifies the application to the desktop environment.
const AppID = "com.ironham.shortcuts"

// Run acquires the instance lock, syncs, shows the viewer and blocks until
// the window is closed. A duplicate instance gets a blocking error dialog and
// Run returns the ErrDuplicateInstance error so the caller can exit 1.
func Run(appCtx *app.Context, logger *logging.Logger) error {
	return run(fyneapp.NewWithID(AppID), appCtx, logger)
}

func run(fa fyne.App, appCtx *app.Context, logger *logging.Logger) error {
	if logger == nil {
		logger = logging.NopLogger()
	}
	cfg := appCtx.Config()

	if err := appCtx.Start(); err != nil {
		if app.IsDuplicate(err) {
			showFatal(fa, cfg.GUI.Title, err)
		}
		return err
	}

	if cfg.Cloud.SyncOnStartup {
		if err := appCtx.SyncFromCloud(); err != nil {
			logger.Warn("startup sync failed", "error", err)
		}
	} else {
		_, _ = appCtx.Reload()
	}

	v := newViewer(fa, appCtx, logger)
	if err := appCtx.LoadError(); err != nil {
		v.showLoadError(err)
	}
	v.startHotkey(cfg.Hotkey)
	v.startWatcher(cfg.StorePath())

	v.Show()
	fa.Run()
	v.shutdown()
	return nil
}

// showFatal shows err in a blocking dialog and returns once it is dismissed.
func showFatal(fa fyne.App, title string, err error) {
	w := fa.NewWindow(title)
	w.Resize(fyne.NewSize(420, 180))
	d := dialog.NewError(err, w)
	d.SetOnClosed(fa.Quit)
	w.SetCloseIntercept(fa.Quit)
	d.Show()
	w.ShowAndRun()
}
