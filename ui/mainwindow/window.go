// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"rectlink/internal/app"
	"rectlink/internal/logging"
	"rectlink/internal/version"
	"rectlink/pkg/geometry"
	"rectlink/ui/canvas"
	"rectlink/ui/prefs"
)

// Config configures a MainWindow.
type Config struct {
	// Canvas is the initial canvas size, used when no size was saved.
	Canvas geometry.Size
	State  app.Options
	Prefs  *prefs.Prefs
	Logger *zap.Logger
}

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	state     *app.State
	canvas    *canvas.NodeCanvas
	prefs     *prefs.Prefs
	log       *zap.Logger
	statusBar *widget.Label
	statusBox fyne.CanvasObject
	reloader  *app.HotReloader

	// Menu items that need state tracking
	statusItem *fyne.MenuItem
}

// New creates the main window with an empty canvas.
func New(fyneApp fyne.App, cfg Config) *MainWindow {
	if cfg.Prefs == nil {
		cfg.Prefs = prefs.Load()
	}
	win := fyneApp.NewWindow("RectLink")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		prefs:  cfg.Prefs,
		log:    logging.OrNop(cfg.Logger),
	}

	mw.canvas = canvas.NewNodeCanvas(cfg.Canvas)
	mw.state = app.NewState(mw.canvas.Surface(), cfg.State)
	mw.canvas.Bind(mw.state)

	mw.setupUI(cfg.Canvas)
	mw.setupMenus()
	mw.setupEventHandlers()

	return mw
}

// State returns the controller behind the canvas.
func (mw *MainWindow) State() *app.State {
	return mw.state
}

// setupUI creates the layout and restores the saved window size.
func (mw *MainWindow) setupUI(initial geometry.Size) {
	mw.statusBar = widget.NewLabel(mw.state.Snapshot().Summary())
	mw.statusBox = container.NewPadded(mw.statusBar)
	if !mw.prefs.Bool(prefs.KeyShowStatus, true) {
		mw.statusBox.Hide()
	}

	content := container.NewBorder(
		nil,          // top
		mw.statusBox, // bottom
		nil,          // left
		nil,          // right
		mw.canvas,    // center
	)
	mw.SetContent(content)

	w := mw.prefs.Int(prefs.KeyWindowWidth, initial.Width)
	h := mw.prefs.Int(prefs.KeyWindowHeight, initial.Height)
	mw.Resize(fyne.NewSize(float32(w), float32(h)))

	mw.SetCloseIntercept(mw.onClose)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Quit", mw.onClose),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Cancel Link", mw.state.CancelLink),
	)

	mw.statusItem = fyne.NewMenuItem("Status Bar", mw.onToggleStatusBar)
	mw.statusItem.Checked = mw.statusBox.Visible()
	viewMenu := fyne.NewMenu("View", mw.statusItem)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu))
}

// setupEventHandlers keeps the status bar in sync with the controller.
func (mw *MainWindow) setupEventHandlers() {
	refresh := func(interface{}) { mw.updateStatus(mw.state.Snapshot().Summary()) }
	mw.state.OnChange(refresh)
	mw.state.On(app.EventDragStarted, refresh)

	mw.state.On(app.EventPlacementRejected, func(data interface{}) {
		if err, ok := data.(error); ok {
			mw.updateStatus(mw.state.Snapshot().Summary() + " | " + err.Error())
		}
	})

	mw.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			mw.state.CancelLink()
		}
	})
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// WatchBinary asks to restart when reloader reports a rebuilt executable.
// The reloader is stopped when the window closes.
func (mw *MainWindow) WatchBinary(reloader *app.HotReloader) {
	mw.reloader = reloader
	reloader.OnNewBinary(func() {
		dialog.ShowConfirm("New Build Available",
			"A newer version of RectLink was built. Restart now?",
			func(restart bool) {
				if !restart {
					reloader.ResetBaseline()
					return
				}
				mw.savePrefs()
				if err := reloader.Restart(); err != nil {
					dialog.ShowError(fmt.Errorf("restart failed: %w", err), mw.Window)
				}
			}, mw.Window)
	})
	reloader.Start()
}

func (mw *MainWindow) savePrefs() {
	size := mw.Canvas().Size()
	mw.prefs.SetInt(prefs.KeyWindowWidth, int(size.Width))
	mw.prefs.SetInt(prefs.KeyWindowHeight, int(size.Height))
	mw.prefs.SetBool(prefs.KeyShowStatus, mw.statusBox.Visible())
	if err := mw.prefs.Save(); err != nil {
		mw.log.Warn("failed to save preferences", zap.Error(err))
	}
}

// Menu action handlers

func (mw *MainWindow) onClose() {
	mw.savePrefs()
	if mw.reloader != nil {
		mw.reloader.Stop()
	}
	mw.Close()
}

func (mw *MainWindow) onToggleStatusBar() {
	if mw.statusBox.Visible() {
		mw.statusBox.Hide()
	} else {
		mw.statusBox.Show()
	}
	mw.statusItem.Checked = mw.statusBox.Visible()
	mw.MainMenu().Refresh()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About RectLink",
		fmt.Sprintf("RectLink %s\n\n"+
			"Double-click to place a node, drag to move it,\n"+
			"right-click two nodes to connect them and\n"+
			"right-click a line to remove it.",
			version.String()),
		mw.Window)
}
