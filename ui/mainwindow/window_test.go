package mainwindow

import (
	"os"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rectlink/internal/app"
	"rectlink/pkg/geometry"
	"rectlink/ui/prefs"
)

func newWindow(t *testing.T, dir string) *MainWindow {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)

	return New(a, Config{
		Canvas: geometry.NewSize(640, 480),
		State:  app.Options{NodeHeight: 40},
		Prefs:  prefs.LoadFrom(dir),
	})
}

func TestStatusFollowsState(t *testing.T) {
	mw := newWindow(t, t.TempDir())
	mw.canvas.Resize(fyne.NewSize(640, 480))
	assert.Equal(t, "0 nodes, 0 connections", mw.statusBar.Text)

	mw.State().OnPrimaryDoubleClick(geometry.Pt(100, 100))
	assert.Equal(t, "1 nodes, 0 connections", mw.statusBar.Text)

	mw.State().OnSecondaryDown(geometry.Pt(100, 100))
	assert.Equal(t, "1 nodes, 0 connections | linking from node 0", mw.statusBar.Text)

	mw.State().CancelLink()
	assert.Equal(t, "1 nodes, 0 connections", mw.statusBar.Text)

	mw.State().OnPrimaryDoubleClick(geometry.Pt(110, 110))
	assert.Contains(t, mw.statusBar.Text, "1 nodes, 0 connections | ")
}

func TestCloseSavesPreferences(t *testing.T) {
	dir := t.TempDir()
	mw := newWindow(t, dir)

	mw.onToggleStatusBar()
	assert.False(t, mw.statusItem.Checked)
	mw.onClose()

	saved := prefs.LoadFrom(dir)
	assert.False(t, saved.Bool(prefs.KeyShowStatus, true))
	require.Positive(t, saved.Int(prefs.KeyWindowWidth, 0))
}

func TestCloseStopsReloader(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "rectlink")
	require.NoError(t, os.WriteFile(bin, []byte("v1"), 0o755))

	reloader, err := app.NewHotReloader(bin, nil)
	require.NoError(t, err)

	mw := newWindow(t, dir)
	mw.WatchBinary(reloader)
	mw.onClose()

	select {
	case <-reloader.Done():
	default:
		t.Fatal("reloader still running after close")
	}
}

func TestStatusBarVisibilityRestored(t *testing.T) {
	dir := t.TempDir()
	p := prefs.LoadFrom(dir)
	p.SetBool(prefs.KeyShowStatus, false)
	require.NoError(t, p.Save())

	mw := newWindow(t, dir)
	assert.False(t, mw.statusBox.Visible())
	assert.False(t, mw.statusItem.Checked)
}
