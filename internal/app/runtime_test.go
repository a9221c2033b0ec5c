package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appengine-ltd/mine-anything/internal/game"
	"github.com/appengine-ltd/mine-anything/internal/page"
)

const testPage = `<html><body>
<div id="card" style="height:100px;background-color:#333333">stone</div>
<p id="para">short text</p>
</body></html>`

func openTestRuntime(t *testing.T, extra string) (*Runtime, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	yaml := "store_driver: memory\nlog_level: debug\nseed: 7\ntick_ms: 16\n" + extra
	require.NoError(t, os.WriteFile(cfgPath, []byte(yaml), 0o600))

	var logs bytes.Buffer
	r, err := Open(context.Background(), Options{
		ConfigPath: cfgPath,
		LogWriter:  &logs,
		Start:      time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r, &logs
}

func TestOpenLoadsConfigAndProfile(t *testing.T) {
	r, logs := openTestRuntime(t, "")
	assert.Equal(t, "memory", r.Config.StoreDriver)
	assert.Equal(t, int64(7), r.Config.Seed)
	assert.Equal(t, []string{"Alt"}, r.Controller.Shortcut())
	assert.Equal(t, game.ToolHand, r.Engine.Profile().CurrentTool)
	assert.Contains(t, logs.String(), "runtime ready: store=memory seed=7")
}

func TestOpenRejectsBadConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("store_driver: floppy\n"), 0o600))
	_, err := Open(context.Background(), Options{ConfigPath: cfgPath, LogWriter: &bytes.Buffer{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floppy")
}

func TestStepMinesToCompletion(t *testing.T) {
	r, _ := openTestRuntime(t, "")
	doc, err := page.ParseString(testPage)
	require.NoError(t, err)
	require.False(t, r.Navigate(doc, "Example.COM:8080"))
	assert.Equal(t, "example.com", r.Host())

	card := doc.ByID("card")
	require.NotNil(t, card)
	r.Controller.Toggle()
	require.NoError(t, r.Controller.MouseDown(0, card))

	r.Step(time.Second)
	assert.Same(t, card, r.HUD.Target)
	assert.Greater(t, r.HUD.Progress, 0.0)

	r.Step(5 * time.Second)
	assert.Nil(t, r.HUD.Target)
	assert.Equal(t, 1, r.HUD.MinedOnPage)
	assert.False(t, card.Visible())
	assert.Equal(t, 1, r.Engine.Profile().TotalMined)
	assert.True(t, r.HUD.MiningMode)
}

func TestBlockedHostDisablesMining(t *testing.T) {
	r, _ := openTestRuntime(t, "")
	doc, err := page.ParseString(testPage)
	require.NoError(t, err)
	r.Navigate(doc, "news.example.com")

	blocked, err := r.ToggleBlocked(context.Background())
	require.NoError(t, err)
	assert.True(t, blocked)
	assert.True(t, r.Engine.Disabled())

	assert.True(t, r.Navigate(doc, "news.example.com"))
	r.Controller.Toggle()
	assert.ErrorIs(t, r.Controller.MouseDown(0, doc.ByID("card")), game.ErrDisabled)

	blocked, err = r.ToggleBlocked(context.Background())
	require.NoError(t, err)
	assert.False(t, blocked)
	assert.False(t, r.Engine.Disabled())
}

func TestSaveSettingsUpdatesShortcut(t *testing.T) {
	r, _ := openTestRuntime(t, "")
	s := r.Settings
	s.MiningShortcut = []string{"Control", "Shift"}
	require.NoError(t, r.SaveSettings(context.Background(), s))
	assert.Equal(t, []string{"Control", "Shift"}, r.Controller.Shortcut())

	raw, err := r.Store.Get(context.Background(), game.KeySettings)
	require.NoError(t, err)
	assert.Contains(t, string(raw[game.KeySettings]), `"Control","Shift"`)
}

func TestDebugDispatcherWired(t *testing.T) {
	r, _ := openTestRuntime(t, "")
	lines, err := r.Debug.Run("add-xp 25")
	require.NoError(t, err)
	assert.Equal(t, []string{"Added 25 XP. Total: 25"}, lines)
	assert.Equal(t, 25, r.Engine.Profile().XP)
}

func TestServeDebugWithoutAddressReturns(t *testing.T) {
	r, _ := openTestRuntime(t, "")
	assert.NoError(t, r.ServeDebug(context.Background()))
}

func TestOpenPage(t *testing.T) {
	doc, host, err := OpenPage("", "", 3)
	require.NoError(t, err)
	assert.Equal(t, "synthetic.local", host)
	assert.NotEmpty(t, doc.Elements())

	dir := t.TempDir()
	path := filepath.Join(dir, "quarry.html")
	require.NoError(t, os.WriteFile(path, []byte(testPage), 0o600))
	doc, host, err = OpenPage(path, "", 0)
	require.NoError(t, err)
	assert.Equal(t, "file.quarry.html", host)
	assert.NotNil(t, doc.ByID("para"))

	_, _, err = OpenPage(filepath.Join(dir, "missing.html"), "", 0)
	assert.Error(t, err)
}

func TestDirAssets(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "pets", "cat.png"), []byte("png"), 0o600))

	a := DirAssets(root)
	got, err := a.Resolve("pets", "cat")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "pets", "cat.png"), got)
	assert.Equal(t, "🐱", game.ResolveIcon(a, nil, "pets", "dog", "🐱"))
}
