package root

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appengine-ltd/mine-anything/internal/update"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := fmt.Sprintf("store_driver: sqlite\nstore_path: %s\nlog_dir: %s\nlog_level: warn\nseed: 11\n",
		filepath.Join(dir, "save.db"), filepath.Join(dir, "logs"))
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return path
}

func run(t *testing.T, cfg string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", cfg}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestDebugChangesPersistAcrossCommands(t *testing.T) {
	cfg := writeConfig(t)
	out, err := run(t, cfg, "debug", "add-xp", "30")
	require.NoError(t, err)
	assert.Contains(t, out, "Added 30 XP. Total: 30")

	out, err = run(t, cfg, "profile", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "XP 30")
	assert.Contains(t, out, "Coal: 0")
}

func TestDebugUnknownCommandFails(t *testing.T) {
	_, err := run(t, writeConfig(t), "debug", "add-xpp", "3")
	assert.Error(t, err)
}

func TestProfileResetNeedsConfirmation(t *testing.T) {
	cfg := writeConfig(t)
	_, err := run(t, cfg, "debug", "add-xp", "10")
	require.NoError(t, err)

	_, err = run(t, cfg, "profile", "reset")
	require.Error(t, err)

	_, err = run(t, cfg, "profile", "reset", "--yes")
	require.NoError(t, err)
	out, err := run(t, cfg, "profile", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "XP 0")
}

func TestProfileExportImportMigrates(t *testing.T) {
	cfg := writeConfig(t)
	legacy := filepath.Join(t.TempDir(), "old.json")
	require.NoError(t, os.WriteFile(legacy, []byte(`{"totalMined":4,"xp":120,"currentTool":"hand","inventory":{"coal":2}}`), 0o600))

	out, err := run(t, cfg, "profile", "import", legacy)
	require.NoError(t, err)
	assert.Contains(t, out, "120 XP")
	assert.Contains(t, out, "migrated")

	exported := filepath.Join(t.TempDir(), "export.json")
	_, err = run(t, cfg, "profile", "export", "--out", exported)
	require.NoError(t, err)
	raw, err := os.ReadFile(exported)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.EqualValues(t, 120, got["xp"])
	assert.EqualValues(t, 4, got["totalMined"])
}

func TestBlockedLifecycle(t *testing.T) {
	cfg := writeConfig(t)
	_, err := run(t, cfg, "blocked", "add", "*.example.com")
	require.NoError(t, err)

	out, err := run(t, cfg, "blocked", "check", "news.example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "blocked")

	out, err = run(t, cfg, "blocked", "check", "example.org")
	require.NoError(t, err)
	assert.Contains(t, out, "allowed")

	out, err = run(t, cfg, "blocked", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "*.example.com")

	_, err = run(t, cfg, "blocked", "remove", "*.example.com")
	require.NoError(t, err)
	_, err = run(t, cfg, "blocked", "remove", "*.example.com")
	assert.Error(t, err)
}

func TestSettingsShortcutAndToggle(t *testing.T) {
	cfg := writeConfig(t)
	_, err := run(t, cfg, "settings", "set-shortcut", "ctrl+shift")
	require.NoError(t, err)
	_, err = run(t, cfg, "settings", "set-toggle", "top-right")
	require.NoError(t, err)
	_, err = run(t, cfg, "settings", "set-toggle", "middle")
	assert.Error(t, err)

	out, err := run(t, cfg, "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Control+Shift")
	assert.Contains(t, out, "top-right")
}

func TestSimulateWritesSnapshot(t *testing.T) {
	cfg := writeConfig(t)
	shot := filepath.Join(t.TempDir(), "page.png")
	out, err := run(t, cfg, "simulate", "--mines", "2", "--seed", "4", "--snapshot", shot)
	require.NoError(t, err)
	assert.Contains(t, out, "Mined: 2")
	assert.Contains(t, out, "synthetic.local")
	_, err = os.Stat(shot)
	assert.NoError(t, err)

	out, err = run(t, cfg, "profile", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Total mined: 2")
}

func TestSimulateRejectsZeroMines(t *testing.T) {
	_, err := run(t, writeConfig(t), "simulate", "--mines", "0")
	assert.Error(t, err)
}

func TestSchemaListsProfileFields(t *testing.T) {
	out, err := run(t, writeConfig(t), "schema")
	require.NoError(t, err)
	assert.Contains(t, out, "totalMined")
	assert.Contains(t, out, "enchantmentInventory")

	_, err = run(t, writeConfig(t), "schema", "weather")
	assert.Error(t, err)
}

func TestAssetsCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, writeConfig(t), "assets", "--out", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "textures written")
	_, err = os.Stat(filepath.Join(dir, "ui", "panel_9slice.png"))
	assert.NoError(t, err)
}

func TestUpdateReportsCurrentRelease(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `{"tag_name":"v%s","assets":[]}`, Version)
	}))
	defer srv.Close()

	prev := newUpdater
	newUpdater = func() *update.Updater {
		u := update.New("mactl")
		u.APIBase = srv.URL
		u.AllowedHosts = map[string]struct{}{"127.0.0.1": {}}
		u.Client = srv.Client()
		return u
	}
	defer func() { newUpdater = prev }()

	out, err := run(t, writeConfig(t), "update")
	require.NoError(t, err)
	assert.Contains(t, out, "Up to date (v"+Version+")")
}
