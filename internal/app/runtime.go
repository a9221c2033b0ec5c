package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/appengine-ltd/mine-anything/internal/config"
	"github.com/appengine-ltd/mine-anything/internal/debugcmd"
	"github.com/appengine-ltd/mine-anything/internal/debugws"
	"github.com/appengine-ltd/mine-anything/internal/game"
	"github.com/appengine-ltd/mine-anything/internal/logging"
	"github.com/appengine-ltd/mine-anything/internal/page"
	"github.com/appengine-ltd/mine-anything/internal/store"
)

const (
	syntheticHost     = "synthetic.local"
	syntheticElements = 40
	hudFeedSize       = 8
)

type Options struct {
	// ConfigPath defaults to ~/.mine-anything/config.yaml.
	ConfigPath string
	// LogWriter, when set, replaces the session log file.
	LogWriter io.Writer
	// Component names the log lines of this process.
	Component string
	// Start is the initial time of the frame clock; zero means now.
	Start time.Time
}

// Runtime is one wired engine: config, log, store, user settings and the
// debug dispatcher. Scheduled engine work runs on a frame clock that only
// moves in Step, so page mutations happen on the host's goroutine.
type Runtime struct {
	Config     config.AppConfig
	ConfigPath string
	Log        *logging.Logger
	Store      store.Closer
	Clock      *game.ManualClock
	Events     *EventQueue
	HUD        *HUD
	Engine     *game.Engine
	Controller *game.Controller
	Debug      *debugcmd.Dispatcher
	Settings   config.Settings
	Blocklist  *config.Blocklist
	Assets     game.AssetResolver

	doc  *page.Document
	host string
}

// Open loads configuration and the stored profile. Settings and blocklist
// problems are logged and replaced by defaults; store failures are fatal.
func Open(ctx context.Context, opts Options) (*Runtime, error) {
	path := opts.ConfigPath
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	component := opts.Component
	if component == "" {
		component = "app"
	}

	var log *logging.Logger
	if opts.LogWriter != nil {
		log = logging.NewWriter(opts.LogWriter, component, cfg.Level())
	} else {
		// New falls back to stderr and has already reported why.
		log, _ = logging.New(cfg.LogDir, component, cfg.Level())
	}

	st, err := store.Open(ctx, cfg.StoreDriver, cfg.StorePath)
	if err != nil {
		_ = log.Close()
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}

	settings, err := config.LoadSettings(ctx, st)
	if err != nil {
		log.Warnf("settings: %v", err)
	}
	blocklist, err := config.LoadBlocklist(ctx, st)
	if err != nil {
		log.Warnf("blocklist: %v", err)
	}

	start := opts.Start
	if start.IsZero() {
		start = time.Now()
	}
	r := &Runtime{
		Config:     cfg,
		ConfigPath: path,
		Log:        log,
		Store:      st,
		Clock:      game.NewManualClock(start),
		Events:     NewEventQueue(0),
		HUD:        NewHUD(hudFeedSize),
		Settings:   settings,
		Blocklist:  blocklist,
	}
	if cfg.AssetsDir != "" {
		r.Assets = DirAssets(cfg.AssetsDir)
	}
	r.Engine = game.New(game.Options{
		Store:        st,
		Clock:        r.Clock,
		Rand:         game.NewRand(cfg.Seed),
		Logger:       log.With("engine"),
		Notifier:     r.Events,
		TickInterval: cfg.Tick(),
	})
	if err := r.Engine.Load(ctx); err != nil {
		r.Close()
		return nil, fmt.Errorf("load profile: %w", err)
	}
	r.Controller = game.NewController(r.Engine, settings.MiningShortcut, r.Events)
	r.Debug = debugcmd.New(r.Engine, log.With("debugcmd"))
	log.Infof("runtime ready: store=%s seed=%d tick=%s", cfg.StoreDriver, cfg.Seed, cfg.Tick())
	return r, nil
}

// OpenPage parses an HTML file, or generates a page when path is empty.
// host is derived from the file name when not given.
func OpenPage(path, host string, seed int64) (*page.Document, string, error) {
	if path == "" {
		if host == "" {
			host = syntheticHost
		}
		return page.Synthetic(syntheticElements, seed), host, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	doc, err := page.Parse(f)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	if host == "" {
		host = "file." + filepath.Base(path)
	}
	return doc, host, nil
}

// Navigate binds doc to the engine. Mining stays disabled on blocked
// hosts. It reports whether the host is blocked.
func (r *Runtime) Navigate(doc *page.Document, host string) bool {
	r.doc, r.host = doc, config.NormalizeHost(host)
	r.Engine.Navigate(doc, r.host)
	r.HUD.Reset()
	blocked := r.Blocklist.Blocked(r.host)
	r.Engine.SetDisabled(blocked)
	if blocked {
		r.Log.Infof("mining disabled on blocked host %s", r.host)
	}
	return blocked
}

func (r *Runtime) Document() *page.Document { return r.doc }
func (r *Runtime) Host() string             { return r.host }

// ToggleBlocked flips the current host on the blocklist and persists it.
func (r *Runtime) ToggleBlocked(ctx context.Context) (bool, error) {
	if r.host == "" {
		return false, errors.New("no page loaded")
	}
	blocked, err := r.Blocklist.Toggle(r.host)
	if err != nil {
		return false, err
	}
	if err := r.Blocklist.Save(ctx, r.Store); err != nil {
		return blocked, err
	}
	r.Engine.SetDisabled(blocked)
	return blocked, nil
}

// SaveSettings persists s and applies the shortcut to the controller.
func (r *Runtime) SaveSettings(ctx context.Context, s config.Settings) error {
	if err := config.SaveSettings(ctx, r.Store, s); err != nil {
		return err
	}
	r.Settings = s
	r.Controller.SetShortcut(s.MiningShortcut)
	return nil
}

// Step advances the frame clock by d, running due engine callbacks, and
// folds the resulting events into the HUD.
func (r *Runtime) Step(d time.Duration) []game.Event {
	if d > 0 {
		r.Clock.Advance(d)
	}
	r.Engine.Sweep()
	events := r.Events.Drain()
	now := r.Clock.Now()
	for _, ev := range events {
		r.HUD.Apply(ev, now)
	}
	return events
}

// Act answers an encounter and resets page state after a retreat.
func (r *Runtime) Act(enc Encounter, choice int) (string, error) {
	msg, err := Act(r.Engine, enc, choice)
	if err == nil && enc.Kind == game.SpawnWarden && choice != 0 {
		r.HUD.Reset()
	}
	return msg, err
}

// ServeDebug runs the websocket debug console until ctx ends. It returns
// nil at once when no address is configured.
func (r *Runtime) ServeDebug(ctx context.Context) error {
	if r.Config.DebugAddr == "" {
		return nil
	}
	return debugws.Serve(ctx, r.Config.DebugAddr, debugws.NewHandler(r.Debug, r.Log.With("debugws")))
}

func (r *Runtime) Close() error {
	var errs []error
	if r.Store != nil {
		errs = append(errs, r.Store.Close())
	}
	if r.Log != nil {
		errs = append(errs, r.Log.Close())
	}
	return errors.Join(errs...)
}

// DirAssets resolves <root>/<dir>/<name>.png.
type DirAssets string

func (d DirAssets) Resolve(dir, name string) (string, error) {
	p := filepath.Join(string(d), dir, name+".png")
	if _, err := os.Stat(p); err != nil {
		return "", err
	}
	return p, nil
}
