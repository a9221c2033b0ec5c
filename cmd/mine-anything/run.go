package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/appengine-ltd/mine-anything/internal/app"
)

// version, commit, date are injected at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type options struct {
	showVersion bool
	configPath  string
	pagePath    string
	host        string
	terminal    bool
}

func parseFlags() options {
	var o options
	flag.BoolVar(&o.showVersion, "version", false, "print version and exit")
	flag.StringVar(&o.configPath, "config", "", "config file (default ~/.mine-anything/config.yaml)")
	flag.StringVar(&o.pagePath, "page", "", "HTML file to mine (default: a generated page)")
	flag.StringVar(&o.host, "host", "", "site host the page is treated as coming from")
	flag.BoolVar(&o.terminal, "tui", false, "use the terminal interface")
	flag.Parse()
	return o
}

// start opens the runtime, binds the page and serves the debug socket
// when configured. The returned stop cancels the socket and closes the
// runtime.
func start(o options, component string) (*app.Runtime, func(), error) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	rt, err := app.Open(ctx, app.Options{ConfigPath: o.configPath, Component: component})
	if err != nil {
		cancel()
		return nil, nil, err
	}
	doc, host, err := app.OpenPage(o.pagePath, o.host, rt.Config.Seed)
	if err != nil {
		cancel()
		_ = rt.Close()
		return nil, nil, err
	}
	rt.Navigate(doc, host)

	go func() {
		if err := rt.ServeDebug(ctx); err != nil {
			rt.Log.Errorf("debug socket: %v", err)
		}
	}()

	stop := func() {
		cancel()
		if err := rt.Close(); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
	return rt, stop, nil
}

func printVersion() {
	fmt.Printf("Mine Anything %s (%s) %s\n", version, commit, date)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
