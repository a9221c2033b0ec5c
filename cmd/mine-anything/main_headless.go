//go:build !cgo

package main

import (
	"github.com/appengine-ltd/mine-anything/internal/ui"
)

// Without cgo there is no window; the terminal interface always runs.
func main() {
	o := parseFlags()
	if o.showVersion {
		printVersion()
		return
	}

	rt, stop, err := start(o, "tui")
	if err != nil {
		fail(err)
	}
	defer stop()

	if err := ui.NewApp(ui.AppConfig{Version: version, Commit: commit, BuildDate: date}, rt).Run(); err != nil {
		stop()
		fail(err)
	}
}
