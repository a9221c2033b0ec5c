//go:build cgo

package main

import (
	"github.com/appengine-ltd/mine-anything/internal/gui"
	"github.com/appengine-ltd/mine-anything/internal/ui"
)

func main() {
	o := parseFlags()
	if o.showVersion {
		printVersion()
		return
	}

	component := "gui"
	if o.terminal {
		component = "tui"
	}
	rt, stop, err := start(o, component)
	if err != nil {
		fail(err)
	}
	defer stop()

	if o.terminal {
		err = ui.NewApp(ui.AppConfig{Version: version, Commit: commit, BuildDate: date}, rt).Run()
	} else {
		err = gui.NewApp(gui.AppConfig{Version: version, Commit: commit, BuildDate: date}, rt).Run()
	}
	if err != nil {
		stop()
		fail(err)
	}
}
