package store

import (
	"context"
	"fmt"

	"github.com/appengine-ltd/mine-anything/internal/game"
)

const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Closer is a game.Store that owns resources.
type Closer interface {
	game.Store
	Close() error
}

// Open returns the store for driver. path is ignored by the memory driver.
func Open(ctx context.Context, driver, path string) (Closer, error) {
	switch driver {
	case DriverMemory:
		return NewMemory(), nil
	case "", DriverSQLite:
		return OpenSQLite(ctx, path)
	}
	return nil, fmt.Errorf("unknown store driver %q", driver)
}
