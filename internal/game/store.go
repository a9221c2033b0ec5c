package game

import (
	"context"
	"encoding/json"
)

// Storage keys of the persisted records.
const (
	KeyPlayerData     = "playerData"
	KeySettings       = "settings"
	KeyBlockedDomains = "blockedDomains"
)

// Store is the key-value persistence the engine reads and writes. Missing
// keys are simply absent from the returned map.
type Store interface {
	Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error)
	Set(ctx context.Context, values map[string]json.RawMessage) error
}

// Logger is the logging surface the engine needs; *logging.Logger
// satisfies it.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// AssetResolver maps a logical asset to a loadable location. Resolution
// can fail when the host context goes away.
type AssetResolver interface {
	Resolve(dir, name string) (string, error)
}

// ResolveIcon resolves an asset, falling back to glyph when the resolver
// is missing or fails. Failures are logged at debug level only.
func ResolveIcon(r AssetResolver, log Logger, dir, name, glyph string) string {
	if r == nil {
		return glyph
	}
	loc, err := r.Resolve(dir, name)
	if err != nil || loc == "" {
		if log != nil {
			log.Debugf("asset %s/%s unavailable: %v", dir, name, err)
		}
		return glyph
	}
	return loc
}
