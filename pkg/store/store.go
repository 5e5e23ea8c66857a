// Package store holds the side-channel key-value stores that carry rich
// clipboard data next to the plain-text system clipboard.
package store

import (
	"errors"
	"fmt"

	"gridclip/pkg/config"
)

// ErrQuotaExceeded is returned by Set when the value does not fit the
// store's budget. Callers treat it as "rich data not persisted", never as
// a failed copy.
var ErrQuotaExceeded = errors.New("store: quota exceeded")

// Store is the capability the clipboard needs: last writer wins, no
// versioning.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}

// Backend is a Store that owns resources.
type Backend interface {
	Store
	Close() error
}

// Open builds the backend selected by cfg.
func Open(cfg config.StoreConfig) (Backend, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return NewMemory(cfg.MaxValueBytes), nil
	case config.DriverSQLite, "":
		return NewSQLite(cfg.Path, cfg.Origin, cfg.MaxValueBytes)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
