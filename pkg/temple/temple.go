// Package temple is the public entry point for embedding the temple record
// store. It re-exports the handle and options while keeping the storage
// and repository implementations internal.
package temple

import (
	"github.com/mesh-intelligence/temple/internal/temple"
	"github.com/mesh-intelligence/temple/pkg/types"
)

// Version is the release of the module and CLI.
const Version = "v0.1.0"

// Temple is an open record store with one repository per entity.
type Temple = temple.Temple

// Option configures a Temple.
type Option = temple.Option

// TableStats reports the size of one table.
type TableStats = temple.TableStats

// Options re-exported from the implementation.
var (
	WithLogger  = temple.WithLogger
	WithMetrics = temple.WithMetrics
)

// New creates a Temple that is not yet open.
func New(opts ...Option) *Temple {
	return temple.New(opts...)
}

// Open creates a Temple and opens it with cfg.
//
// Example:
//
//	tp, err := temple.Open(types.Config{
//	    Backend: types.BackendFiles,
//	    DataDir: ".temple-db",
//	})
//	if err != nil {
//	    return err
//	}
//	defer tp.Close()
//	events, err := tp.Events.GetAll()
func Open(cfg types.Config, opts ...Option) (*Temple, error) {
	tp := temple.New(opts...)
	if err := tp.Open(cfg); err != nil {
		return nil, err
	}
	return tp, nil
}
