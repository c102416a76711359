package orchestrator

import "errors"

// ErrSourceMapConflict is returned when a link-style source map is requested
// together with a content transform. A link-style map points at the files on
// disk, which no longer match what was written.
var ErrSourceMapConflict = errors.New("sourceMapStyle link cannot be combined with process or stripBanners")

// ErrNoDestination is returned for a target without a destination path.
var ErrNoDestination = errors.New("target has no destination")
