package facetgo

import "errors"

// ErrClosed is returned when the Explorer has been closed.
var ErrClosed = errors.New("facetgo: explorer is closed")

// ErrValueNotFound is returned when a label does not name a known facet
// value of the requested category.
var ErrValueNotFound = errors.New("facetgo: facet value not found")
