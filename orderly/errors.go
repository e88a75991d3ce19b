package orderly

import (
	"errors"

	"github.com/fine-structures/orderly/lib/graph"
)

// Errors
var (
	ErrInvalidSize     = graph.ErrInvalidSize
	ErrOutOfRange      = graph.ErrOutOfRange
	ErrInvalidArgument = graph.ErrInvalidArgument
	ErrBadEncoding     = graph.ErrBadEncoding
	ErrBadCatalogParam = errors.New("bad catalog param")
	ErrCatalogClosed   = errors.New("catalog closed")
)
