package resetref

import "errors"

// ErrInvalidArgument is returned by New when the cell is not a container of
// the reactive runtime. It signals a programming error at the call site.
var ErrInvalidArgument = errors.New("resetref: invalid argument")
