package errors

import "errors"

// requested record does not exist.
var ErrMissing = errors.New("missing")

// found records more than expected.
var ErrTooMuch = errors.New("too much")
