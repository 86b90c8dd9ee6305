package imageloader

import "errors"

// ConfigurationError reports invalid loader construction input or an invalid
// channel selection. It is always raised before any store I/O happens, and
// never leaves the loader in a partially mutated state.
type ConfigurationError string

func (e ConfigurationError) Error() string {
	return "imageloader: configuration error - " + string(e)
}

// ErrOutOfBounds marks a read whose coordinates fall outside the extent of
// the underlying array. Stores wrap it via fmt.Errorf and %w so callers can
// test for it with errors.Is. The loader's default tile error handler
// swallows this condition and treats it as "no tile here".
var ErrOutOfBounds = errors.New("imageloader: coordinates out of array bounds")
