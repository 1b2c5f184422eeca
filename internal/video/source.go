// Package video provides decode backends for reading frames out of possibly
// malformed video containers.
package video

import (
	"errors"
	"image"
)

// Frame pairs a frame index with its decoded image.
type Frame struct {
	Index int
	Image image.Image
}

// ErrSeekUnsupported is returned by sources that cannot random-seek.
var ErrSeekUnsupported = errors.New("seek not supported by this source")

// Source is a decodable video handle. Sources are not safe for concurrent
// use; the sampler drives them single-threaded.
type Source interface {
	// ReadFrameAt decodes the frame at the given index via random seek.
	ReadFrameAt(index int) (image.Image, error)

	// ReadNext decodes the next frame of a sequential pass, returning io.EOF
	// when the stream ends.
	ReadNext() (image.Image, error)

	// Reset restarts the sequential pass from the first frame.
	Reset() error

	Close() error
}
