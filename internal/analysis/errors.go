package analysis

import "errors"

var (
	// ErrEmptyUpload rejects missing or zero-byte uploads before any
	// processing.
	ErrEmptyUpload = errors.New("empty or missing video file")

	// ErrUnsupportedFormat rejects file extensions outside the allowlist.
	ErrUnsupportedFormat = errors.New("unsupported video format")

	// ErrDecodeFailed is terminal: no strategy extracted a single frame and
	// the file is not a still image either.
	ErrDecodeFailed = errors.New("could not decode video: file appears corrupted")
)
