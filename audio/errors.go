// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize    = errors.New("dst size must be multiple of channels")
	ErrInvalidFormat     = errors.New("invalid stream format")
	ErrInterleavedFormat = errors.New("interleaved formats are not supported")
	ErrUnsupportedFormat = errors.New("unsupported sample format")
	ErrChannelMismatch   = errors.New("buffer list does not match channel count")
	ErrUnknownFormat     = errors.New("no decoder registered for format")
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
)
