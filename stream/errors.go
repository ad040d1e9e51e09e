// SPDX-License-Identifier: EPL-2.0

package stream

import "errors"

var (
	ErrInvalidBlock      = errors.New("block size must be between 1 and the ring capacity minus one frame")
	ErrFormatMismatch    = errors.New("ring format must be non-interleaved float32 matching the source channels")
	ErrSnapshotTooLarge  = errors.New("snapshot is larger than the recorder capacity")
	ErrNegativeTime      = errors.New("sample time must not be negative")
	ErrBoundsUnavailable = errors.New("time bounds changed on every attempt")
)
