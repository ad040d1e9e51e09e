// SPDX-License-Identifier: EPL-2.0

package ringbuffer

import "errors"

var (
	ErrInvalidCapacity = errors.New("ring buffer capacity must be in [2, 2^31]")
	ErrEmpty           = errors.New("ring buffer is empty")
	ErrFull            = errors.New("ring buffer is full")
)
