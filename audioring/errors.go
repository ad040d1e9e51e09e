// SPDX-License-Identifier: EPL-2.0

package audioring

import "errors"

var (
	ErrInvalidCapacity = errors.New("capacity must be in [2, 2^31] frames")
	ErrInvalidFormat   = errors.New("format must be valid non-interleaved linear PCM")
)
