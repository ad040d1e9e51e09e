// SPDX-License-Identifier: EPL-2.0

package ringbuffer

import "io"

type reader struct{ rb *RingBuffer }

type writer struct{ rb *RingBuffer }

// Reader adapts the consumer side to io.Reader. Read returns ErrEmpty when
// nothing is buffered, so callers can tell "no data yet" from end of stream.
func (rb *RingBuffer) Reader() io.Reader { return reader{rb} }

// Writer adapts the producer side to io.Writer. Short writes return ErrFull.
func (rb *RingBuffer) Writer() io.Writer { return writer{rb} }

func (r reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	n := r.rb.Read(p, true)
	if n == 0 {
		return 0, ErrEmpty
	}

	return int(n), nil
}

func (w writer) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	n := int(w.rb.Write(p, true))
	if n < len(p) {
		return n, ErrFull
	}

	return n, nil
}
