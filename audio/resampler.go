// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audring/utils"
)

// lowpassAlpha is the one-pole coefficient applied to the input when
// downsampling.
const lowpassAlpha = 0.5

// Resampler converts a source to another sample rate with Catmull-Rom
// interpolation, keeping the channel count. When downsampling, the input
// first goes through a one-pole low-pass filter.
type Resampler struct {
	src      Source
	channels int
	rate     int
	step     float64 // source frames per output frame

	buf []float32
	in  []float32 // unread part of buf
	eof bool

	// window holds four frames; output is interpolated between frames 1 and 2.
	window []float32
	// pad counts the trailing window frames that repeat the last real frame.
	pad    int
	phase  float64
	primed bool

	lowpass []float32 // filter state, nil when not downsampling
}

// NewResampler returns a stage that reads src at dstRate.
func NewResampler(src Source, dstRate int) (*Resampler, error) {
	if dstRate <= 0 || src.SampleRate() <= 0 {
		return nil, fmt.Errorf("%d Hz to %d Hz: %w", src.SampleRate(), dstRate, ErrInvalidSampleRate)
	}

	channels := src.Channels()
	r := &Resampler{
		src:      src,
		channels: channels,
		rate:     dstRate,
		step:     float64(src.SampleRate()) / float64(dstRate),
		buf:      make([]float32, max(src.BufSize()/channels, 1)*channels),
		window:   make([]float32, 4*channels),
	}
	if r.step > 1 {
		r.lowpass = make([]float32, channels)
	}

	return r, nil
}

func (r *Resampler) SampleRate() int { return r.rate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("close source: %w", err)
	}
	return nil
}

// ReadSamples fills dst with interleaved samples at the target rate. len(dst)
// must be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	ch := r.channels
	if len(dst)%ch != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	frames := len(dst) / ch
	for n := range frames {
		for r.phase >= 1 {
			r.phase--
			if err := r.advance(); err != nil {
				return n * ch, err
			}
		}

		if r.pad >= 3 || (r.pad == 2 && r.phase > 0) {
			return n * ch, io.EOF
		}

		x := float32(r.phase)
		w := r.window
		for c := range ch {
			dst[n*ch+c] = utils.CatmullRom(w[c], w[ch+c], w[2*ch+c], w[3*ch+c], x)
		}

		r.phase += r.step
	}

	return frames * ch, nil
}

// prime fills the window with the first frame and then shifts in the next
// two, so output starts exactly on the first frame.
func (r *Resampler) prime() error {
	first := r.window[:r.channels]
	ok, err := r.pull(first)
	if err != nil {
		return err
	}
	if !ok {
		return io.EOF
	}

	for i := 1; i < 4; i++ {
		copy(r.window[i*r.channels:], first)
	}
	if r.lowpass != nil {
		copy(r.lowpass, first)
	}

	for range 2 {
		if err := r.advance(); err != nil {
			return err
		}
	}

	r.primed = true
	return nil
}

// advance drops the oldest window frame and appends the next source frame,
// or repeats the last one once the source is exhausted.
func (r *Resampler) advance() error {
	ch := r.channels
	copy(r.window, r.window[ch:])
	last := r.window[3*ch:]

	ok, err := r.pull(last)
	if err != nil {
		return err
	}
	if !ok {
		copy(last, r.window[2*ch:3*ch])
		r.pad++
		return nil
	}

	if r.lowpass != nil {
		for c, v := range last {
			v = lowpassAlpha*v + (1-lowpassAlpha)*r.lowpass[c]
			last[c] = v
			r.lowpass[c] = v
		}
	}

	return nil
}

// pull copies the next source frame into frame. It reports false at the end
// of the source.
func (r *Resampler) pull(frame []float32) (bool, error) {
	for len(r.in) < r.channels {
		if r.eof {
			return false, nil
		}

		n, err := r.src.ReadSamples(r.buf)
		r.in = r.buf[:n-n%r.channels]

		if errors.Is(err, io.EOF) {
			r.eof = true
		} else if err != nil {
			return false, fmt.Errorf("read source: %w", err)
		}
	}

	copy(frame, r.in[:r.channels])
	r.in = r.in[r.channels:]

	return true, nil
}
