// SPDX-License-Identifier: EPL-2.0

package audring

import (
	"github.com/ik5/audring/audio"
	"github.com/ik5/audring/formats/aiff"
	"github.com/ik5/audring/formats/mp3"
	"github.com/ik5/audring/formats/vorbis"
	"github.com/ik5/audring/formats/wav"
)

// NewRegistry returns a registry with every bundled decoder registered under
// its usual file extensions.
func NewRegistry() *audio.Registry {
	reg := audio.NewRegistry()

	reg.Register("wav", wav.Decoder{})
	reg.Register("wave", wav.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("oga", vorbis.Decoder{})

	return reg
}
