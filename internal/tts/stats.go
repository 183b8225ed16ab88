package tts

import (
	"bytes"
	"strings"
	"time"

	"github.com/dynamicdevices/audionews/internal/audio"
)

// Stats describes a rendered digest for reporting.
type Stats struct {
	Bytes          int64
	Duration       time.Duration
	Words          int
	WordsPerSecond float64
	Estimated      bool // true when the MP3 frames could not be probed
	Fallback       bool // true when the fallback provider spoke the digest
}

// SizeKB reports the audio size in kilobytes.
func (s Stats) SizeKB() float64 {
	return float64(s.Bytes) / 1024
}

// BuildStats probes the MP3 for its real duration. When the frames cannot
// be read it estimates from the word count at a fixed two words per second
// rather than failing a run that already has its audio.
func BuildStats(text string, data []byte) Stats {
	words := len(strings.Fields(text))
	st := Stats{Bytes: int64(len(data)), Words: words}

	if d, err := audio.Duration(bytes.NewReader(data)); err == nil && d > 0 {
		st.Duration = d
		st.WordsPerSecond = float64(words) / d.Seconds()
		return st
	}

	st.Estimated = true
	st.Duration = time.Duration(float64(words) / 2.0 * float64(time.Second))
	st.WordsPerSecond = 2.0
	return st
}
