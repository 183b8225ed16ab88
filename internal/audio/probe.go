// Package audio inspects generated MP3 data.
package audio

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/tcolgate/mp3"
)

// Duration sums MP3 frame durations from the reader. It tolerates
// trailing junk after the last valid frame but fails when no frame can
// be decoded at all.
func Duration(r io.Reader) (time.Duration, error) {
	dec := mp3.NewDecoder(r)

	var frame mp3.Frame
	var skipped int
	var total time.Duration
	frames := 0

	for {
		if err := dec.Decode(&frame, &skipped); err != nil {
			if errors.Is(err, io.EOF) || frames > 0 {
				break
			}
			return 0, err
		}
		total += frame.Duration()
		frames++
	}

	if frames == 0 {
		return 0, errors.New("no mp3 frames found")
	}
	return total, nil
}

// FileDuration probes an MP3 file on disk.
func FileDuration(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return Duration(f)
}
