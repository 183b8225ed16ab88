// Package storage owns the published digest files and the run ledger.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dynamicdevices/audionews/internal/config"
)

// MinAudioBytes is the floor below which an existing MP3 is treated as a
// failed render and regenerated.
const MinAudioBytes = 50000

const headerRule = 40

// Paths locates the text and audio files for one locale and day.
type Paths struct {
	Text  string
	Audio string
}

// DigestPaths builds the canonical output paths under the locale's
// publish directories.
func DigestPaths(root string, loc config.Locale, day time.Time) Paths {
	name := "news_digest_ai_" + day.Format("2006_01_02")
	return Paths{
		Text:  filepath.Join(root, loc.OutputDir, name+".txt"),
		Audio: filepath.Join(root, loc.AudioDir, name+".mp3"),
	}
}

// DigestExists reports whether today's digest is already published: both
// files present and the audio large enough to be real speech.
func DigestExists(p Paths) bool {
	if _, err := os.Stat(p.Text); err != nil {
		return false
	}
	info, err := os.Stat(p.Audio)
	if err != nil {
		return false
	}
	return info.Size() > MinAudioBytes
}

// AudioSize returns the published MP3 size in bytes, zero when absent.
func AudioSize(p Paths) int64 {
	info, err := os.Stat(p.Audio)
	if err != nil {
		return 0
	}
	return info.Size()
}

// WriteDigestText publishes the digest text with its provenance header.
func WriteDigestText(p Paths, digest string, generatedAt time.Time) error {
	if err := os.MkdirAll(filepath.Dir(p.Text), 0o755); err != nil {
		return fmt.Errorf("create output dir: %v", err)
	}

	var b strings.Builder
	rule := strings.Repeat("=", headerRule)
	b.WriteString("AI-ENHANCED NEWS DIGEST\n")
	b.WriteString(rule + "\n")
	b.WriteString("Generated: " + generatedAt.Format("2006-01-02 15:04:05") + "\n")
	b.WriteString("AI Analysis: ENABLED\n")
	b.WriteString("Type: AI-synthesized content for accessibility\n")
	b.WriteString(rule + "\n\n")
	b.WriteString(digest)

	if err := os.WriteFile(p.Text, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write digest text: %v", err)
	}
	return nil
}
