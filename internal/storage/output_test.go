package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dynamicdevices/audionews/internal/config"
)

func ukLocale(t *testing.T) config.Locale {
	t.Helper()
	loc, err := config.GetLocale("en_GB")
	if err != nil {
		t.Fatalf("GetLocale(en_GB): %v", err)
	}
	return loc
}

func TestDigestPaths(t *testing.T) {
	loc := ukLocale(t)
	day := time.Date(2025, time.March, 5, 9, 30, 0, 0, time.UTC)

	p := DigestPaths("/srv/out", loc, day)

	wantText := filepath.Join("/srv/out", loc.OutputDir, "news_digest_ai_2025_03_05.txt")
	wantAudio := filepath.Join("/srv/out", loc.AudioDir, "news_digest_ai_2025_03_05.mp3")
	if p.Text != wantText {
		t.Errorf("Text = %q, want %q", p.Text, wantText)
	}
	if p.Audio != wantAudio {
		t.Errorf("Audio = %q, want %q", p.Audio, wantAudio)
	}
}

func writeDigestFiles(t *testing.T, audioBytes int) Paths {
	t.Helper()
	dir := t.TempDir()
	p := Paths{
		Text:  filepath.Join(dir, "digest.txt"),
		Audio: filepath.Join(dir, "digest.mp3"),
	}
	if err := os.WriteFile(p.Text, []byte("digest"), 0o644); err != nil {
		t.Fatal(err)
	}
	if audioBytes >= 0 {
		if err := os.WriteFile(p.Audio, make([]byte, audioBytes), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return p
}

func TestDigestExists_RequiresRealAudio(t *testing.T) {
	cases := []struct {
		name       string
		audioBytes int
		want       bool
	}{
		{"audio above the floor", MinAudioBytes + 1, true},
		{"audio exactly at the floor", MinAudioBytes, false},
		{"tiny audio from a failed render", 100, false},
		{"no audio file", -1, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := writeDigestFiles(t, tc.audioBytes)
			if got := DigestExists(p); got != tc.want {
				t.Errorf("DigestExists() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDigestExists_MissingText(t *testing.T) {
	dir := t.TempDir()
	p := Paths{
		Text:  filepath.Join(dir, "digest.txt"),
		Audio: filepath.Join(dir, "digest.mp3"),
	}
	if err := os.WriteFile(p.Audio, make([]byte, MinAudioBytes+1), 0o644); err != nil {
		t.Fatal(err)
	}
	if DigestExists(p) {
		t.Error("DigestExists() = true without the text file")
	}
}

func TestAudioSize(t *testing.T) {
	p := writeDigestFiles(t, 1234)
	if got := AudioSize(p); got != 1234 {
		t.Errorf("AudioSize() = %d, want 1234", got)
	}
	p.Audio = filepath.Join(t.TempDir(), "missing.mp3")
	if got := AudioSize(p); got != 0 {
		t.Errorf("AudioSize() = %d for a missing file, want 0", got)
	}
}

func TestWriteDigestText_Header(t *testing.T) {
	dir := t.TempDir()
	p := Paths{Text: filepath.Join(dir, "texts", "digest.txt")}
	generatedAt := time.Date(2025, time.March, 5, 6, 30, 0, 0, time.UTC)

	if err := WriteDigestText(p, "Good morning. The news.", generatedAt); err != nil {
		t.Fatalf("WriteDigestText() error = %v", err)
	}

	data, err := os.ReadFile(p.Text)
	if err != nil {
		t.Fatalf("reading digest text: %v", err)
	}
	text := string(data)

	if !strings.HasPrefix(text, "AI-ENHANCED NEWS DIGEST\n") {
		t.Errorf("text does not open with the provenance banner:\n%s", text)
	}
	if !strings.Contains(text, "Generated: 2025-03-05 06:30:00\n") {
		t.Errorf("text is missing the generation timestamp:\n%s", text)
	}
	if !strings.Contains(text, "AI Analysis: ENABLED\n") {
		t.Errorf("text is missing the analysis marker:\n%s", text)
	}
	if !strings.Contains(text, strings.Repeat("=", 40)+"\n\nGood morning. The news.") {
		t.Errorf("digest body does not follow the header:\n%s", text)
	}
	if !strings.HasSuffix(text, "Good morning. The news.") {
		t.Errorf("text does not end with the digest body:\n%s", text)
	}
}
