package tts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	translateEndpoint  = "https://translate.google.com/translate_tts"
	translateUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	// The endpoint rejects long inputs, so the digest is spoken in
	// sentence-sized chunks and the MP3 responses are concatenated.
	maxChunkRunes = 200
)

// TranslateSpeech is the CI fallback voice. Quality is below the neural
// voices, which is why it never runs outside CI.
type TranslateSpeech struct {
	client  *http.Client
	baseURL string
}

func NewTranslateSpeech(timeout time.Duration) *TranslateSpeech {
	return &TranslateSpeech{
		client:  &http.Client{Timeout: timeout},
		baseURL: translateEndpoint,
	}
}

func (t *TranslateSpeech) Name() string { return "translate" }

func (t *TranslateSpeech) Synthesize(ctx context.Context, text string, voice Voice) ([]byte, error) {
	lang := voice.Lang
	if lang == "" {
		lang = "en"
	}

	var audio bytes.Buffer
	for _, chunk := range splitChunks(text, maxChunkRunes) {
		data, err := t.fetchChunk(ctx, chunk, lang)
		if err != nil {
			return nil, err
		}
		audio.Write(data)
	}

	if audio.Len() == 0 {
		return nil, errors.New("translate speech produced no audio")
	}
	return audio.Bytes(), nil
}

func (t *TranslateSpeech) fetchChunk(ctx context.Context, chunk, lang string) ([]byte, error) {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", lang)
	q.Set("q", chunk)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("translate speech request: %w", err)
	}
	req.Header.Set("User-Agent", translateUserAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("translate speech: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("translate speech: HTTP %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// splitChunks packs whole sentences up to the rune limit, falling back to
// word boundaries for any single sentence longer than the limit.
func splitChunks(text string, limit int) []string {
	var chunks []string
	var current []string
	currentLen := 0

	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			current = nil
			currentLen = 0
		}
	}

	for _, sentence := range splitSentences(text) {
		n := utf8.RuneCountInString(sentence)
		if n > limit {
			flush()
			chunks = append(chunks, splitWords(sentence, limit)...)
			continue
		}
		if currentLen+n+1 > limit {
			flush()
		}
		current = append(current, sentence)
		currentLen += n + 1
	}
	flush()
	return chunks
}

func splitSentences(text string) []string {
	var out []string
	var b strings.Builder
	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(b.String()); s != "" {
				out = append(out, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		out = append(out, s)
	}
	return out
}

func splitWords(sentence string, limit int) []string {
	var out []string
	var current []string
	n := 0

	for _, w := range strings.Fields(sentence) {
		wn := utf8.RuneCountInString(w)
		if n+wn+1 > limit && len(current) > 0 {
			out = append(out, strings.Join(current, " "))
			current, n = nil, 0
		}
		current = append(current, w)
		n += wn + 1
	}
	if len(current) > 0 {
		out = append(out, strings.Join(current, " "))
	}
	return out
}
