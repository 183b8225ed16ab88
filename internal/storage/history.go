package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// RunRecord describes one completed digest run.
type RunRecord struct {
	Fingerprint string    `json:"fingerprint"`
	Language    string    `json:"language"`
	Date        string    `json:"date"`
	TextPath    string    `json:"text_path"`
	AudioPath   string    `json:"audio_path"`
	AudioBytes  int64     `json:"audio_bytes"`
	DurationS   float64   `json:"duration_s"`
	Words       int       `json:"words"`
	Fallback    bool      `json:"fallback"`
	CompletedAt time.Time `json:"completed_at"`
}

// RunHistory keeps a bounded JSON ledger of completed runs so the monitor
// can report what was published without rescanning the output tree.
type RunHistory struct {
	filePath string
	keep     int
	records  []RunRecord
	mu       sync.RWMutex
}

func NewRunHistory(filePath string, keep int) *RunHistory {
	return &RunHistory{filePath: filePath, keep: keep}
}

// Load reads the existing ledger. A missing or empty file starts a fresh
// history.
func (h *RunHistory) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := os.Stat(h.filePath); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(h.filePath)
	if err != nil {
		return fmt.Errorf("failed to read run history: %v", err)
	}
	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &h.records); err != nil {
		return fmt.Errorf("failed to unmarshal run history: %v", err)
	}
	return nil
}

// Record appends a completed run, prunes the oldest entries beyond the
// keep limit and saves the ledger.
func (h *RunHistory) Record(rec RunRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.records = append(h.records, rec)
	if h.keep > 0 && len(h.records) > h.keep {
		h.records = h.records[len(h.records)-h.keep:]
	}
	return h.save()
}

func (h *RunHistory) save() error {
	data, err := json.MarshalIndent(h.records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run history: %v", err)
	}
	if err := os.WriteFile(h.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write run history: %v", err)
	}
	return nil
}

// Recent returns up to n records, newest first.
func (h *RunHistory) Recent(n int) []RunRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if n <= 0 || n > len(h.records) {
		n = len(h.records)
	}
	out := make([]RunRecord, 0, n)
	for i := len(h.records) - 1; i >= len(h.records)-n; i-- {
		out = append(out, h.records[i])
	}
	return out
}

// Latest returns the newest record for a language.
func (h *RunHistory) Latest(language string) (RunRecord, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for i := len(h.records) - 1; i >= 0; i-- {
		if h.records[i].Language == language {
			return h.records[i], true
		}
	}
	return RunRecord{}, false
}

// Stats returns ledger statistics.
func (h *RunHistory) Stats() map[string]int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return map[string]int{
		"total_runs": len(h.records),
	}
}

// Fingerprint creates a stable short hash for a digest text.
func Fingerprint(digest string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(digest)), " ")
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])[:16]
}
