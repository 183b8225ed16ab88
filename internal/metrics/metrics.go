package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	StoriesFetched     int64
	SourcesFailed      int64
	DuplicatesFiltered int64
	ModelCalls         int64
	TTSAttempts        int64
	TTSFallbacks       int64
	DigestsGenerated   int64
	DigestsSkipped     int64

	// Timings
	LastRunDuration    time.Duration
	TotalRunDuration   time.Duration
	AverageRunDuration time.Duration
	RunCount           int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) AddStoriesFetched(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StoriesFetched += int64(n)
}

func (m *Metrics) IncrementSourcesFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourcesFailed++
}

func (m *Metrics) AddDuplicatesFiltered(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesFiltered += int64(n)
}

func (m *Metrics) IncrementModelCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ModelCalls++
}

func (m *Metrics) IncrementTTSAttempts() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TTSAttempts++
}

func (m *Metrics) IncrementTTSFallbacks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TTSFallbacks++
}

func (m *Metrics) IncrementDigestsGenerated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DigestsGenerated++
}

func (m *Metrics) IncrementDigestsSkipped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DigestsSkipped++
}

func (m *Metrics) RecordRunDuration(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastRunDuration = duration
	m.TotalRunDuration += duration
	m.RunCount++

	if m.RunCount > 0 {
		m.AverageRunDuration = m.TotalRunDuration / time.Duration(m.RunCount)
	}
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"stories_fetched":         m.StoriesFetched,
		"sources_failed":          m.SourcesFailed,
		"duplicates_filtered":     m.DuplicatesFiltered,
		"model_calls":             m.ModelCalls,
		"tts_attempts":            m.TTSAttempts,
		"tts_fallbacks":           m.TTSFallbacks,
		"digests_generated":       m.DigestsGenerated,
		"digests_skipped":         m.DigestsSkipped,
		"last_run_duration_ms":    m.LastRunDuration.Milliseconds(),
		"average_run_duration_ms": m.AverageRunDuration.Milliseconds(),
		"last_run_time":           m.LastRunTime.Format(time.RFC3339),
		"last_error_time":         m.LastErrorTime.Format(time.RFC3339),
		"last_error":              m.LastError,
		"is_healthy":              m.IsHealthy,
	}
}
