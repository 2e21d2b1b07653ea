package fetchlog

import (
	"strings"
	"sync"
	"time"

	"github.com/KingBodhi/jungleverse/internal/domain/provider"
	"github.com/KingBodhi/jungleverse/internal/platform/logging"
)

const DefaultCapacity = 1000

type Entry struct {
	Provider    string            `json:"provider"`
	Timestamp   time.Time         `json:"timestamp"`
	Success     bool              `json:"success"`
	DataType    provider.DataType `json:"dataType"`
	RecordCount *int              `json:"recordCount,omitempty"`
	Error       string            `json:"error,omitempty"`
	DurationMs  *int64            `json:"duration,omitempty"`
}

type ProviderStats struct {
	TotalFetches int        `json:"totalFetches"`
	SuccessCount int        `json:"successCount"`
	ErrorCount   int        `json:"errorCount"`
	SuccessRate  float64    `json:"successRate"`
	LastFetch    *Entry     `json:"lastFetch,omitempty"`
	AvgDuration  *float64   `json:"avgDuration,omitempty"`
	LastSuccess  *time.Time `json:"-"`
	LastError    string     `json:"-"`
}

// Log keeps the most recent fetch outcomes in insertion order and mirrors
// each one to the structured logger.
type Log struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
	logger   *logging.Logger
	now      func() time.Time
}

func New(capacity int, logger *logging.Logger) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Log{
		entries:  make([]Entry, 0, capacity),
		capacity: capacity,
		logger:   logger,
		now:      time.Now,
	}
}

func (l *Log) LogSuccess(providerName string, dataType provider.DataType, recordCount int, duration time.Duration) {
	ms := duration.Milliseconds()
	l.append(Entry{
		Provider:    providerName,
		Timestamp:   l.now(),
		Success:     true,
		DataType:    dataType,
		RecordCount: &recordCount,
		DurationMs:  &ms,
	})
	l.logger.Info("provider fetch succeeded",
		"provider", providerName,
		"data_type", dataType,
		"record_count", recordCount,
		"duration_ms", ms,
	)
}

func (l *Log) LogError(providerName string, dataType provider.DataType, err error, duration time.Duration) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	ms := duration.Milliseconds()
	l.append(Entry{
		Provider:   providerName,
		Timestamp:  l.now(),
		Success:    false,
		DataType:   dataType,
		Error:      msg,
		DurationMs: &ms,
	})
	l.logger.Error("provider fetch failed",
		"provider", providerName,
		"data_type", dataType,
		"duration_ms", ms,
		"error", err,
	)
}

func (l *Log) append(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.entries) >= l.capacity {
		drop := len(l.entries) - l.capacity + 1
		copy(l.entries, l.entries[drop:])
		l.entries = l.entries[:len(l.entries)-drop]
	}
	l.entries = append(l.entries, e)
}

// Recent returns up to n of the newest entries, oldest first.
func (l *Log) Recent(n int) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return tail(l.entries, n)
}

func (l *Log) ProviderLogs(providerName string, n int) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	matched := make([]Entry, 0)
	for _, e := range l.entries {
		if strings.EqualFold(e.Provider, providerName) {
			matched = append(matched, e)
		}
	}
	return tail(matched, n)
}

func (l *Log) Errors(n int) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	failed := make([]Entry, 0)
	for _, e := range l.entries {
		if !e.Success {
			failed = append(failed, e)
		}
	}
	return tail(failed, n)
}

func (l *Log) ProviderStats(providerName string) ProviderStats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var (
		stats       ProviderStats
		durationSum int64
		durationCnt int
	)
	for _, e := range l.entries {
		if !strings.EqualFold(e.Provider, providerName) {
			continue
		}
		stats.TotalFetches++
		if e.Success {
			stats.SuccessCount++
			ts := e.Timestamp
			stats.LastSuccess = &ts
		} else {
			stats.ErrorCount++
		}
		if e.DurationMs != nil {
			durationSum += *e.DurationMs
			durationCnt++
		}
	}
	if stats.TotalFetches == 0 {
		return stats
	}

	last := l.lastFor(providerName)
	stats.SuccessRate = float64(stats.SuccessCount) / float64(stats.TotalFetches)
	stats.LastFetch = &last
	if !last.Success {
		stats.LastError = last.Error
	}
	if durationCnt > 0 {
		avg := float64(durationSum) / float64(durationCnt)
		stats.AvgDuration = &avg
	}
	return stats
}

// AllProviderStats returns stats keyed by provider name as first logged.
func (l *Log) AllProviderStats() map[string]ProviderStats {
	l.mu.RLock()
	names := make([]string, 0)
	seen := make(map[string]struct{})
	for _, e := range l.entries {
		key := strings.ToLower(e.Provider)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, e.Provider)
	}
	l.mu.RUnlock()

	out := make(map[string]ProviderStats, len(names))
	for _, name := range names {
		out[name] = l.ProviderStats(name)
	}
	return out
}

func (l *Log) Clear() {
	l.mu.Lock()
	l.entries = l.entries[:0]
	l.mu.Unlock()
}

func (l *Log) lastFor(providerName string) Entry {
	for i := len(l.entries) - 1; i >= 0; i-- {
		if strings.EqualFold(l.entries[i].Provider, providerName) {
			return l.entries[i]
		}
	}
	return Entry{}
}

func tail(entries []Entry, n int) []Entry {
	if n <= 0 || n > len(entries) {
		n = len(entries)
	}
	out := make([]Entry, n)
	copy(out, entries[len(entries)-n:])
	return out
}
