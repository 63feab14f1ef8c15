// Package feedback holds scored answers whose turn could not be persisted yet, so a client retry
// reuses the score instead of asking the oracle again.
package feedback

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/scoring"
)

const cleanupInterval = 5 * time.Minute

// ScoreCache stores pending assessments in memory with a TTL
type ScoreCache struct {
	cache map[string]*cacheEntry
	mu    sync.RWMutex
	ttl   time.Duration
}

type cacheEntry struct {
	assessment scoring.Assessment
	answerSum  [sha256.Size]byte
	expiresAt  time.Time
}

// NewScoreCache creates a cache; the cleanup loop stops when ctx is done
func NewScoreCache(ctx context.Context, ttl time.Duration) *ScoreCache {
	sc := &ScoreCache{
		cache: make(map[string]*cacheEntry),
		ttl:   ttl,
	}
	go sc.cleanupLoop(ctx)
	return sc
}

// Key identifies one answer of one session
func Key(sessionID string, sequenceNumber int) string {
	return fmt.Sprintf("%s:%d", sessionID, sequenceNumber)
}

// Set stores the assessment computed for answerText
func (sc *ScoreCache) Set(key, answerText string, assessment scoring.Assessment) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	sc.cache[key] = &cacheEntry{
		assessment: assessment,
		answerSum:  sha256.Sum256([]byte(answerText)),
		expiresAt:  time.Now().Add(sc.ttl),
	}
}

// Get returns an assessment if it exists, hasn't expired and was computed for the same answerText.
// A retry carrying a different answer misses and gets scored afresh.
func (sc *ScoreCache) Get(key, answerText string) (scoring.Assessment, bool) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	entry, exists := sc.cache[key]
	if !exists || time.Now().After(entry.expiresAt) {
		return scoring.Assessment{}, false
	}
	if entry.answerSum != sha256.Sum256([]byte(answerText)) {
		return scoring.Assessment{}, false
	}
	return entry.assessment, true
}

func (sc *ScoreCache) Delete(key string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	delete(sc.cache, key)
}

func (sc *ScoreCache) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sc.cleanup()
		}
	}
}

func (sc *ScoreCache) cleanup() {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	now := time.Now()
	for key, entry := range sc.cache {
		if now.After(entry.expiresAt) {
			delete(sc.cache, key)
		}
	}
}

// Size returns the current number of pending assessments
func (sc *ScoreCache) Size() int {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	return len(sc.cache)
}
