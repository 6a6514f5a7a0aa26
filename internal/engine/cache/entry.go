package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Entry is one cached extraction result.
type Entry struct {
	// Key is the hex SHA-256 of the source document bytes.
	Key string `json:"key"`

	// Source is the path the lines were first extracted from. Informational.
	Source string `json:"source,omitempty"`

	Lines []string `json:"lines"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func newEntry(key, source string, lines []string, ttl time.Duration) *Entry {
	now := time.Now().UTC()
	return &Entry{
		Key:       key,
		Source:    source,
		Lines:     lines,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired reports whether the entry is past its expiry time.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.ExpiresAt)
}

// Age returns the duration since the entry was created.
func (e *Entry) Age() time.Duration {
	return time.Since(e.CreatedAt)
}

// Key returns the cache key for document content.
func Key(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
