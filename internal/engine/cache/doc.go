// Package cache stores text extracted from documents so repeated runs over
// the same files skip PDF decoding.
//
// Entries are JSON files under the cache directory (default
// ~/.meatprint/cache), keyed by the SHA-256 of the source bytes and expired
// after a configurable TTL.
package cache
