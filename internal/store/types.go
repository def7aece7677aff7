package store

import (
	"errors"
	"strconv"
)

var (
	// ErrNotFound is returned when an item in store is not found.
	ErrNotFound = errors.New("not found")
)

// BlockKey is the cache key of a channel's block. Committed blocks never
// change, so the key needs no version.
func BlockKey(prefix, channel string, number uint64) string {
	return prefix + channel + ":" + strconv.FormatUint(number, 10)
}
