package cache

import "strings"

const (
	GlobalKeyPrefix = "askvantage"

	recordNamespace = "text"
	indexNamespace  = "texts"
)

// GenerateKey builds a namespaced store key from its parts.
func GenerateKey(parts ...string) string {
	return strings.Join(append([]string{GlobalKeyPrefix}, parts...), ":")
}

// TextRecordKey returns the store key for a text record. key must already be
// the normalized (lowercased) title.
func TextRecordKey(key string) string {
	return GenerateKey(recordNamespace, key)
}

// TextIndexKey returns the reserved key holding the index of all stored
// titles. Its namespace differs from the record namespace, so no normalized
// title can collide with it.
func TextIndexKey() string {
	return GenerateKey(indexNamespace, "index")
}
