package util

import "github.com/oklog/ulid/v2"

// NewULID returns a lexicographically sortable identifier for requests and
// images that arrive without one.
func NewULID() string {
	return ulid.Make().String()
}
