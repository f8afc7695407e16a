package ids

import "github.com/oklog/ulid/v2"

// New returns a lexicographically sortable identifier used for request
// correlation. Safe for concurrent use.
func New() string {
	return ulid.Make().String()
}
