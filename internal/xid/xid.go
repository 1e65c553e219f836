package xid

import (
	"fmt"

	"github.com/google/uuid"
)

// New returns a random id such as "sess-3f2b...". An empty prefix yields a
// bare uuid.
func New(prefix string) string {
	id := uuid.NewString()
	if prefix == "" {
		return id
	}
	return fmt.Sprintf("%s-%s", prefix, id)
}
