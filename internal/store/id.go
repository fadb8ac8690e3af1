package store

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// NewID returns a unique identifier that sorts roughly by creation time: a
// base-36 millisecond timestamp followed by a short random suffix so two IDs
// minted in the same millisecond never collide.
func NewID() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 36) + "-" + uuid.New().String()[:8]
}
