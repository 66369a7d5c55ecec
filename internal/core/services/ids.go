package services

import (
	"time"

	"github.com/google/uuid"
)

// newID returns a canonical UUIDv4 string. Tests may replace it.
var newID = uuid.NewString

// now returns the current time in UTC. Tests may replace it.
var now = func() time.Time {
	return time.Now().UTC()
}
