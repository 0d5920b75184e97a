package pgraph

import (
	"fmt"

	"github.com/google/uuid"
)

// Unique appends an _ followed by a random UUID to name, so that nodes
// built in loops never collide by name
func Unique(name string) string {
	return fmt.Sprintf("%v_%v", name, uuid.New())
}
