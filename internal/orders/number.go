package orders

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

const orderNumberPrefix = "ORD-"

// GenerateOrderNumber produces a short human-readable reference like
// ORD-3F9A12C4D0. Uniqueness is enforced by the orders table; callers retry
// on collision.
func GenerateOrderNumber() string {
	id := uuid.New()
	encoded := strings.ToUpper(hex.EncodeToString(id[:]))
	return orderNumberPrefix + encoded[:10]
}
