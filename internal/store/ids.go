package store

import (
	"encoding/base32"

	"github.com/google/uuid"
)

// idEncoding is lowercase Crockford base32; 16 random bytes encode to exactly
// 26 characters, the length meal descriptions embed as "<id>|<name>".
var idEncoding = base32.NewEncoding("0123456789abcdefghjkmnpqrstvwxyz").WithPadding(base32.NoPadding)

// NewID returns a fresh 26-character alphanumeric row id.
func NewID() string {
	u := uuid.New()
	return idEncoding.EncodeToString(u[:])
}
