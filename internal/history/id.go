package history

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Crockford's base32, as used by TypeID
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// NewID returns a UUIDv7 encoded as a 26-character base32 string. IDs sort
// by creation time.
func NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("history: generate game id: %w", err)
	}
	return EncodeID(id), nil
}

// EncodeID renders a UUID as 26 base32 characters. The first character
// carries only the top 3 bits, so it is always 0-7.
func EncodeID(id uuid.UUID) string {
	hi := binary.BigEndian.Uint64(id[:8])
	lo := binary.BigEndian.Uint64(id[8:])

	out := make([]byte, 26)
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = alphabet[lo&0x1f]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out)
}

// ParseID reverses EncodeID.
func ParseID(s string) (uuid.UUID, error) {
	if len(s) != 26 {
		return uuid.Nil, fmt.Errorf("game ID must be exactly 26 characters, got %d", len(s))
	}
	if s[0] > '7' {
		return uuid.Nil, fmt.Errorf("game ID first character must be 0-7, got %c", s[0])
	}

	var hi, lo uint64
	for i := range len(s) {
		v := strings.IndexByte(alphabet, s[i])
		if v < 0 {
			return uuid.Nil, fmt.Errorf("invalid character %c at position %d", s[i], i)
		}
		hi = hi<<5 | lo>>59
		lo = lo<<5 | uint64(v)
	}

	var id uuid.UUID
	binary.BigEndian.PutUint64(id[:8], hi)
	binary.BigEndian.PutUint64(id[8:], lo)
	return id, nil
}
