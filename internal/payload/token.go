package payload

import (
	"encoding/hex"
	"fmt"
	"io"
)

// tokenByteLength is the number of random bytes behind each token. Rendered
// as hex, a token is twice as many characters.
const tokenByteLength = 8

// newToken draws tokenByteLength bytes from the randomness source and
// renders them as lowercase hex.
func newToken(r io.Reader) (string, error) {
	b := make([]byte, tokenByteLength)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", fmt.Errorf("reading randomness source: %w", err)
	}
	return hex.EncodeToString(b), nil
}
