// Package hexcodec converts between bytes and lowercase hex text with a big integer as the intermediate
// representation. Bytes are read as one big-endian unsigned integer, so leading zero bytes are not
// preserved across a round trip.
package hexcodec

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/MGTheTrain/crypto-binding/internal/domain/provider"
)

type codec struct{}

// New returns the big-integer hex codec
func New() provider.HexCodec {
	return codec{}
}

// Encode renders data as the minimal big-endian hex form of its integer value.
// Empty input encodes to "" and an all-zero input to "00".
func (codec) Encode(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	n := new(big.Int).SetBytes(data)
	if n.Sign() == 0 {
		return "00"
	}
	return hex.EncodeToString(n.Bytes())
}

// Decode parses text as a big-endian unsigned integer and returns its minimal byte form
func (codec) Decode(text string) ([]byte, error) {
	if len(text)%2 != 0 {
		return nil, fmt.Errorf("%w: odd length hex string", provider.ErrMalformedInput)
	}
	if text == "" {
		return []byte{}, nil
	}
	n, ok := new(big.Int).SetString(text, 16)
	if !ok || !isHex(text) {
		return nil, fmt.Errorf("%w: invalid hex string", provider.ErrMalformedInput)
	}
	return n.Bytes(), nil
}

// SetString accepts a sign and underscores, the codec does not
func isHex(text string) bool {
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
