package resolve

import (
	"strconv"
	"strings"
)

// TokenMarker prefixes identifiers that are metadata tokens.
const TokenMarker = "@"

// ParseToken parses a token identifier: the marker followed by a
// hexadecimal ("0x" or "0X" prefix) or decimal literal.
func ParseToken(identifier string) (uint64, bool) {
	if !strings.HasPrefix(identifier, TokenMarker) {
		return 0, false
	}
	lit := identifier[len(TokenMarker):]
	base := 10
	if strings.HasPrefix(lit, "0x") || strings.HasPrefix(lit, "0X") {
		lit = lit[2:]
		base = 16
	}
	n, err := strconv.ParseUint(lit, base, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// FormatToken formats token the way ParseToken accepts it.
func FormatToken(token uint64) string {
	return TokenMarker + "0x" + strconv.FormatUint(token, 16)
}
