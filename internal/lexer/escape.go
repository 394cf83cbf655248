package lexer

import (
	"strconv"
	"strings"
)

// DecodeEscapes decodes the escape sequences of a literal's inner text, the
// part between the quotes. The scanner already validated and reported bad
// escapes, so decoding is lenient: anything malformed passes through
// verbatim. All three literal families share this decoder; bytes literals
// simply never reach the \u branch because the scanner rejects it there.
func DecodeEscapes(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b != '\\' || i+1 >= len(s) {
			sb.WriteByte(b)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '0':
			sb.WriteByte(0)
		case '\\':
			sb.WriteByte('\\')
		case '"':
			sb.WriteByte('"')
		case '\'':
			sb.WriteByte('\'')
		case '{':
			sb.WriteByte('{')
		case '}':
			sb.WriteByte('}')
		case 'x':
			if i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
				v, _ := strconv.ParseUint(s[i+1:i+3], 16, 8)
				sb.WriteByte(byte(v))
				i += 2
			} else {
				sb.WriteByte('\\')
				sb.WriteByte('x')
			}
		case 'u':
			if end := strings.IndexByte(s[i:], '}'); i+1 < len(s) && s[i+1] == '{' && end > 2 {
				if v, err := strconv.ParseUint(s[i+2:i+end], 16, 32); err == nil {
					sb.WriteRune(rune(v))
					i += end
					break
				}
			}
			sb.WriteByte('\\')
			sb.WriteByte('u')
		default:
			sb.WriteByte('\\')
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}

// LiteralInner strips the prefix and quotes from a raw literal token text.
// Works for "...", b"..." and f"..."; tolerates a missing closing quote on
// Invalid tokens.
func LiteralInner(raw string) string {
	if len(raw) > 0 && (raw[0] == 'b' || raw[0] == 'f') {
		raw = raw[1:]
	}
	if len(raw) > 0 && raw[0] == '"' {
		raw = raw[1:]
	}
	if len(raw) > 0 && raw[len(raw)-1] == '"' {
		raw = raw[:len(raw)-1]
	}
	return raw
}
