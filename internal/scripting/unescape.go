package scripting

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// unescape decodes the escape sequences of a JavaScript string or template
// body. Malformed escapes keep their characters, as engines in sloppy mode do.
func unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '\\' || i+1 == len(s) {
			r, size := utf8.DecodeRuneInString(s[i:])
			b.WriteRune(r)
			i += size
			continue
		}

		i++ // backslash
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch r {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			if i < len(s) && s[i] >= '0' && s[i] <= '9' {
				b.WriteByte('0')
				continue
			}
			b.WriteByte(0)
		case '\r':
			if i < len(s) && s[i] == '\n' {
				i++
			}
		case '\n', '\u2028', '\u2029':
			// line continuation
		case 'x':
			if v, ok := hexValue(s, i, 2); ok {
				b.WriteRune(rune(v))
				i += 2
				continue
			}
			b.WriteByte('x')
		case 'u':
			cp, n, ok := unicodeEscape(s, i)
			if !ok {
				b.WriteByte('u')
				continue
			}
			i += n
			if utf16.IsSurrogate(cp) && strings.HasPrefix(s[i:], `\u`) {
				if lo, m, ok := unicodeEscape(s, i+2); ok {
					if pair := utf16.DecodeRune(cp, lo); pair != utf8.RuneError {
						b.WriteRune(pair)
						i += 2 + m
						continue
					}
				}
			}
			b.WriteRune(cp)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// unicodeEscape reads the part after `\u`: four hex digits or {hex}.
func unicodeEscape(s string, i int) (rune, int, bool) {
	if i < len(s) && s[i] == '{' {
		end := strings.IndexByte(s[i:], '}')
		if end < 2 {
			return 0, 0, false
		}
		v, err := strconv.ParseUint(s[i+1:i+end], 16, 32)
		if err != nil || v > utf8.MaxRune {
			return 0, 0, false
		}
		return rune(v), end + 1, true
	}
	v, ok := hexValue(s, i, 4)
	return rune(v), 4, ok
}

func hexValue(s string, i, n int) (uint64, bool) {
	if i+n > len(s) {
		return 0, false
	}
	v, err := strconv.ParseUint(s[i:i+n], 16, 32)
	return v, err == nil
}
