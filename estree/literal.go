package estree

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// parseNumber returns the value of a numeric literal and whether it is a BigInt literal.
func parseNumber(raw string) (float64, bool) {
	s := strings.ReplaceAll(raw, "_", "")
	if strings.HasSuffix(s, "n") {
		return math.NaN(), true
	}

	base := 0
	if 2 < len(s) && s[0] == '0' {
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			s = s[2:]
		}
	}
	if base == 0 && 1 < len(s) && s[0] == '0' && strings.Trim(s, "01234567") == "" {
		base = 8 // legacy octal
	}
	if base == 0 {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil && !math.IsInf(f, 0) {
			return math.NaN(), false
		}
		return f, false
	}

	f := 0.0
	for i := 0; i < len(s); i++ {
		f = f*float64(base) + float64(hexValue(s[i]))
	}
	return f, false
}

func hexValue(c byte) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'a' <= c && c <= 'f':
		return int(c-'a') + 10
	case 'A' <= c && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

func parseHex(s string) (rune, bool) {
	if len(s) == 0 || 6 < len(s) {
		return 0, false
	}
	r := rune(0)
	for i := 0; i < len(s); i++ {
		v := hexValue(s[i])
		if v < 0 {
			return 0, false
		}
		r = r*16 + rune(v)
	}
	return r, r <= utf8.MaxRune
}

// decodeEscapes returns the value of the contents of a string literal or template element. It reports whether the value has lone surrogates, which are replaced by U+FFFD, and whether an escape sequence is invalid. Templates do not allow legacy octal escapes and normalize line terminators.
func decodeEscapes(s string, template bool) (string, bool, bool) {
	if strings.IndexByte(s, '\\') == -1 && (!template || strings.IndexByte(s, '\r') == -1) {
		return s, false, false
	}

	lossy := false
	sb := strings.Builder{}
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\r' && template {
			sb.WriteByte('\n')
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			continue
		} else if c != '\\' {
			sb.WriteByte(c)
			continue
		}

		i++
		if len(s) <= i {
			return "", false, true
		}
		switch c = s[i]; c {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'v':
			sb.WriteByte('\v')
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
		case '\n':
		case '0', '1', '2', '3', '4', '5', '6', '7':
			n := 1
			if c <= '3' {
				for n < 3 && i+n < len(s) && '0' <= s[i+n] && s[i+n] <= '7' {
					n++
				}
			} else if i+1 < len(s) && '0' <= s[i+1] && s[i+1] <= '7' {
				n = 2
			}
			if c == '0' && n == 1 && (len(s) <= i+1 || s[i+1] < '0' || '9' < s[i+1]) {
				sb.WriteByte(0)
				continue
			} else if template {
				return "", false, true
			}
			v, _ := strconv.ParseUint(s[i:i+n], 8, 8)
			sb.WriteRune(rune(v))
			i += n - 1
		case '8', '9':
			if template {
				return "", false, true
			}
			sb.WriteByte(c)
		case 'x':
			if len(s) < i+3 {
				return "", false, true
			}
			r, ok := parseHex(s[i+1 : i+3])
			if !ok {
				return "", false, true
			}
			sb.WriteRune(r)
			i += 2
		case 'u':
			r, n, ok := parseUnicodeEscape(s[i+1:])
			if !ok {
				return "", false, true
			}
			i += n
			if 0xD800 <= r && r <= 0xDBFF && i+2 < len(s) && s[i+1] == '\\' && s[i+2] == 'u' {
				if low, m, ok := parseUnicodeEscape(s[i+3:]); ok && 0xDC00 <= low && low <= 0xDFFF {
					r = 0x10000 + (r-0xD800)<<10 + (low - 0xDC00)
					i += 2 + m
				}
			}
			if 0xD800 <= r && r <= 0xDFFF {
				lossy = true
				r = utf8.RuneError
			}
			sb.WriteRune(r)
		default:
			if strings.HasPrefix(s[i:], "\u2028") || strings.HasPrefix(s[i:], "\u2029") {
				i += 2 // line continuation
			} else {
				sb.WriteByte(c)
			}
		}
	}
	return sb.String(), lossy, false
}

// parseUnicodeEscape parses the part after \u, either four hex digits or a code point between braces, and returns the number of bytes read.
func parseUnicodeEscape(s string) (rune, int, bool) {
	if 0 < len(s) && s[0] == '{' {
		end := strings.IndexByte(s, '}')
		if end == -1 {
			return 0, 0, false
		}
		r, ok := parseHex(s[1:end])
		return r, end + 1, ok
	} else if len(s) < 4 {
		return 0, 0, false
	}
	r, ok := parseHex(s[:4])
	return r, 4, ok
}
