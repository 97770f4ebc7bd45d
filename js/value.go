package js

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// ValueKind is the type of a compile-time value.
type ValueKind uint8

// ValueKind values.
const (
	UnknownValue ValueKind = iota
	UndefinedValue
	NullValue
	BoolValue
	NumberValue
	StringValue
	ArrayValue
)

// Value is the result of evaluating an expression at compile time. The zero value is Unknown.
type Value struct {
	Kind ValueKind
	Bool bool
	Num  float64
	Str  string
	Arr  []Value
}

// Unknown is the value of expressions that cannot be evaluated at compile time.
var Unknown = Value{}

func undefinedValue() Value       { return Value{Kind: UndefinedValue} }
func nullValue() Value            { return Value{Kind: NullValue} }
func boolValue(b bool) Value      { return Value{Kind: BoolValue, Bool: b} }
func numberValue(f float64) Value { return Value{Kind: NumberValue, Num: f} }
func stringValue(s string) Value  { return Value{Kind: StringValue, Str: s} }

// Known returns true if the value is not Unknown.
func (v Value) Known() bool {
	return v.Kind != UnknownValue
}

// Truthy converts the value to a boolean like ToBoolean does.
func (v Value) Truthy() bool {
	switch v.Kind {
	case BoolValue:
		return v.Bool
	case NumberValue:
		return v.Num != 0 && !math.IsNaN(v.Num)
	case StringValue:
		return v.Str != ""
	case ArrayValue:
		return true
	}
	return false
}

func (v Value) nullish() bool {
	return v.Kind == UndefinedValue || v.Kind == NullValue
}

// primitive converts arrays to their string form, all other values are primitive already.
func (v Value) primitive() Value {
	if v.Kind == ArrayValue {
		s, ok := v.toString()
		if !ok {
			return Unknown
		}
		return stringValue(s)
	}
	return v
}

func (v Value) toNumber() float64 {
	switch v.Kind {
	case NullValue:
		return 0
	case BoolValue:
		if v.Bool {
			return 1
		}
		return 0
	case NumberValue:
		return v.Num
	case StringValue:
		return stringToNumber(v.Str)
	case ArrayValue:
		if s, ok := v.toString(); ok {
			return stringToNumber(s)
		}
	}
	return math.NaN()
}

func (v Value) toString() (string, bool) {
	switch v.Kind {
	case UndefinedValue:
		return "undefined", true
	case NullValue:
		return "null", true
	case BoolValue:
		if v.Bool {
			return "true", true
		}
		return "false", true
	case NumberValue:
		return numberToString(v.Num), true
	case StringValue:
		return v.Str, true
	case ArrayValue:
		sb := strings.Builder{}
		for i, item := range v.Arr {
			if 0 < i {
				sb.WriteByte(',')
			}
			if item.nullish() {
				continue
			}
			s, ok := item.toString()
			if !ok {
				return "", false
			}
			sb.WriteString(s)
		}
		return sb.String(), true
	}
	return "", false
}

func (v Value) typeOf() string {
	switch v.Kind {
	case UndefinedValue:
		return "undefined"
	case BoolValue:
		return "boolean"
	case NumberValue:
		return "number"
	case StringValue:
		return "string"
	}
	return "object"
}

////////////////////////////////////////////////////////////////

func isWhiteSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', 0xA0, 0x1680, 0x2028, 0x2029, 0x202F, 0x205F, 0x3000, 0xFEFF:
		return true
	}
	return 0x2000 <= r && r <= 0x200A
}

// stringToNumber converts a string like the StringToNumber abstract operation.
func stringToNumber(s string) float64 {
	s = strings.TrimFunc(s, isWhiteSpace)
	if s == "" {
		return 0
	}
	if 2 < len(s) && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			f := 0.0
			for i := 2; i < len(s); i++ {
				d := digitValue(s[i])
				if d < 0 || base <= d {
					return math.NaN()
				}
				f = f*float64(base) + float64(d)
			}
			return f
		}
	}

	t := s
	if t[0] == '+' || t[0] == '-' {
		t = t[1:]
	}
	if t == "Infinity" {
		if s[0] == '-' {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}
	digits, dot, exp := 0, false, false
	for i := 0; i < len(t); i++ {
		c := t[i]
		switch {
		case '0' <= c && c <= '9':
			digits++
		case c == '.' && !dot && !exp:
			dot = true
		case (c == 'e' || c == 'E') && 0 < digits && !exp:
			exp = true
			if i+1 < len(t) && (t[i+1] == '+' || t[i+1] == '-') {
				i++
			}
			if i+1 == len(t) {
				return math.NaN()
			}
		default:
			return math.NaN()
		}
	}
	if digits == 0 {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !math.IsInf(f, 0) {
		return math.NaN()
	}
	return f
}

func digitValue(c byte) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'a' <= c && c <= 'z':
		return int(c-'a') + 10
	case 'A' <= c && c <= 'Z':
		return int(c-'A') + 10
	}
	return -1
}

// shortestDigits returns the shortest digits that round-trip f > 0 and the decimal exponent n such that f = 0.digits * 10^n.
func shortestDigits(f float64) (string, int) {
	b := strconv.AppendFloat(nil, f, 'e', -1, 64)
	e := strings.IndexByte(string(b), 'e')
	exp, _ := strconv.Atoi(string(b[e+1:]))
	digits := make([]byte, 0, e)
	for _, c := range b[:e] {
		if c != '.' {
			digits = append(digits, c)
		}
	}
	return string(digits), exp + 1
}

// numberToString converts a number like the Number::toString operation.
func numberToString(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	} else if f == 0 {
		return "0"
	} else if math.IsInf(f, 1) {
		return "Infinity"
	} else if math.IsInf(f, -1) {
		return "-Infinity"
	} else if f < 0 {
		return "-" + numberToString(-f)
	}

	s, n := shortestDigits(f)
	k := len(s)
	if k <= n && n <= 21 {
		return s + strings.Repeat("0", n-k)
	} else if 0 < n && n <= 21 {
		return s[:n] + "." + s[n:]
	} else if -6 < n && n <= 0 {
		return "0." + strings.Repeat("0", -n) + s
	}

	sign := "+"
	if n-1 < 0 {
		sign = "-"
	}
	exp := strconv.Itoa(abs(n - 1))
	if k == 1 {
		return s + "e" + sign + exp
	}
	return s[:1] + "." + s[1:] + "e" + sign + exp
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// minifyNumber returns the shortest literal for a finite non-negative number.
func minifyNumber(f float64) string {
	s := numberToString(f)
	if strings.HasPrefix(s, "0.") {
		s = s[1:]
	}
	s = strings.Replace(s, "e+", "e", 1)
	if f == 0 {
		return s
	}

	digits, n := shortestDigits(f)
	if exp := n - len(digits); exp != 0 {
		if alt := digits + "e" + strconv.Itoa(exp); len(alt) < len(s) {
			return alt
		}
	}
	return s
}

// stringify returns the shortest source text for a known value.
func stringify(v Value) string {
	switch v.Kind {
	case UndefinedValue:
		return "void 0"
	case NullValue:
		return "null"
	case BoolValue:
		if v.Bool {
			return "!0"
		}
		return "!1"
	case NumberValue:
		if math.IsNaN(v.Num) {
			return "NaN"
		} else if math.IsInf(v.Num, 1) {
			return "1/0"
		} else if math.IsInf(v.Num, -1) {
			return "-1/0"
		} else if v.Num == 0 && math.Signbit(v.Num) {
			return "-0"
		} else if v.Num < 0 {
			return "-" + minifyNumber(-v.Num)
		}
		return minifyNumber(v.Num)
	case StringValue:
		return quoteString(v.Str)
	case ArrayValue:
		sb := strings.Builder{}
		sb.WriteByte('[')
		for i, item := range v.Arr {
			if 0 < i {
				sb.WriteByte(',')
			}
			sb.WriteString(stringify(item))
		}
		sb.WriteByte(']')
		return sb.String()
	}
	return ""
}

// quoteString quotes s with the quote character that needs the fewest escapes, preferring double quotes.
func quoteString(s string) string {
	quote := byte('"')
	if strings.Count(s, "'") < strings.Count(s, `"`) {
		quote = '\''
	}

	sb := strings.Builder{}
	sb.Grow(len(s) + 2)
	sb.WriteByte(quote)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case quote, '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case 0:
			if i+1 < len(s) && '0' <= s[i+1] && s[i+1] <= '9' {
				sb.WriteString(`\x00`)
			} else {
				sb.WriteString(`\0`)
			}
		case 0xE2:
			if strings.HasPrefix(s[i:], "\u2028") {
				sb.WriteString(`\u2028`)
				i += 2
			} else if strings.HasPrefix(s[i:], "\u2029") {
				sb.WriteString(`\u2029`)
				i += 2
			} else {
				sb.WriteByte(c)
			}
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte(quote)
	return sb.String()
}

// valuePrecedence is the precedence of the text that stringify returns.
func valuePrecedence(v Value) int {
	switch v.Kind {
	case UndefinedValue, BoolValue:
		return 16
	case NumberValue:
		if math.IsInf(v.Num, 0) {
			return 14
		} else if v.Num < 0 || v.Num == 0 && math.Signbit(v.Num) {
			return 16
		}
	}
	return 21
}

////////////////////////////////////////////////////////////////

// toUTF16 returns the code units of a string.
func toUTF16(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

// fromUTF16 returns the string of code units, it fails for lone surrogates.
func fromUTF16(units []uint16) (string, bool) {
	sb := strings.Builder{}
	for i := 0; i < len(units); i++ {
		u := units[i]
		if utf16.IsSurrogate(rune(u)) {
			if u < 0xDC00 && i+1 < len(units) && 0xDC00 <= units[i+1] && units[i+1] <= 0xDFFF {
				sb.WriteRune(utf16.DecodeRune(rune(u), rune(units[i+1])))
				i++
				continue
			}
			return "", false
		}
		sb.WriteRune(rune(u))
	}
	return sb.String(), true
}

// compareStrings compares two strings by their UTF-16 code units.
func compareStrings(a, b string) int {
	if isASCII(a) && isASCII(b) {
		return strings.Compare(a, b)
	}
	ua, ub := toUTF16(a), toUTF16(b)
	for i := 0; i < len(ua) && i < len(ub); i++ {
		if ua[i] != ub[i] {
			if ua[i] < ub[i] {
				return -1
			}
			return 1
		}
	}
	return len(ua) - len(ub)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if utf8.RuneSelf <= s[i] {
			return false
		}
	}
	return true
}
