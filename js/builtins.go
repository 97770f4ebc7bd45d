package js

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"
)

// safeMethods lists the methods of primitives and array literals that are evaluated at compile time.
var safeMethods = map[ValueKind]map[string]bool{
	ArrayValue: {
		"concat": true, "indexOf": true, "join": true, "lastIndexOf": true, "reverse": true,
		"slice": true, "sort": true, "toString": true,
	},
	StringValue: {
		"charAt": true, "charCodeAt": true, "codePointAt": true, "concat": true, "endsWith": true,
		"includes": true, "indexOf": true, "lastIndexOf": true, "slice": true, "startsWith": true,
		"substr": true, "substring": true, "toLowerCase": true, "toString": true, "toUpperCase": true,
		"trim": true, "trimLeft": true, "trimRight": true, "valueOf": true,
	},
}

// arrayIndex returns the integer index of a canonical numeric property name.
func arrayIndex(key string) (int, bool) {
	if key == "" || 10 < len(key) || 1 < len(key) && key[0] == '0' {
		return 0, false
	}
	i, err := strconv.Atoi(key)
	return i, err == nil && 0 <= i
}

// memberValue returns the value of a property of a known value, methods are not values.
func memberValue(obj Value, key string) Value {
	switch obj.Kind {
	case StringValue:
		units := toUTF16(obj.Str)
		if key == "length" {
			return numberValue(float64(len(units)))
		} else if i, ok := arrayIndex(key); ok {
			if len(units) <= i {
				return undefinedValue()
			} else if s, ok := fromUTF16(units[i : i+1]); ok {
				return stringValue(s)
			}
		}
	case ArrayValue:
		if key == "length" {
			return numberValue(float64(len(obj.Arr)))
		} else if i, ok := arrayIndex(key); ok {
			if len(obj.Arr) <= i {
				return undefinedValue()
			}
			return obj.Arr[i]
		}
	}
	return Unknown
}

// propertyKey converts a computed property value to a property name.
func propertyKey(v Value) (string, bool) {
	switch v.Kind {
	case StringValue, NumberValue, BoolValue, NullValue, UndefinedValue:
		return v.toString()
	}
	return "", false
}

// toInteger converts an argument like ToIntegerOrInfinity, undefined arguments take the default.
func toInteger(args []Value, i int, def float64) float64 {
	if len(args) <= i || args[i].Kind == UndefinedValue {
		return def
	}
	f := args[i].toNumber()
	if math.IsNaN(f) {
		return 0
	}
	return math.Trunc(f)
}

// relativeIndex clamps a relative index as used by slice.
func relativeIndex(f float64, n int) int {
	if f < 0 {
		f += float64(n)
		if f < 0 {
			return 0
		}
	} else if float64(n) < f {
		return n
	}
	return int(f)
}

func clampIndex(f float64, n int) int {
	if f < 0 {
		return 0
	} else if float64(n) < f {
		return n
	}
	return int(f)
}

func argString(args []Value, i int) (string, bool) {
	if len(args) <= i {
		return "undefined", true
	}
	return args[i].primitive().toString()
}

// callMethod evaluates a safe method call on a known value.
func callMethod(obj Value, name string, args []Value) Value {
	if !safeMethods[obj.Kind][name] {
		return Unknown
	}
	for _, arg := range args {
		if !arg.Known() {
			return Unknown
		}
	}
	if obj.Kind == ArrayValue {
		return callArrayMethod(obj.Arr, name, args)
	}
	return callStringMethod(obj.Str, name, args)
}

func callArrayMethod(arr []Value, name string, args []Value) Value {
	switch name {
	case "concat":
		res := append([]Value{}, arr...)
		for _, arg := range args {
			if arg.Kind == ArrayValue {
				res = append(res, arg.Arr...)
			} else {
				res = append(res, arg)
			}
		}
		return Value{Kind: ArrayValue, Arr: res}
	case "indexOf", "lastIndexOf":
		var x Value
		if 0 < len(args) {
			x = args[0]
		} else {
			x = undefinedValue()
		}
		if name == "indexOf" {
			from := relativeIndex(toInteger(args, 1, 0), len(arr))
			for i := from; i < len(arr); i++ {
				if strictEquals(arr[i], x) {
					return numberValue(float64(i))
				}
			}
		} else {
			from := toInteger(args, 1, float64(len(arr)-1))
			if from < 0 {
				from += float64(len(arr))
			}
			for i := int(math.Min(from, float64(len(arr)-1))); 0 <= i; i-- {
				if strictEquals(arr[i], x) {
					return numberValue(float64(i))
				}
			}
		}
		return numberValue(-1)
	case "join", "toString":
		sep := ","
		if name == "join" && 0 < len(args) && args[0].Kind != UndefinedValue {
			var ok bool
			if sep, ok = args[0].primitive().toString(); !ok {
				return Unknown
			}
		}
		sb := strings.Builder{}
		for i, item := range arr {
			if 0 < i {
				sb.WriteString(sep)
			}
			if item.nullish() {
				continue
			}
			s, ok := item.toString()
			if !ok {
				return Unknown
			}
			sb.WriteString(s)
		}
		return stringValue(sb.String())
	case "reverse":
		res := make([]Value, len(arr))
		for i, item := range arr {
			res[len(arr)-1-i] = item
		}
		return Value{Kind: ArrayValue, Arr: res}
	case "slice":
		start := relativeIndex(toInteger(args, 0, 0), len(arr))
		end := relativeIndex(toInteger(args, 1, float64(len(arr))), len(arr))
		if end < start {
			end = start
		}
		return Value{Kind: ArrayValue, Arr: append([]Value{}, arr[start:end]...)}
	case "sort":
		if 0 < len(args) {
			return Unknown // comparator functions are never known
		}
		keys := make([]string, len(arr))
		for i, item := range arr {
			if item.Kind == UndefinedValue {
				continue
			}
			s, ok := item.toString()
			if !ok {
				return Unknown
			}
			keys[i] = s
		}
		idx := make([]int, len(arr))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(i, j int) bool {
			a, b := arr[idx[i]], arr[idx[j]]
			if a.Kind == UndefinedValue || b.Kind == UndefinedValue {
				return b.Kind == UndefinedValue && a.Kind != UndefinedValue
			}
			return compareStrings(keys[idx[i]], keys[idx[j]]) < 0
		})
		res := make([]Value, len(arr))
		for i, j := range idx {
			res[i] = arr[j]
		}
		return Value{Kind: ArrayValue, Arr: res}
	}
	return Unknown
}

func callStringMethod(s string, name string, args []Value) Value {
	switch name {
	case "toString", "valueOf":
		return stringValue(s)
	case "toLowerCase", "toUpperCase":
		if !isASCII(s) {
			return Unknown
		} else if name == "toLowerCase" {
			return stringValue(strings.ToLower(s))
		}
		return stringValue(strings.ToUpper(s))
	case "trim":
		return stringValue(strings.TrimFunc(s, isWhiteSpace))
	case "trimLeft":
		return stringValue(strings.TrimLeftFunc(s, isWhiteSpace))
	case "trimRight":
		return stringValue(strings.TrimRightFunc(s, isWhiteSpace))
	case "concat":
		sb := strings.Builder{}
		sb.WriteString(s)
		for i := range args {
			t, ok := argString(args, i)
			if !ok {
				return Unknown
			}
			sb.WriteString(t)
		}
		return stringValue(sb.String())
	}

	units := toUTF16(s)
	n := len(units)
	switch name {
	case "charAt":
		i := toInteger(args, 0, 0)
		if i < 0 || float64(n) <= i {
			return stringValue("")
		}
		return substring(units, int(i), int(i)+1)
	case "charCodeAt", "codePointAt":
		i := toInteger(args, 0, 0)
		if i < 0 || float64(n) <= i {
			if name == "codePointAt" {
				return undefinedValue()
			}
			return numberValue(math.NaN())
		}
		u := units[int(i)]
		if name == "codePointAt" && 0xD800 <= u && u <= 0xDBFF && int(i)+1 < n {
			if low := units[int(i)+1]; 0xDC00 <= low && low <= 0xDFFF {
				return numberValue(float64(utf16.DecodeRune(rune(u), rune(low))))
			}
		}
		return numberValue(float64(u))
	case "slice":
		start := relativeIndex(toInteger(args, 0, 0), n)
		end := relativeIndex(toInteger(args, 1, float64(n)), n)
		if end < start {
			end = start
		}
		return substring(units, start, end)
	case "substring":
		start := clampIndex(toInteger(args, 0, 0), n)
		end := clampIndex(toInteger(args, 1, float64(n)), n)
		if end < start {
			start, end = end, start
		}
		return substring(units, start, end)
	case "substr":
		start := relativeIndex(toInteger(args, 0, 0), n)
		length := toInteger(args, 1, math.Inf(1))
		end := clampIndex(float64(start)+math.Max(length, 0), n)
		if end < start {
			end = start
		}
		return substring(units, start, end)
	}

	search, ok := argString(args, 0)
	if !ok {
		return Unknown
	}
	sub := toUTF16(search)
	switch name {
	case "indexOf", "includes":
		from := clampIndex(toInteger(args, 1, 0), n)
		i := indexUnits(units, sub, from)
		if name == "includes" {
			return boolValue(i != -1)
		}
		return numberValue(float64(i))
	case "lastIndexOf":
		from := float64(n)
		if 1 < len(args) {
			if f := args[1].toNumber(); !math.IsNaN(f) {
				from = math.Trunc(f)
			}
		}
		pos := clampIndex(from, n)
		for i := pos; 0 <= i; i-- {
			if i+len(sub) <= n && equalUnits(units[i:i+len(sub)], sub) {
				return numberValue(float64(i))
			}
		}
		return numberValue(-1)
	case "startsWith":
		pos := clampIndex(toInteger(args, 1, 0), n)
		return boolValue(pos+len(sub) <= n && equalUnits(units[pos:pos+len(sub)], sub))
	case "endsWith":
		end := clampIndex(toInteger(args, 1, float64(n)), n)
		return boolValue(len(sub) <= end && equalUnits(units[end-len(sub):end], sub))
	}
	return Unknown
}

func substring(units []uint16, start, end int) Value {
	if s, ok := fromUTF16(units[start:end]); ok {
		return stringValue(s)
	}
	return Unknown
}

func equalUnits(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func indexUnits(units, sub []uint16, from int) int {
	for i := from; i+len(sub) <= len(units); i++ {
		if equalUnits(units[i:i+len(sub)], sub) {
			return i
		}
	}
	return -1
}

// fromCharCode evaluates String.fromCharCode and String.fromCodePoint.
func fromCharCode(codePoint bool, args []Value) Value {
	units := make([]uint16, 0, len(args))
	for _, arg := range args {
		if !arg.Known() {
			return Unknown
		}
		f := arg.toNumber()
		if !codePoint {
			units = append(units, uint16(toUint32(f)))
			continue
		}
		if f != math.Trunc(f) || f < 0 || 0x10FFFF < f {
			return Unknown // RangeError at runtime
		}
		r1, r2 := utf16.EncodeRune(rune(f))
		if r1 == 0xFFFD && r2 == 0xFFFD {
			units = append(units, uint16(f))
		} else {
			units = append(units, uint16(r1), uint16(r2))
		}
	}
	if s, ok := fromUTF16(units); ok {
		return stringValue(s)
	}
	return Unknown
}
