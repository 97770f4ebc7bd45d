package js

import (
	"math"
)

func toInt32(f float64) int32 {
	return int32(toUint32(f))
}

func toUint32(f float64) uint32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	f = math.Mod(math.Trunc(f), 4294967296)
	if f < 0 {
		f += 4294967296
	}
	return uint32(f)
}

func unaryOp(op string, x Value) Value {
	if !x.Known() {
		return Unknown
	}
	switch op {
	case "!":
		return boolValue(!x.Truthy())
	case "-":
		return numberValue(-x.toNumber())
	case "+":
		return numberValue(x.toNumber())
	case "~":
		return numberValue(float64(^toInt32(x.toNumber())))
	case "typeof":
		return stringValue(x.typeOf())
	case "void":
		return undefinedValue()
	}
	return Unknown
}

func binaryOp(op string, x, y Value) Value {
	if !x.Known() || !y.Known() {
		return Unknown
	}
	switch op {
	case "==":
		return looseEquals(x, y)
	case "!=":
		if v := looseEquals(x, y); v.Known() {
			return boolValue(!v.Bool)
		}
		return Unknown
	case "===":
		return boolValue(strictEquals(x, y))
	case "!==":
		return boolValue(!strictEquals(x, y))
	case "in", "instanceof":
		return Unknown
	}

	x, y = x.primitive(), y.primitive()
	if !x.Known() || !y.Known() {
		return Unknown
	}
	switch op {
	case "+":
		if x.Kind == StringValue || y.Kind == StringValue {
			a, _ := x.toString()
			b, _ := y.toString()
			return stringValue(a + b)
		}
		return numberValue(x.toNumber() + y.toNumber())
	case "<", ">", "<=", ">=":
		return compare(op, x, y)
	}

	a, b := x.toNumber(), y.toNumber()
	switch op {
	case "-":
		return numberValue(a - b)
	case "*":
		return numberValue(a * b)
	case "/":
		return numberValue(a / b)
	case "%":
		if math.IsInf(b, 0) && !math.IsInf(a, 0) && !math.IsNaN(a) {
			return numberValue(a)
		}
		return numberValue(math.Mod(a, b))
	case "**":
		if math.IsNaN(b) || (a == 1 || a == -1) && math.IsInf(b, 0) {
			return numberValue(math.NaN())
		}
		return numberValue(math.Pow(a, b))
	case "<<":
		return numberValue(float64(toInt32(a) << (toUint32(b) & 31)))
	case ">>":
		return numberValue(float64(toInt32(a) >> (toUint32(b) & 31)))
	case ">>>":
		return numberValue(float64(toUint32(a) >> (toUint32(b) & 31)))
	case "&":
		return numberValue(float64(toInt32(a) & toInt32(b)))
	case "|":
		return numberValue(float64(toInt32(a) | toInt32(b)))
	case "^":
		return numberValue(float64(toInt32(a) ^ toInt32(b)))
	}
	return Unknown
}

func compare(op string, x, y Value) Value {
	if x.Kind == StringValue && y.Kind == StringValue {
		c := compareStrings(x.Str, y.Str)
		switch op {
		case "<":
			return boolValue(c < 0)
		case ">":
			return boolValue(0 < c)
		case "<=":
			return boolValue(c <= 0)
		}
		return boolValue(0 <= c)
	}

	a, b := x.toNumber(), y.toNumber()
	if math.IsNaN(a) || math.IsNaN(b) {
		return boolValue(false)
	}
	switch op {
	case "<":
		return boolValue(a < b)
	case ">":
		return boolValue(a > b)
	case "<=":
		return boolValue(a <= b)
	}
	return boolValue(a >= b)
}

func strictEquals(x, y Value) bool {
	if x.Kind != y.Kind {
		return false
	}
	switch x.Kind {
	case UndefinedValue, NullValue:
		return true
	case BoolValue:
		return x.Bool == y.Bool
	case NumberValue:
		return x.Num == y.Num
	case StringValue:
		return x.Str == y.Str
	}
	return false // distinct array literals are distinct objects
}

func looseEquals(x, y Value) Value {
	if x.Kind == y.Kind {
		return boolValue(strictEquals(x, y))
	} else if x.nullish() || y.nullish() {
		return boolValue(x.nullish() && y.nullish())
	}

	if x.Kind == ArrayValue {
		if x = x.primitive(); !x.Known() {
			return Unknown
		}
	}
	if y.Kind == ArrayValue {
		if y = y.primitive(); !y.Known() {
			return Unknown
		}
	}
	if x.Kind == StringValue && y.Kind == StringValue {
		return boolValue(x.Str == y.Str)
	}
	a, b := x.toNumber(), y.toNumber()
	return boolValue(a == b)
}

// logicalOp evaluates a logical expression whose left operand is known, the right operand is only needed when it is evaluated.
func logicalOp(op string, x Value, right func() Value) Value {
	if !x.Known() {
		return Unknown
	}
	switch op {
	case "&&":
		if !x.Truthy() {
			return x
		}
	case "||":
		if x.Truthy() {
			return x
		}
	case "??":
		if !x.nullish() {
			return x
		}
	}
	return right()
}

// shortCircuits returns true if the right operand of a logical expression with a known left operand is never evaluated.
func shortCircuits(op string, x Value) bool {
	switch op {
	case "&&":
		return !x.Truthy()
	case "||":
		return x.Truthy()
	}
	return !x.nullish()
}
