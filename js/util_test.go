package js

import (
	"math"
	"testing"

	"github.com/tdewolff/test"
)

func TestNumberToString(t *testing.T) {
	var numberTests = []struct {
		f        float64
		expected string
	}{
		{0, "0"},
		{1, "1"},
		{-1.5, "-1.5"},
		{0.1, "0.1"},
		{1e21, "1e+21"},
		{1e-7, "1e-7"},
		{123456789, "123456789"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "Infinity"},
	}
	for _, tt := range numberTests {
		t.Run(tt.expected, func(t *testing.T) {
			test.String(t, numberToString(tt.f), tt.expected)
		})
	}
}

func TestMinifyNumber(t *testing.T) {
	var numberTests = []struct {
		f        float64
		expected string
	}{
		{0, "0"},
		{0.5, ".5"},
		{1000, "1e3"},
		{100, "100"},
		{1e21, "1e21"},
		{123.25, "123.25"},
	}
	for _, tt := range numberTests {
		t.Run(tt.expected, func(t *testing.T) {
			test.String(t, minifyNumber(tt.f), tt.expected)
		})
	}
}

func TestStringToNumber(t *testing.T) {
	test.Float(t, stringToNumber(""), 0)
	test.Float(t, stringToNumber("  12  "), 12)
	test.Float(t, stringToNumber("0x1F"), 31)
	test.Float(t, stringToNumber("1e3"), 1000)
	test.That(t, math.IsNaN(stringToNumber("12px")))
	test.That(t, math.IsInf(stringToNumber("-Infinity"), -1))
}

func TestStringify(t *testing.T) {
	var valueTests = []struct {
		v        Value
		expected string
	}{
		{undefinedValue(), "void 0"},
		{nullValue(), "null"},
		{boolValue(true), "!0"},
		{boolValue(false), "!1"},
		{numberValue(-2), "-2"},
		{numberValue(math.Inf(1)), "1/0"},
		{numberValue(math.Copysign(0, -1)), "-0"},
		{stringValue(`it's`), `"it's"`},
		{stringValue(`say "hi"`), `'say "hi"'`},
		{stringValue("a\nb"), `"a\nb"`},
		{Value{Kind: ArrayValue, Arr: []Value{numberValue(1), stringValue("b")}}, `[1,"b"]`},
	}
	for _, tt := range valueTests {
		t.Run(tt.expected, func(t *testing.T) {
			test.String(t, stringify(tt.v), tt.expected)
		})
	}
}

func TestTruthy(t *testing.T) {
	test.That(t, !undefinedValue().Truthy())
	test.That(t, !nullValue().Truthy())
	test.That(t, !numberValue(math.NaN()).Truthy())
	test.That(t, !stringValue("").Truthy())
	test.That(t, stringValue("0").Truthy())
	test.That(t, Value{Kind: ArrayValue}.Truthy())
	test.That(t, !Unknown.Known())
}

func TestNumericKey(t *testing.T) {
	var keyTests = []struct {
		key      string
		expected string
		ok       bool
	}{
		{"1", "1", true},
		{"1000", "1e3", true},
		{"0.5", ".5", true},
		{"01", "", false},
		{"-1", "", false},
		{"1.0", "", false},
		{"Infinity", "", false},
		{"NaN", "", false},
		{"", "", false},
	}
	for _, tt := range keyTests {
		t.Run(tt.key, func(t *testing.T) {
			key, ok := numericKey(tt.key)
			test.T(t, ok, tt.ok)
			test.String(t, key, tt.expected)
		})
	}
}

func TestIsIdentifierName(t *testing.T) {
	test.That(t, isIdentifierName("a"))
	test.That(t, isIdentifierName("$_a1"))
	test.That(t, !isIdentifierName("1a"))
	test.That(t, !isIdentifierName("b c"))
	test.That(t, !isIdentifierName("if"))
	test.That(t, !isIdentifierName(""))
	test.That(t, !isIdentifierName("é"))
}

func TestIsDigits(t *testing.T) {
	test.That(t, isDigits("123"))
	test.That(t, !isDigits("1.5"))
	test.That(t, !isDigits(""))
}

func TestOps(t *testing.T) {
	test.T(t, binaryOp("+", numberValue(1), stringValue("2")), stringValue("12"))
	test.T(t, binaryOp("-", stringValue("5"), numberValue(2)), numberValue(3))
	test.T(t, binaryOp("|", numberValue(5.5), numberValue(2)), numberValue(7))
	test.T(t, binaryOp(">>>", numberValue(-1), numberValue(28)), numberValue(15))
	test.T(t, binaryOp("===", numberValue(1), stringValue("1")), boolValue(false))
	test.T(t, binaryOp("==", numberValue(1), stringValue("1")), boolValue(true))
	test.T(t, binaryOp("==", nullValue(), undefinedValue()), boolValue(true))
	test.T(t, binaryOp("+", Unknown, numberValue(1)), Unknown)
	test.T(t, unaryOp("!", stringValue("")), boolValue(true))
	test.T(t, unaryOp("typeof", nullValue()), stringValue("object"))
	test.T(t, unaryOp("void", numberValue(0)), undefinedValue())

	test.That(t, shortCircuits("||", boolValue(true)))
	test.That(t, !shortCircuits("||", numberValue(0)))
	test.That(t, shortCircuits("??", numberValue(0)))
	test.That(t, !shortCircuits("??", nullValue()))
}

func TestBuiltins(t *testing.T) {
	arr := Value{Kind: ArrayValue, Arr: []Value{numberValue(1), numberValue(2), numberValue(3)}}
	test.T(t, memberValue(arr, "length"), numberValue(3))
	test.T(t, memberValue(arr, "1"), numberValue(2))
	test.T(t, memberValue(stringValue("abc"), "length"), numberValue(3))
	test.T(t, callMethod(arr, "join", []Value{stringValue("-")}), stringValue("1-2-3"))
	test.T(t, callMethod(arr, "indexOf", []Value{numberValue(3)}), numberValue(2))
	test.T(t, callMethod(stringValue("abc"), "toUpperCase", nil), stringValue("ABC"))
	test.T(t, callMethod(stringValue("abc"), "slice", []Value{numberValue(-2)}), stringValue("bc"))
	test.T(t, callMethod(stringValue("abc"), "charAt", []Value{numberValue(5)}), stringValue(""))
	test.T(t, callMethod(numberValue(1), "toString", nil), Unknown)
	test.T(t, callMethod(stringValue("abc"), "noSuchMethod", nil), Unknown)
}

func TestAlias(t *testing.T) {
	test.String(t, alias(naturalAlphabet, 0), "a")
	test.String(t, alias(naturalAlphabet, 53), "$")
	test.String(t, alias(naturalAlphabet, 54), "aa")
	test.String(t, alias(naturalAlphabet, 55), "ba")

	freq := CharFreq{}
	freq.AddWord("zzz0000")
	alphabet := freq.Alphabet()
	test.T(t, alphabet[0], byte('z'))
	test.T(t, alphabet[54], byte('0'))
	test.T(t, len(alphabet), 64)
}
