package js

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tdewolff/squash/estree"
	"github.com/tdewolff/test"
)

func minifyString(t *testing.T, src string, o Options) (string, error) {
	t.Helper()
	ast, err := estree.Parse(src)
	require.NoError(t, err, src)
	code, err := Minify(ast, o)
	if err != nil {
		return "", err
	}
	return code.String(), nil
}

func TestJS(t *testing.T) {
	var jsTests = []struct {
		js       string
		expected string
	}{
		{"", ""},
		{"a  +  b", "a+b"},
		{"var a = 1;", "var a=1"},
		{"var x = 1; var y = 2; console.log(x+y);", "var x=1,y=2;console.log(x+y)"},
		{"a = 1 + 2", "a=3"},
		{"a = 'a' + 'b'", `a="ab"`},
		{"a = -(1)", "a=-1"},
		{"a = b + -c", "a=b+-c"},
		{"a = b - -c", "a=b- -c"},
		{"a = typeof b", "a=typeof b"},

		// conditionals
		{"if (true) { foo(); } else { bar(); }", "foo()"},
		{"if (false) { a() } else { b() }", "b()"},
		{"if (a) { b(); }", "a&&b()"},
		{"if (!a) b();", "a||b()"},
		{"if (a) { b(); c(); }", "a&&(b(),c())"},
		{"if (x) { a(); } else { b(); }", "x?a():b()"},
		{"if (a) b(); else c();", "a?b():c()"},
		{"x = function(){ if (a) return b; else return c }", "x=function(){return a?b:c}"},
		{"a = true ? b : c", "a=b"},
		{"a = 0 || b", "a=b"},

		// members and properties
		{"a['b']", "a.b"},
		{"a['1']", "a[1]"},
		{"a['b c']", `a["b c"]`},
		{"(1).toString()", "1..toString()"},
		{"({ 'a': 1, 'b c': 2 })", `({a:1,"b c":2})`},

		// compound assignments
		{"a = a + 1", "a+=1"},
		{"a = 2 * a", "a*=2"},
		{"a = b + a", "a=b+a"},

		// new and calls
		{"new Foo()", "new Foo"},
		{"new Foo().bar", "new Foo().bar"},
		{"(function(){ a() })()", "!function(){a()}()"},

		// loops and labels as branches
		{"var a=1,b=1;if(a){for(;b;){b=0;console.log('x')}}else console.log('!a')", `var a=1,b=1;if(a)for(;b;)b=0,console.log("x");else console.log("!a")`},
		{"if (a) { while (b) c() }", "if(a)while(b)c()"},
		{"if (a) { b: for (;;) break b } else c()", "if(a)b:for(;;)break b;else c()"},
		{"var x=0;while(x)var a=x--;var b=2;console.log(a,b)", "var x=0;while(x)var a=x--;var b=2;console.log(a,b)"},
		{"for(var k in o)var a=1;var b=2", "for(var k in o)var a=1;var b=2"},

		// written members are not folded
		{"console.log([1,2,3].length=1)", "console.log([1,2,3].length=1)"},
		{"'ab'.length = 5", `"ab".length=5`},
		{"[1,2][0] = 5", "[1,2][0]=5"},
		{"[1,2][0]++", "[1,2][0]++"},
		{"for ('ab'.length in {}) a()", `for("ab".length in{})a()`},
		{"a = delete [1,2][0]", "a=delete[1,2][0]"},
		{"a = [1,2][0]", "a=1"},

		// duplicate declarations and hoisting
		{"var a = 1; var a = 2; b(a)", "var a=1,a=2;b(a)"},
		{"function a(){ b() } function a(){ c() } a()", "function a(){b()}function a(){c()}a()"},
		{"if (false) { var a = 1 } console.log(a)", "var a;console.log(a)"},

		// removal
		{"1;", ""},
		{"function unused(){ sideEffectFree(); } 1;", ""},
		{"'use strict'; a()", `"use strict";a()`},
		{"debugger", "debugger"},
	}

	for _, tt := range jsTests {
		t.Run(tt.js, func(t *testing.T) {
			out, err := minifyString(t, tt.js, Options{})
			test.Error(t, err)
			test.String(t, out, tt.expected)
		})
	}
}

func TestMangle(t *testing.T) {
	out, err := minifyString(t, "function f(first, second){ var total = first + second; return total } f(1, 2)", Options{})
	require.NoError(t, err)

	m := regexp.MustCompile(`^function f\((\w),(\w)\)\{var (\w)=(\w)\+(\w);return (\w)\}f\(1,2\)$`).FindStringSubmatch(out)
	require.NotNil(t, m, out)
	assert.NotEqual(t, m[1], m[2])
	assert.NotEqual(t, m[1], m[3])
	assert.NotEqual(t, m[2], m[3])
	assert.Equal(t, m[1], m[4])
	assert.Equal(t, m[2], m[5])
	assert.Equal(t, m[3], m[6])
}

func TestMangleFreeNames(t *testing.T) {
	// aliases must not capture free names referenced inside the scope
	out, err := minifyString(t, "function f(value){ return a + b + c + value } f()", Options{})
	require.NoError(t, err)
	m := regexp.MustCompile(`^function f\((\w)\)\{return a\+b\+c\+(\w)\}f\(\)$`).FindStringSubmatch(out)
	require.NotNil(t, m, out)
	assert.Equal(t, m[1], m[2])
	assert.NotContains(t, []string{"a", "b", "c"}, m[1])
}

func TestMangleNested(t *testing.T) {
	// an inner alias must not capture an outer binding used inside
	out, err := minifyString(t, "function f(){ var outer = 1; function g(){ var inner = 2; return outer + inner } return g() } f()", Options{})
	require.NoError(t, err)
	m := regexp.MustCompile(`var (\w)=1;function (\w)\(\)\{var (\w)=2;return (\w)\+(\w)\}return (\w)\(\)`).FindStringSubmatch(out)
	require.NotNil(t, m, out)
	assert.Equal(t, m[1], m[4])
	assert.Equal(t, m[3], m[5])
	assert.Equal(t, m[2], m[6])
	assert.NotEqual(t, m[1], m[2])
	assert.NotEqual(t, m[1], m[3])
}

func TestFunctionExpressionName(t *testing.T) {
	// the name of a function expression is dropped when an inner declaration shadows it
	out, err := minifyString(t, "a = function f(){ var f = 1; return f }", Options{})
	require.NoError(t, err)
	m := regexp.MustCompile(`^a=function\(\)\{var (\w)=1;return (\w)\}$`).FindStringSubmatch(out)
	require.NotNil(t, m, out)
	assert.Equal(t, m[1], m[2])

	// a recursive reference keeps it
	out, err = minifyString(t, "a = function fact(n){ return n ? n * fact(n - 1) : 1 }", Options{})
	require.NoError(t, err)
	assert.Regexp(t, `^a=function (\w)\((\w)\)\{return \w\?\w\*\w\(\w-1\):1\}$`, out)
}

func TestHoistedVars(t *testing.T) {
	out, err := minifyString(t, "function f(){ if (false) { var a = 1 } return a } f()", Options{})
	require.NoError(t, err)
	m := regexp.MustCompile(`^function f\(\)\{var (\w);return (\w)\}f\(\)$`).FindStringSubmatch(out)
	require.NotNil(t, m, out)
	assert.Equal(t, m[1], m[2])
}

func TestDuplicateDeclarations(t *testing.T) {
	var valid = []string{
		"var a; var a; a()",
		"function a(){} function a(){} a()",
		"function f(a){ var a = 1; return a } f(1)",
		"try { a() } catch (e) { var e = 1 }",
		"function f(){ var a; function a(){} return a } f()",
	}
	for _, src := range valid {
		t.Run(src, func(t *testing.T) {
			_, err := minifyString(t, src, Options{})
			test.Error(t, err)
		})
	}
}

func TestActivation(t *testing.T) {
	ast, err := estree.Parse("function used(){ helper() } function helper(){} function unused(){} used()")
	require.NoError(t, err)

	p := NewProgram(ast, Options{})
	require.NoError(t, p.Analyse())
	scope := p.Scope()
	test.That(t, scope.FindDeclaration("used").Activated)
	test.That(t, scope.FindDeclaration("helper").Activated)
	test.That(t, !scope.FindDeclaration("unused").Activated)

	require.NoError(t, p.Generate())
	test.That(t, scope.FindDeclaration("used").Activated)
	test.That(t, scope.FindDeclaration("helper").Activated)
	test.String(t, p.Code().String(), "function used(){helper()}function helper(){}used()")
}

func TestErrors(t *testing.T) {
	var errorTests = []struct {
		js      string
		message string
	}{
		{"eval('x')", evalMessage},
		{"const a = 1; a = 2", "a is read-only"},
		{"let a; let a;", "a is already declared"},
		{"let a; var a;", "a is already declared"},
		{"var a; const a = 1;", "a is already declared"},
		{"function a(){} let a;", "a is already declared"},
		{"const a = 1; a++", "a is read-only"},
	}

	for _, tt := range errorTests {
		t.Run(tt.js, func(t *testing.T) {
			_, err := minifyString(t, tt.js, Options{})
			require.Error(t, err)

			var semantic *Error
			require.ErrorAs(t, err, &semantic)
			test.String(t, semantic.Message, tt.message)
			test.That(t, semantic.Start < semantic.End)
		})
	}
}

func TestDangerousEval(t *testing.T) {
	out, err := minifyString(t, "function f(value){ return eval('value') } f(1)", Options{AllowDangerousEval: true})
	test.Error(t, err)
	test.String(t, out, "function f(value){return eval(\"value\")}f(1)")
}

func TestAnalyseOnce(t *testing.T) {
	ast, err := estree.Parse("var a = 1 + 2; b(a)")
	require.NoError(t, err)

	p := NewProgram(ast, Options{})
	require.NoError(t, p.Analyse())
	test.That(t, p.Scope().Contains("a"))
	test.That(t, !p.Scope().Contains("b"))

	decl := p.Scope().FindDeclaration("a")
	require.NotNil(t, decl)
	test.That(t, decl.Activated)

	require.NoError(t, p.Generate())
	test.String(t, p.Code().String(), "var a=3;b(a)")
}
