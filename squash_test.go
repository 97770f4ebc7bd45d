package squash

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tdewolff/squash/estree"
	"github.com/tdewolff/test"
)

func TestMinify(t *testing.T) {
	var jsTests = []struct {
		js       string
		expected string
	}{
		{"if (true) { foo(); } else { bar(); }", "foo()"},
		{"function unused(){ sideEffectFree(); } 1;", ""},
		{"if (x) { a(); } else { b(); }", "x?a():b()"},
		{"var x = 1; var y = 2; console.log(x+y);", "var x=1,y=2;console.log(x+y)"},
		{"a = 60 * 60 * 24", "a=86400"},
		{"for (var i = 0; i < 10; i++) { a(i); }", "for(var i=0;i<10;i++)a(i)"},
	}

	for _, tt := range jsTests {
		t.Run(tt.js, func(t *testing.T) {
			res, err := Minify(tt.js, Options{Check: true})
			require.NoError(t, err, tt.js)
			test.Minify(t, tt.js, nil, res.Code, tt.expected)
		})
	}
}

func TestMinifyMangled(t *testing.T) {
	res, err := Minify("(function(){ var first = 1; var second = 2; console.log(first + second); })()", Options{Check: true})
	require.NoError(t, err)
	// aliases are single characters, distinct and not reserved
	assert.Regexp(t, `^!function\(\)\{var (\w)=1,(\w)=2;console\.log\((\w)\+(\w)\)\}\(\)$`, res.Code)
	test.That(t, res.Code[len("!function(){var ")] != res.Code[len("!function(){var n=1,")], res.Code)
}

func TestSourceMap(t *testing.T) {
	res, err := Minify("var a = 1;\nif (a) { b(); }", Options{File: "out.js", Source: "in.js"})
	require.NoError(t, err)
	require.NotNil(t, res.Map)
	test.T(t, res.Map.File, "out.js")
	test.T(t, res.Map.Sources, []string{"in.js"})
	test.T(t, res.Map.SourcesContent, []string{"var a = 1;\nif (a) { b(); }"})
	test.That(t, 0 < len(res.Map.Mappings))
	test.That(t, strings.HasPrefix(res.Map.URL(), "data:application/json;charset=utf-8;base64,"))

	noMap, noContent := false, false
	res, err = Minify("a()", Options{SourceMap: &noMap})
	require.NoError(t, err)
	test.That(t, res.Map == nil)

	res, err = Minify("a()", Options{IncludeContent: &noContent})
	require.NoError(t, err)
	test.That(t, res.Map.SourcesContent == nil)
}

func TestStats(t *testing.T) {
	res, err := Minify("a()", Options{Check: true})
	require.NoError(t, err)
	test.T(t, res.Stats.Labels(), []string{"parse", "analyse", "generate", "render", "check"})
	test.That(t, 0 <= res.Stats.Total())
	test.That(t, strings.HasPrefix(res.Stats.String(), "parse "))
}

func TestCompileError(t *testing.T) {
	src := "var a = 1;\nfunction f() {\n\tconst b = 2;\n\tb = 3;\n}\nf();"
	_, err := Minify(src, Options{})
	require.Error(t, err)

	var compileErr *CompileError
	require.True(t, errors.As(err, &compileErr))
	test.T(t, compileErr.Kind, SemanticError)
	test.String(t, compileErr.Message, "b is read-only")
	test.T(t, compileErr.Line, 4)
	test.T(t, compileErr.Column, 2)
	test.T(t, compileErr.Width, 1)
	test.String(t, compileErr.Error(), "b is read-only (4:2)")
	test.String(t, compileErr.Snippet, "2 : function f() {\n3 :   const b = 2;\n4 :   b = 3;\n      ^\n5 : }\n6 : f();\n")
}

func TestSyntaxError(t *testing.T) {
	_, err := Minify("var = 1", Options{})
	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	test.T(t, compileErr.Kind, SyntaxError)
	test.T(t, compileErr.Line, 1)
	test.That(t, strings.HasPrefix(compileErr.Snippet, "1 : var = 1\n"))
}

func TestEval(t *testing.T) {
	_, err := Minify("function f(a){ return eval('a') } f(1)", Options{})
	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	test.T(t, compileErr.Kind, SemanticError)
	test.T(t, compileErr.Offset, strings.Index("function f(a){ return eval('a') } f(1)", "eval"))

	res, err := Minify("function f(a){ return eval('a') } f(1)", Options{AllowDangerousEval: true, Check: true})
	test.Error(t, err)
	test.String(t, res.Code, `function f(a){return eval("a")}f(1)`)
}

func TestDeindent(t *testing.T) {
	test.String(t, deindent("if (a) {\n\t\tb();\n\t}"), "if (a) {\n\tb();\n}")
	test.String(t, deindent("a()"), "a()")
	test.String(t, deindent("{\n    a();\n\n    b();\n  }"), "{\n  a();\n\n  b();\n}")
}

func TestZoom(t *testing.T) {
	src := "a();\nfunction f() {\n  if (x) {\n    b();\n  }\n}"
	ast, err := estree.Parse(src)
	require.NoError(t, err)

	inner := zoomIn(ast, strings.Index(src, "b()"))
	test.T(t, ast.Type(inner), "Identifier")

	var types []string
	for _, id := range zoomOut(ast, inner) {
		types = append(types, ast.Type(id))
	}
	test.T(t, types, []string{"ExpressionStatement", "BlockStatement", "IfStatement", "BlockStatement", "FunctionDeclaration"})
	test.T(t, zoomOut(ast, zoomIn(ast, -1)), ast.Data(ast.Root).(*estree.Program).Body)
}

func TestReproduce(t *testing.T) {
	src := "a();\nfunction f() {\n  if (x) {\n    b();\n  }\n}\nf();"
	fails := func(code string) bool {
		return strings.Contains(code, "b()")
	}

	repro := reproduce(src, strings.Index(src, "b()"), Options{}, fails)
	require.NotNil(t, repro)
	test.String(t, repro.Input, "b();")
	test.String(t, repro.Output, "b()")
	test.T(t, repro.Line, 4)
	test.T(t, repro.Column, 5)

	// without a position the top-level statements are tried
	repro = reproduce(src, -1, Options{}, func(code string) bool {
		return code == "f()"
	})
	require.NotNil(t, repro)
	test.String(t, repro.Input, "f();")
}

func TestSourceOffset(t *testing.T) {
	src := "var a = 1;\nif (a) {\n  b();\n}"
	res, err := Minify(src, Options{})
	require.NoError(t, err)
	test.String(t, res.Code, "var a=1;a&&b()")
	test.T(t, sourceOffset(src, res.Code, res.Map, strings.Index(res.Code, "b()")), strings.Index(src, "b()"))
}
