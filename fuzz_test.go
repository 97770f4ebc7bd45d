package squash

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdewolff/test"
)

var corpus = []string{
	"if (true) { foo(); } else { bar(); }",
	"var x = 1; var y = 2; console.log(x+y);",
	"(function(){ var a = 1; if (a) { b(a); } })()",
	"for (var i = 0; i < 10; i++) { if (i % 2) continue; a(i) }",
	"a = b ? c : d; a = a + 1; new Foo().bar",
	"var a=1,b=1;if(a){for(;b;){b=0;console.log('x')}}else console.log('!a')",
	"(function(){var x=1,y=1;if(x){while(y)y--}console.log(y)})()",
	"var x=0;while(x)var a=x--;var b=2;console.log(a,b)",
	"for(var k in o)var a=1;var b=2",
	"if (a) { b: for (;;) break b } else c()",
	"console.log([1,2,3].length=1); 'ab'.length=5; [1,2][0]=5; [1,2][0]++",
	"for ('ab'.length in {}) a()",
	"function f(){ if (false) { var h = 1 } return h } f()",
	"a = function f(){ var f = 1; return f }",
	"function f(a){ var a = 1; return a } f(1)",
	"try { a() } catch (e) { var e = 1 }",
	"function f(){ var outer = 1; function g(){ var inner = 2; return outer + inner } return g() } f()",
	"function g(x){ if (x) return 1; else return 2 } g(0)",
	"var s = 'a' + 'b', n = 60 * 60 * 24, t = typeof s; if (!s) { n++ } else { t = 1 }",
}

func FuzzMinify(f *testing.F) {
	for _, src := range corpus {
		f.Add(src)
	}
	f.Fuzz(func(t *testing.T, src string) {
		_, err := Minify(src, Options{Check: true})
		var internalErr *InternalError
		if errors.As(err, &internalErr) {
			t.Fatalf("%v\ninput: %q\noutput: %q", err, src, internalErr.Output)
		}
	})
}

func TestCorpus(t *testing.T) {
	for _, src := range corpus {
		t.Run(src, func(t *testing.T) {
			res, err := Minify(src, Options{Check: true})
			require.NoError(t, err)

			// minifying the output again gives a valid program that is not longer
			again, err := Minify(res.Code, Options{Check: true})
			require.NoError(t, err, res.Code)
			test.That(t, len(again.Code) <= len(res.Code), again.Code, res.Code)
			if !strings.Contains(src, "function") && !strings.Contains(src, "catch") {
				// nothing is mangled, so the output is a fixed point
				test.String(t, again.Code, res.Code)
			}
		})
	}
}
