package benchmarks

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"
	"github.com/tdewolff/squash"
	"github.com/tdewolff/squash/estree"
)

var samples = map[string]string{}

func init() {
	samples["functions"] = sample(200, `
function compute%[1]d(input, options) {
	var result = [];
	for (var i = 0; i < input.length; i++) {
		if (options.strict) {
			result.push(input[i] * %[1]d);
		} else {
			result.push(input[i] + "%[1]d");
		}
	}
	return result;
}
compute%[1]d([1, 2, 3], { strict: %[1]d %% 2 === 0 });
`)
	samples["expressions"] = sample(500, `
var value%[1]d = (1 + 2) * %[1]d, label%[1]d = "item" + "-" + %[1]d;
if (DEBUG && value%[1]d > 10) { console.log(label%[1]d, value%[1]d); } else { report(label%[1]d); }
`)
}

func sample(n int, format string) string {
	sb := strings.Builder{}
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, format, i)
	}
	return sb.String()
}

func BenchmarkLex(b *testing.B) {
	for name, src := range samples {
		b.Run(name, func(b *testing.B) {
			b.SetBytes(int64(len(src)))
			for i := 0; i < b.N; i++ {
				l := js.NewLexer(parse.NewInputString(src))
				for {
					tt, _ := l.Next()
					if tt == js.DivToken || tt == js.DivEqToken {
						tt, _ = l.RegExp()
					}
					if tt == js.ErrorToken {
						if l.Err() != io.EOF {
							b.Fatal(l.Err())
						}
						break
					}
				}
			}
		})
	}
}

func BenchmarkParse(b *testing.B) {
	for name, src := range samples {
		b.Run(name, func(b *testing.B) {
			b.SetBytes(int64(len(src)))
			for i := 0; i < b.N; i++ {
				if _, err := estree.Parse(src); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkMinify(b *testing.B) {
	noMap := false
	for name, src := range samples {
		b.Run(name, func(b *testing.B) {
			b.SetBytes(int64(len(src)))
			for i := 0; i < b.N; i++ {
				if _, err := squash.Minify(src, squash.Options{SourceMap: &noMap}); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkMinifySourceMap(b *testing.B) {
	for name, src := range samples {
		b.Run(name, func(b *testing.B) {
			b.SetBytes(int64(len(src)))
			for i := 0; i < b.N; i++ {
				if _, err := squash.Minify(src, squash.Options{File: "out.js", Source: "in.js"}); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
