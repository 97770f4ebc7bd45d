// Package squash minifies JavaScript. The source text is parsed, analysed for reachability and rewritten in place, so that everything that is not changed keeps its original text and the output maps back to the input precisely.
package squash

import (
	"github.com/tdewolff/squash/edit"
	"github.com/tdewolff/squash/estree"
	"github.com/tdewolff/squash/js"
	"github.com/tdewolff/squash/sourcemap"
)

// Version is the version of the minifier.
const Version = "0.4.6"

// Options are the options of Minify.
type Options struct {
	AllowDangerousEval bool // deoptimize scopes with a direct eval instead of failing
	Check              bool // re-parse the output and report an InternalError if it is invalid

	SourceMap      *bool  // generate a source map, defaults to true
	File           string // name of the output file in the source map
	Source         string // name of the input file in the source map
	IncludeContent *bool  // include the input in the source map, defaults to true
}

// Result is the output of Minify.
type Result struct {
	Code  string
	Map   *sourcemap.SourceMap
	Stats *Stats
}

func enabled(b *bool) bool {
	return b == nil || *b
}

// Minify minifies the JavaScript source src. Errors in the input are returned as *CompileError, defects of the minifier as *InternalError.
func Minify(src string, o Options) (*Result, error) {
	stats := NewStats()

	stats.Time("parse")
	ast, err := estree.Parse(src)
	stats.TimeEnd("parse")
	if err != nil {
		return nil, toError(src, err)
	}

	p := js.NewProgram(ast, js.Options{AllowDangerousEval: o.AllowDangerousEval})
	stats.Time("analyse")
	err = p.Analyse()
	stats.TimeEnd("analyse")
	if err != nil {
		return nil, toError(src, err)
	}

	stats.Time("generate")
	err = p.Generate()
	stats.TimeEnd("generate")
	if err != nil {
		return nil, toError(src, err)
	}

	stats.Time("render")
	res := &Result{
		Code:  p.Code().String(),
		Stats: stats,
	}
	if enabled(o.SourceMap) {
		res.Map = p.Code().Map(edit.MapOptions{
			File:           o.File,
			Source:         o.Source,
			IncludeContent: enabled(o.IncludeContent),
		})
	}
	stats.TimeEnd("render")

	if o.Check {
		stats.Time("check")
		sm := res.Map
		if sm == nil {
			sm = p.Code().Map(edit.MapOptions{})
		}
		err = check(src, res.Code, sm, o)
		stats.TimeEnd("check")
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}
