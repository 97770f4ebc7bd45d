package main

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Pattern matches paths by a glob pattern, or by a regular expression when prefixed with ~.
type Pattern struct {
	glob string
	re   *regexp.Regexp
}

// CompilePattern compiles a glob pattern such as dir/**/*.js or a regular expression such as ~\.min\.js$. A pattern starting with \~ is a glob for a literal ~.
func CompilePattern(pattern string) (Pattern, error) {
	if strings.HasPrefix(pattern, "~") {
		re, err := regexp.Compile(pattern[1:])
		if err != nil {
			return Pattern{}, fmt.Errorf("pattern %q: %w", pattern, err)
		}
		return Pattern{re: re}, nil
	}

	pattern = strings.TrimPrefix(pattern, `\`)
	pattern = filepath.ToSlash(pattern)
	if !doublestar.ValidatePattern(pattern) {
		return Pattern{}, fmt.Errorf("pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}
	return Pattern{glob: pattern}, nil
}

// Match returns true if the path matches the pattern.
func (p Pattern) Match(path string) bool {
	if p.re != nil {
		return p.re.MatchString(path)
	}
	matched, err := doublestar.Match(p.glob, filepath.ToSlash(path))
	return err == nil && matched
}
