package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
	"github.com/tdewolff/test"
)

func TestCreateTasks(t *testing.T) {
	fsys := fstest.MapFS{
		"a.js":      {},
		"dir/b.js":  {},
		"dir/c.css": {},
		"dir/.d.js": {},
		"dir/e.mjs": {},
	}

	tests := []struct {
		input, output string
		tasks         map[string]string
	}{
		// root file
		{"a.js", "", map[string]string{"a.js": ""}},
		{"a.js", ".", map[string]string{"a.js": "a.js"}},
		{"a.js", "./", map[string]string{"a.js": "a.js"}},
		{"a.js", "out", map[string]string{"a.js": "out"}},
		{"a.js", "out/", map[string]string{"a.js": "out/a.js"}},

		// nested file
		{"dir/b.js", "", map[string]string{"dir/b.js": ""}},
		{"dir/b.js", ".", map[string]string{"dir/b.js": "b.js"}},
		{"dir/b.js", "out/", map[string]string{"dir/b.js": "out/b.js"}},

		// directory, skipping hidden files and other file types
		{"dir", "", map[string]string{"dir/b.js": "", "dir/e.mjs": ""}},
		{"dir", ".", map[string]string{"dir/b.js": "dir/b.js", "dir/e.mjs": "dir/e.mjs"}},
		{"dir", "out/", map[string]string{"dir/b.js": "out/dir/b.js", "dir/e.mjs": "out/dir/e.mjs"}},
		{"dir/", "out/", map[string]string{"dir/b.js": "out/b.js", "dir/e.mjs": "out/e.mjs"}},
	}

	recursive = true
	defer func() { recursive = false }()
	for _, tt := range tests {
		t.Run(tt.input+" => "+tt.output, func(t *testing.T) {
			tasks, _, err := createTasks(fsys, []string{tt.input}, tt.output)
			test.Error(t, err)
			if len(tasks) != len(tt.tasks) {
				test.Fail(t, fmt.Sprintf("missing %v", tt.tasks))
			}
			for _, task := range tasks {
				if dst, ok := tt.tasks[task.srcs[0]]; !ok || dst != task.dst {
					test.Fail(t, fmt.Sprintf("unexpected %s => %s", task.srcs[0], task.dst))
				}
			}
		})
	}
}

func TestCreateTasksSync(t *testing.T) {
	fsys := fstest.MapFS{
		"dir/b.js":  {},
		"dir/c.css": {},
	}

	recursive, sync = true, true
	defer func() { recursive, sync = false, false }()
	tasks, roots, err := createTasks(fsys, []string{"dir"}, "out/")
	test.Error(t, err)
	test.T(t, roots, []string{"."})
	test.T(t, len(tasks), 2)
	for _, task := range tasks {
		test.T(t, task.sync, strings.HasSuffix(task.srcs[0], ".css"), task.srcs[0])
	}
}

func TestPattern(t *testing.T) {
	tests := []struct {
		pattern, path string
		match         bool
	}{
		{"*.js", "a.js", true},
		{"*.js", "a.mjs", false},
		{"*.js", "dir/a.js", false},
		{"**/*.js", "dir/sub/a.js", true},
		{"dir/**", "dir/sub/a.js", true},
		{"*.min.js", "a.min.js", true},
		{"{a,b}.js", "b.js", true},
		{`~\.min\.js$`, "dir/a.min.js", true},
		{`~^a`, "b.js", false},
		{`\~a.js`, "~a.js", true},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.path, func(t *testing.T) {
			pattern, err := CompilePattern(tt.pattern)
			test.Error(t, err)
			test.T(t, pattern.Match(tt.path), tt.match)
		})
	}

	_, err := CompilePattern("[a")
	test.That(t, err != nil)
	_, err = CompilePattern("~(a")
	test.That(t, err != nil)
}

func TestFileMatches(t *testing.T) {
	matchPatterns = []Pattern{{glob: "*.js"}}
	filters = []string{"-vendor/**", "+vendor/keep.js"}
	filterPatterns = []Pattern{{glob: "vendor/**"}, {glob: "vendor/keep.js"}}
	defer func() {
		matchPatterns, filters, filterPatterns = nil, nil, nil
	}()

	test.That(t, fileMatches("a.js"))
	test.That(t, !fileMatches("a.mjs"))
	test.That(t, !fileMatches("vendor/lib.js"))
	test.That(t, fileMatches("vendor/keep.js"))
}

func TestRootOf(t *testing.T) {
	test.String(t, rootOf([]string{"src", "src/lib"}, "src/lib/a.js"), "src/lib")
	test.String(t, rootOf([]string{"src", "other"}, "src/a.js"), "src")
}

func TestReadInputs(t *testing.T) {
	files := map[string]string{
		"a.js": "a()",
		"b.js": "b()",
	}
	open := func(name string) (io.ReadCloser, error) {
		content, ok := files[name]
		if !ok {
			return nil, os.ErrNotExist
		}
		return io.NopCloser(strings.NewReader(content)), nil
	}

	b, err := readInputs([]string{"a.js", "b.js"}, open, []byte(";\n"))
	test.Error(t, err)
	test.String(t, string(b), "a();\nb()")

	b, err = readInputs([]string{"a.js"}, open, []byte(";\n"))
	test.Error(t, err)
	test.String(t, string(b), "a()")

	_, err = readInputs([]string{"a.js", "c.js"}, open, []byte(";\n"))
	test.That(t, err != nil)
}

func TestLoadConfig(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "squash.toml")
	require.NoError(t, os.WriteFile(filename, []byte(`
output = "dist/"
recursive = true
match = ["*.js"]
exclude = ["vendor/**"]
check = true
allow-eval = true
verbose = 1
`), 0644))

	cfg, err := LoadConfig(filename)
	require.NoError(t, err)
	test.String(t, cfg.Output, "dist/")
	test.T(t, cfg.Match, []string{"*.js"})
	test.T(t, cfg.Exclude, []string{"vendor/**"})
	test.That(t, cfg.Recursive && cfg.Check && cfg.AllowEval)
	test.T(t, cfg.Verbose, 1)

	defer func() {
		recursive, check, allowEval, verbose = false, false, false, 0
		matches, filters = nil, nil
	}()
	output := ""
	check = false
	cfg.Apply(func(name string) bool { return name == "check" }, &output)
	test.String(t, output, "dist/")
	test.That(t, recursive)
	test.That(t, !check) // set on the command line
	test.That(t, allowEval)
	test.T(t, matches, []string{"*.js"})
	test.T(t, filters, []string{"-vendor/**"})
	test.T(t, verbose, 1)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	test.That(t, err != nil)

	require.NoError(t, os.WriteFile(filename, []byte("recursive = ["), 0644))
	_, err = LoadConfig(filename)
	test.That(t, err != nil)
}

func TestMinifyTask(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.js")
	dst := filepath.Join(dir, "out", "out.js")
	require.NoError(t, os.WriteFile(src, []byte("if (x) { a(); } else { b(); }"), 0644))

	quiet, sourceMap, check = true, true, true
	defer func() { quiet, sourceMap, check = false, false, false }()
	test.That(t, minify(Task{dir, []string{src}, dst, false}))

	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	test.String(t, string(b), "x?a():b()\n//# sourceMappingURL=out.js.map")

	b, err = os.ReadFile(dst + ".map")
	require.NoError(t, err)
	test.That(t, strings.Contains(string(b), `"sources":["../in.js"]`), string(b))
}

func TestMinifyTaskError(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.js")
	dst := filepath.Join(dir, "out.js")
	require.NoError(t, os.WriteFile(src, []byte("const a = 1; a = 2"), 0644))

	quiet = true
	defer func() { quiet = false }()
	test.That(t, !minify(Task{dir, []string{src}, dst, false}))

	// the original is copied
	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	test.String(t, string(b), "const a = 1; a = 2")
}
