// Command sqllint checks that every SQL string constant starts with a
// "--sql <uuid>" marker and that no marker is used twice. The SQL runner
// logs queries by marker, so a missing or duplicated one hides a query.
package main

import (
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var sqlKeyword = regexp.MustCompile(`(?i)^\s*(--sql\b|select\b|insert\b|update\b|delete\b|with\b)`)

type query struct {
	file   string
	line   int
	name   string
	marker string
}

type violation struct {
	query
	message string
}

func main() {
	flag.Parse()
	targets := flag.Args()
	if len(targets) == 0 {
		targets = []string{"internal/sqlinline"}
	}
	n, err := run(os.Stderr, targets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sqllint: %v\n", err)
		os.Exit(2)
	}
	if n > 0 {
		os.Exit(1)
	}
}

// run lints targets and reports violations to w, returning how many it found.
func run(w io.Writer, targets []string) (int, error) {
	var queries []query
	for _, target := range targets {
		err := filepath.WalkDir(target, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != target && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") {
				return nil
			}
			qs, err := collect(path)
			if err != nil {
				return err
			}
			queries = append(queries, qs...)
			return nil
		})
		if err != nil {
			return 0, err
		}
	}

	violations := check(queries)
	if len(violations) > 0 {
		fmt.Fprintln(w, "sqllint: SQL audit marker problems")
		for _, v := range violations {
			fmt.Fprintf(w, "  %s:%d %s (%s)\n", v.file, v.line, v.message, v.name)
		}
	}
	return len(violations), nil
}

// collect returns the string constants and variables in path that look like SQL.
func collect(path string) ([]query, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, 0)
	if err != nil {
		return nil, err
	}
	var out []query
	ast.Inspect(file, func(n ast.Node) bool {
		vs, ok := n.(*ast.ValueSpec)
		if !ok {
			return true
		}
		for i, value := range vs.Values {
			bl, ok := value.(*ast.BasicLit)
			if !ok || bl.Kind != token.STRING {
				continue
			}
			raw, err := strconv.Unquote(bl.Value)
			if err != nil || !sqlKeyword.MatchString(raw) {
				continue
			}
			name := ""
			if i < len(vs.Names) {
				name = vs.Names[i].Name
			}
			out = append(out, query{
				file:   path,
				line:   fset.Position(bl.Pos()).Line,
				name:   name,
				marker: firstLine(raw),
			})
		}
		return true
	})
	return out, nil
}

func check(queries []query) []violation {
	var out []violation
	seen := make(map[string]query, len(queries))
	for _, q := range queries {
		id, ok := strings.CutPrefix(q.marker, "--sql ")
		if !ok {
			out = append(out, violation{query: q, message: "missing --sql <uuid> marker"})
			continue
		}
		if _, err := uuid.Parse(id); err != nil || id != strings.ToLower(id) {
			out = append(out, violation{query: q, message: "marker is not a lower-case uuid"})
			continue
		}
		if prev, dup := seen[id]; dup {
			out = append(out, violation{query: q, message: "marker already used by " + prev.name})
			continue
		}
		seen[id] = q
	}
	return out
}

func firstLine(s string) string {
	s = strings.TrimLeft(s, "\n\r \t")
	if idx := strings.IndexAny(s, "\n\r"); idx >= 0 {
		return strings.TrimSpace(s[:idx])
	}
	return strings.TrimSpace(s)
}
