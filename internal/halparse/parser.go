package halparse

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/vk/halglue/internal/config"
	"github.com/vk/halglue/internal/ctxlog"
	"github.com/vk/halglue/internal/fetch"
)

// Result is the deterministic output of parsing one fetched source tree.
type Result struct {
	// Records lists every discovered declaration, ordered by file path and
	// then declaration order within the file. Category and mockability are
	// left for the classifier.
	Records []config.InterfaceRecord
	// Realizations maps an interface name to the types implementing it.
	Realizations map[string][]string
	// Diagnostics carries one warning per skipped file.
	Diagnostics []config.Diagnostic
	// FilesParsed counts files that scanned cleanly. A run needs at least one
	// to advance past Proposed.
	FilesParsed int
}

var (
	traitRe = regexp.MustCompile(`^\s*pub\s+trait\s+([A-Za-z_][A-Za-z0-9_]*)`)
	// traitKeywordRe catches a public trait keyword whose identifier the
	// stricter pattern failed to capture, which marks the file malformed.
	traitKeywordRe = regexp.MustCompile(`^\s*pub\s+trait\b`)
	implRe         = regexp.MustCompile(`^\s*impl(?:\s*<[^>]*>)?\s+([A-Za-z_][A-Za-z0-9_:]*)(?:<[^>]*>)?\s+for\s+([A-Za-z_][A-Za-z0-9_:<>, ]*?)\s*(?:\{|$|where)`)
)

// ParseTree scans every fetched Rust source file for capability-interface
// declarations.
func ParseTree(ctx context.Context, files []fetch.File) *Result {
	logger := ctxlog.FromContext(ctx)

	sorted := append([]fetch.File(nil), files...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	result := &Result{Realizations: make(map[string][]string)}
	seen := make(map[string]bool) // declaration identity: file\x00name

	for _, file := range sorted {
		if !strings.HasSuffix(file.Path, ".rs") {
			continue
		}

		decls, impls, err := scanFile(file.Content)
		if err != nil {
			logger.Debug("Skipping unparseable file.", "path", file.Path, "error", err)
			result.Diagnostics = append(result.Diagnostics, config.Diagnostic{
				Severity: config.SeverityWarning,
				Message:  fmt.Sprintf("file skipped: parse error in %s: %v", file.Path, err),
			})
			continue
		}
		result.FilesParsed++

		module := ModulePath(file.Path)
		for _, d := range decls {
			identity := file.Path + "\x00" + d.name
			if seen[identity] {
				continue
			}
			seen[identity] = true
			result.Records = append(result.Records, config.InterfaceRecord{
				Name:       d.name,
				ModulePath: module,
				DeclaredAt: config.SourceLocation{File: file.Path, Line: d.line},
			})
		}
		for _, im := range impls {
			result.Realizations[im.trait] = append(result.Realizations[im.trait], im.target)
		}
	}

	logger.Debug("Parsed source tree.",
		"files_parsed", result.FilesParsed,
		"interfaces", len(result.Records),
		"skipped", len(result.Diagnostics))
	return result
}

type declaration struct {
	name string
	line int
}

type realization struct {
	trait  string
	target string
}

// scanFile walks a single source file line by line, tracking brace depth and
// comment state. Declarations only count at the top level; anything that
// leaves the delimiter bookkeeping inconsistent fails the whole file.
func scanFile(content string) ([]declaration, []realization, error) {
	var (
		decls     []declaration
		impls     []realization
		depth     int
		inComment bool
	)

	lines := strings.Split(content, "\n")
	for i, raw := range lines {
		line, nowInComment := stripComments(raw, inComment)
		inComment = nowInComment
		if strings.TrimSpace(line) == "" {
			continue
		}

		if depth == 0 {
			if m := traitRe.FindStringSubmatch(line); m != nil {
				decls = append(decls, declaration{name: m[1], line: i + 1})
			} else if traitKeywordRe.MatchString(line) {
				return nil, nil, fmt.Errorf("trait declaration without identifier at line %d", i+1)
			} else if m := implRe.FindStringSubmatch(line); m != nil {
				impls = append(impls, realization{
					trait:  lastSegment(m[1]),
					target: strings.TrimSpace(m[2]),
				})
			}
		}

		depth += braceDelta(line)
		if depth < 0 {
			return nil, nil, fmt.Errorf("unbalanced braces at line %d", i+1)
		}
	}

	if inComment {
		return nil, nil, fmt.Errorf("unterminated block comment")
	}
	if depth != 0 {
		return nil, nil, fmt.Errorf("unbalanced braces at end of file (depth %d)", depth)
	}
	return decls, impls, nil
}

// stripComments removes line and block comments from one line of source,
// carrying block-comment state across lines. Nested block comments are not
// tracked; HAL crates do not use them in declaration position.
func stripComments(line string, inComment bool) (string, bool) {
	var b strings.Builder
	for i := 0; i < len(line); {
		if inComment {
			if end := strings.Index(line[i:], "*/"); end >= 0 {
				i += end + 2
				inComment = false
				continue
			}
			return b.String(), true
		}
		if strings.HasPrefix(line[i:], "//") {
			return b.String(), false
		}
		if strings.HasPrefix(line[i:], "/*") {
			i += 2
			inComment = true
			continue
		}
		b.WriteByte(line[i])
		i++
	}
	return b.String(), inComment
}

// braceDelta counts the net curly-brace depth change of a comment-free line.
// String literals in declaration-position lines are rare enough to ignore.
func braceDelta(line string) int {
	return strings.Count(line, "{") - strings.Count(line, "}")
}

func lastSegment(path string) string {
	if i := strings.LastIndex(path, "::"); i >= 0 {
		return path[i+2:]
	}
	return path
}

// ModulePath resolves a source file's position in the tree to a Rust module
// path: src/gpio/mod.rs becomes gpio, src/spi.rs becomes spi, and a crate
// root (lib.rs, main.rs) becomes the empty path. Files under a subcrate keep
// the crate directory as their leading segment.
func ModulePath(path string) string {
	p := strings.TrimPrefix(path, "./")
	p = strings.TrimSuffix(p, ".rs")

	var prefix []string
	if i := strings.LastIndex(p, "src/"); i >= 0 {
		for _, seg := range strings.Split(strings.TrimSuffix(p[:i], "/"), "/") {
			if seg != "" {
				prefix = append(prefix, strings.ReplaceAll(seg, "-", "_"))
			}
		}
		p = p[i+len("src/"):]
	}

	segs := strings.Split(p, "/")
	if n := len(segs); n > 0 && segs[n-1] == "mod" {
		segs = segs[:n-1]
	}
	if n := len(segs); n == 1 && (segs[0] == "lib" || segs[0] == "main") {
		segs = nil
	}

	return strings.Join(append(prefix, segs...), "::")
}
