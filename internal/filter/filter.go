// Package filter selects batch candidates from a pre-enumerated path list.
// It is pure: the exclusion logic operates on plain string slices so it can
// be tested without touching a filesystem.
package filter

import (
	"fmt"
	"regexp"
	"strings"
)

// Filter matches root-relative, slash-separated paths against a glob
// pattern, drops paths already carrying the encrypted extension, and applies
// optional extra exclude patterns. Excludes always win.
type Filter struct {
	pattern  *regexp.Regexp
	excludes []*regexp.Regexp
	skipExt  string
}

// New compiles the glob pattern and exclude patterns into a reusable filter.
// skipExt is the extension marking already-encrypted outputs.
func New(pattern string, excludes []string, skipExt string) (*Filter, error) {
	compiled, err := compileGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", pattern, err)
	}

	filter := &Filter{pattern: compiled, skipExt: skipExt}

	for _, exclude := range excludes {
		re, err := compileGlob(exclude)
		if err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", exclude, err)
		}

		filter.excludes = append(filter.excludes, re)
	}

	return filter, nil
}

// Select returns the subset of paths that match the pattern and are neither
// already-encrypted outputs nor excluded. Input order is preserved.
func (f *Filter) Select(paths []string) []string {
	var selected []string

	for _, path := range paths {
		if f.match(path) {
			selected = append(selected, path)
		}
	}

	return selected
}

func (f *Filter) match(path string) bool {
	if f.skipExt != "" && strings.HasSuffix(path, f.skipExt) {
		return false
	}

	if !f.pattern.MatchString(path) {
		return false
	}

	for _, exclude := range f.excludes {
		if exclude.MatchString(path) {
			return false
		}
	}

	return true
}

// compileGlob converts a shell glob to an anchored regexp. Unlike
// filepath.Match, * and ? also match the path separator, following
// find -path semantics so a pattern like "*.txt" selects files at any depth.
func compileGlob(pattern string) (*regexp.Regexp, error) {
	var builder strings.Builder

	builder.WriteString("^")

	for pos := 0; pos < len(pattern); pos++ {
		switch char := pattern[pos]; char {
		case '*':
			builder.WriteString(".*")

		case '?':
			builder.WriteString(".")

		case '[':
			end, err := findClosingBracket(pattern, pos)
			if err != nil {
				return nil, err
			}

			class := pattern[pos : end+1]
			// Glob negation [!...] becomes regexp negation [^...].
			if strings.HasPrefix(class, "[!") {
				class = "[^" + class[2:]
			}

			builder.WriteString(class)

			pos = end

		case '\\':
			if pos+1 < len(pattern) {
				pos++
				builder.WriteString(regexp.QuoteMeta(string(pattern[pos])))
			} else {
				builder.WriteString(`\\`)
			}

		default:
			builder.WriteString(regexp.QuoteMeta(string(char)))
		}
	}

	builder.WriteString("$")

	return regexp.Compile(builder.String())
}

// findClosingBracket locates the end of a character class starting at open.
// A ']' directly after the opening (or after '!') is a literal member.
func findClosingBracket(pattern string, open int) (int, error) {
	pos := open + 1

	if pos < len(pattern) && pattern[pos] == '!' {
		pos++
	}

	if pos < len(pattern) && pattern[pos] == ']' {
		pos++
	}

	for pos < len(pattern) && pattern[pos] != ']' {
		pos++
	}

	if pos >= len(pattern) {
		return 0, fmt.Errorf("unclosed character class at position %d", open)
	}

	return pos, nil
}
