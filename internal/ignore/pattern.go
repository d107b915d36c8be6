// Package ignore parses gitignore-style rules and decides which project paths
// are excluded from selection.
//
// Only the anchored-prefix and simple-glob subset of gitignore is supported.
// Negation, character escaping and "**" traversal are not: a leading "!" is an
// ordinary pattern character, and "*" never crosses a path separator, so rules
// written for "**" semantics are approximated on deeply nested paths.
//
// Globs follow shell fnmatch: "*", "?" and "[...]" classes, with "[!...]"
// negating a class. A backslash is a literal character, not an escape; since
// paths are slash-normalized before matching, a rule containing a backslash
// only matches names that really contain one.
package ignore

import (
	"bufio"
	"io"
	"strings"
)

const (
	commentPrefix   = "#"
	anchorSeparator = "/"
)

// Pattern is one parsed ignore rule.
type Pattern struct {
	// Raw is the trimmed rule text as it appeared in the rule file.
	Raw string
	// Anchored reports whether the rule began with a separator and therefore
	// only matches relative to the project root.
	Anchored bool
	// Glob is the rule text without the leading and trailing separators.
	Glob string
}

// PatternSet is an ordered collection of patterns in rule file order.
type PatternSet []Pattern

// ParsePattern converts a single trimmed rule into a Pattern.
func ParsePattern(rule string) Pattern {
	trimmedRule := strings.TrimSpace(rule)
	glob := strings.TrimRight(trimmedRule, anchorSeparator)
	anchored := strings.HasPrefix(glob, anchorSeparator)
	if anchored {
		glob = strings.TrimPrefix(glob, anchorSeparator)
	}
	return Pattern{
		Raw:      trimmedRule,
		Anchored: anchored,
		Glob:     glob,
	}
}

// ParsePatterns reads rule text line by line. Blank lines and lines starting
// with "#" are dropped; every other line becomes one Pattern.
func ParsePatterns(reader io.Reader) (PatternSet, error) {
	var patterns PatternSet
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		patterns = append(patterns, ParsePattern(trimmedLine))
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return patterns, nil
}

// ParsePatternText parses rules held in memory.
func ParsePatternText(ruleText string) PatternSet {
	patterns, _ := ParsePatterns(strings.NewReader(ruleText))
	return patterns
}

// Globs returns the glob of every pattern in order.
func (patterns PatternSet) Globs() []string {
	globs := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		globs = append(globs, pattern.Glob)
	}
	return globs
}
