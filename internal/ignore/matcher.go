package ignore

import (
	"path"
	"strings"

	"github.com/tyemirov/codepack/internal/utils"
)

// DefaultBlacklist lists entry names that are never selected regardless of rules.
var DefaultBlacklist = []string{
	utils.GitDirectoryName,
	".idea",
	".vscode",
	"__pycache__",
	"node_modules",
	"dist",
	"build",
	"coverage",
	".DS_Store",
	"thumbs.db",
	"package-lock.json",
	"yarn.lock",
}

const gitDirectoryPrefix = utils.GitDirectoryName + utils.PathSegmentSeparator

// Matcher decides whether a root-relative path is excluded by the static
// blacklist or by any pattern of a PatternSet.
type Matcher struct {
	patterns   PatternSet
	shellGlobs []string
	blacklist  map[string]struct{}
}

// NewMatcher binds patterns to a blacklist of entry names. Empty names are ignored.
func NewMatcher(patterns PatternSet, blacklistNames []string) *Matcher {
	blacklist := make(map[string]struct{}, len(blacklistNames))
	for _, name := range blacklistNames {
		if name == "" {
			continue
		}
		blacklist[name] = struct{}{}
	}
	shellGlobs := make([]string, len(patterns))
	for index, pattern := range patterns {
		shellGlobs[index] = shellGlob(pattern.Glob)
	}
	return &Matcher{
		patterns:   patterns,
		shellGlobs: shellGlobs,
		blacklist:  blacklist,
	}
}

// IsBlacklisted reports whether name is a member of the static blacklist.
func (matcher *Matcher) IsBlacklisted(name string) bool {
	_, blacklisted := matcher.blacklist[name]
	return blacklisted
}

// IsIgnored reports whether relativePath must be excluded.
//
// Anchored patterns are matched against the whole relative path. Unanchored
// patterns are matched against the final segment with glob semantics, and also
// count as a match when their glob equals any segment of the path literally.
func (matcher *Matcher) IsIgnored(relativePath string) bool {
	normalizedPath := strings.Trim(utils.NormalizeSlashes(relativePath), utils.PathSegmentSeparator)
	pathSegments := strings.Split(normalizedPath, utils.PathSegmentSeparator)
	name := pathSegments[len(pathSegments)-1]

	if matcher.IsBlacklisted(name) {
		return true
	}
	if normalizedPath == utils.GitDirectoryName || strings.HasPrefix(normalizedPath, gitDirectoryPrefix) {
		return true
	}

	for index, pattern := range matcher.patterns {
		if pattern.Glob == "" {
			continue
		}
		if pattern.Anchored {
			if globMatches(matcher.shellGlobs[index], normalizedPath) {
				return true
			}
			continue
		}
		if globMatches(matcher.shellGlobs[index], name) {
			return true
		}
		for _, segment := range pathSegments {
			if segment == pattern.Glob {
				return true
			}
		}
	}
	return false
}

// shellGlob rewrites a rule glob into path.Match syntax. A class opened with
// "[!" is negated. A leading "^" or "]" inside a class, a "-" at either end of
// a class and any backslash are ordinary characters.
func shellGlob(glob string) string {
	var builder strings.Builder
	insideClass := false
	classContentStart := 0
	for index := 0; index < len(glob); index++ {
		character := glob[index]
		switch {
		case character == '\\':
			builder.WriteString(`\\`)
		case character == '[' && !insideClass:
			insideClass = true
			builder.WriteByte('[')
			if index+1 < len(glob) && glob[index+1] == '!' {
				builder.WriteByte('^')
				index++
			} else if index+1 < len(glob) && glob[index+1] == '^' {
				builder.WriteString(`\^`)
				index++
			}
			if index+1 < len(glob) && glob[index+1] == ']' {
				builder.WriteString(`\]`)
				index++
			}
			classContentStart = index + 1
		case character == '-' && insideClass && (index == classContentStart || (index+1 < len(glob) && glob[index+1] == ']')):
			builder.WriteString(`\-`)
		case character == ']' && insideClass:
			insideClass = false
			builder.WriteByte(']')
		default:
			builder.WriteByte(character)
		}
	}
	return builder.String()
}

// globMatches applies shell-style matching; malformed globs never match.
func globMatches(glob string, value string) bool {
	isMatched, matchError := path.Match(glob, value)
	return matchError == nil && isMatched
}
