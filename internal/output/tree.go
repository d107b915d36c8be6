// Package output renders the text artifact: the directory tree block, the
// per-file sections and the run summary line.
package output

import (
	"io"
	"sort"
	"strings"

	"github.com/tyemirov/codepack/internal/utils"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	directoryStructureHeader = "Directory Structure:"
	treeRootLine             = treeLastConnector + "./"
)

// TreeNode maps a path segment to its children. A node without children is
// a selected file; directories always have at least one selected descendant.
type TreeNode map[string]TreeNode

// BuildTree inserts every slash-separated path into a fresh trie.
func BuildTree(paths []string) TreeNode {
	root := TreeNode{}
	for _, pathValue := range paths {
		currentNode := root
		for _, segment := range strings.Split(utils.NormalizeSlashes(pathValue), utils.PathSegmentSeparator) {
			if segment == "" {
				continue
			}
			childNode, exists := currentNode[segment]
			if !exists {
				childNode = TreeNode{}
				currentNode[segment] = childNode
			}
			currentNode = childNode
		}
	}
	return root
}

// RenderTree serializes the tree of paths with box-drawing connectors.
// Siblings are sorted so the output is deterministic.
func RenderTree(paths []string) string {
	var builder strings.Builder
	writeTreeLevel(&builder, BuildTree(paths), "")
	return builder.String()
}

func writeTreeLevel(builder *strings.Builder, node TreeNode, prefix string) {
	names := make([]string, 0, len(node))
	for name := range node {
		names = append(names, name)
	}
	sort.Strings(names)
	for index, name := range names {
		isLast := index == len(names)-1
		connector := treeBranchConnector
		childPrefix := prefix + treeBranchPadding
		if isLast {
			connector = treeLastConnector
			childPrefix = prefix + treeLastPadding
		}
		builder.WriteString(prefix + connector + name + "\n")
		if children := node[name]; len(children) > 0 {
			writeTreeLevel(builder, children, childPrefix)
		}
	}
}

// FormatDirectoryStructure returns the tree block that opens the artifact.
func FormatDirectoryStructure(paths []string) string {
	var builder strings.Builder
	builder.WriteString(directoryStructureHeader + "\n\n")
	builder.WriteString(treeRootLine + "\n")
	writeTreeLevel(&builder, BuildTree(paths), treeLastPadding)
	builder.WriteString("\n")
	return builder.String()
}

// WriteDirectoryStructure writes the tree block to writer.
func WriteDirectoryStructure(writer io.Writer, paths []string) error {
	_, writeError := io.WriteString(writer, FormatDirectoryStructure(paths))
	return writeError
}
