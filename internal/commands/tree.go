// Package commands contains the directory traversal that produces tree diagrams.
package commands

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	// TreePipe is the vertical bar printed under the head marker.
	TreePipe = "│"
	// TreeBranchConnector marks an entry followed by more siblings.
	TreeBranchConnector = "├──"
	// TreeLastConnector marks the last entry of a level.
	TreeLastConnector = "└──"
	// TreeBranchPadding continues an ancestor that still has following siblings.
	TreeBranchPadding = "│   "
	// TreeLastPadding continues an ancestor that was the last of its level.
	TreeLastPadding = "    "

	hiddenEntryMarker = "."
	rootDirectoryPath = "."
	firstLevelDepth   = 1

	// errorBuildTreeFormat is used when building the tree fails.
	errorBuildTreeFormat = "building tree for %s: %w"
	// errorReadDirectoryFormat is used when a directory cannot be read.
	errorReadDirectoryFormat = "reading directory %s: %w"
)

var pathSeparator = string(os.PathSeparator)

type treeEntry struct {
	name        string
	isDirectory bool
	isFile      bool
}

// BuildTree walks the configured root and returns the diagram lines in output order.
// The first two lines are always the head marker and a lone vertical bar.
// A directory that cannot be read aborts the build; no partial tree is returned.
func (treeBuilder *TreeBuilder) BuildTree() ([]string, error) {
	lines := []string{treeBuilder.headMarker(), TreePipe}
	lines, buildError := treeBuilder.appendTreeBody(lines, treeBuilder.reader.rootPath(), "", firstLevelDepth)
	if buildError != nil {
		return nil, fmt.Errorf(errorBuildTreeFormat, treeBuilder.displayRoot(), buildError)
	}
	return lines, nil
}

func (treeBuilder *TreeBuilder) displayRoot() string {
	return filepath.Clean(treeBuilder.options.Root)
}

func (treeBuilder *TreeBuilder) headMarker() string {
	return treeBuilder.displayRoot() + pathSeparator
}

// appendTreeBody appends the lines of every entry below directoryPath, which sits at the given depth.
func (treeBuilder *TreeBuilder) appendTreeBody(lines []string, directoryPath string, prefix string, depth int) ([]string, error) {
	if depth > treeBuilder.options.MaxHeight {
		return lines, nil
	}

	entries, prepareError := treeBuilder.prepareEntries(directoryPath)
	if prepareError != nil {
		return nil, prepareError
	}

	for index, entry := range entries {
		linePrefix, childPrefix := treeLinePrefix(prefix, index == len(entries)-1)
		if !entry.isDirectory {
			lines = append(lines, linePrefix+" "+entry.name)
			continue
		}

		lines = append(lines, linePrefix+" "+entry.name+pathSeparator)
		var childError error
		lines, childError = treeBuilder.appendTreeBody(lines, treeBuilder.reader.join(directoryPath, entry.name), childPrefix, depth+1)
		if childError != nil {
			return nil, childError
		}
		lines = append(lines, strings.TrimRight(childPrefix, " "))
	}
	return lines, nil
}

// prepareEntries lists directoryPath with hidden entries removed and every entry that is not a
// regular file moved before the regular files. Enumeration order is kept inside both groups.
func (treeBuilder *TreeBuilder) prepareEntries(directoryPath string) ([]treeEntry, error) {
	directoryEntries, readDirectoryError := treeBuilder.reader.readDir(directoryPath)
	if readDirectoryError != nil {
		return nil, fmt.Errorf(errorReadDirectoryFormat, treeBuilder.reader.displayPath(directoryPath), readDirectoryError)
	}

	var leading []treeEntry
	var files []treeEntry
	for _, directoryEntry := range directoryEntries {
		if !treeBuilder.options.ShowHidden && IsHiddenName(directoryEntry.Name()) {
			continue
		}
		entry := treeBuilder.classify(directoryPath, directoryEntry)
		if treeBuilder.options.DirectoriesOnly {
			if entry.isDirectory {
				leading = append(leading, entry)
			}
			continue
		}
		if entry.isFile {
			files = append(files, entry)
			continue
		}
		leading = append(leading, entry)
	}
	return append(leading, files...), nil
}

// classify resolves whether the entry is a directory or a regular file, following symbolic links.
// Sockets, devices and broken links are neither.
func (treeBuilder *TreeBuilder) classify(directoryPath string, directoryEntry fs.DirEntry) treeEntry {
	entry := treeEntry{name: directoryEntry.Name()}
	entryType := directoryEntry.Type()
	switch {
	case directoryEntry.IsDir():
		entry.isDirectory = true
	case entryType.IsRegular():
		entry.isFile = true
	case entryType&fs.ModeSymlink != 0:
		targetInfo, statError := treeBuilder.reader.stat(treeBuilder.reader.join(directoryPath, entry.name))
		if statError == nil {
			entry.isDirectory = targetInfo.IsDir()
			entry.isFile = targetInfo.Mode().IsRegular()
		}
	}
	return entry
}

// IsHiddenName reports whether an entry name follows the dot-file convention.
// Only the leading byte is inspected.
func IsHiddenName(entryName string) bool {
	return strings.HasPrefix(entryName, hiddenEntryMarker)
}

// treeLinePrefix returns the connector-terminated prefix for an entry and the prefix its children inherit.
func treeLinePrefix(prefix string, isLast bool) (string, string) {
	if isLast {
		return prefix + TreeLastConnector, prefix + TreeLastPadding
	}
	return prefix + TreeBranchConnector, prefix + TreeBranchPadding
}
