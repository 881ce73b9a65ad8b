// Package output delivers generated tree diagrams to the console or to a file.
package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/dirtree/internal/types"
)

const (
	// CodeFence opens and closes the diagram when it is written to a file.
	CodeFence = "```"

	lineTerminator          = "\n"
	outputFileMode          = 0o644
	temporaryFilePattern    = ".%s.*.tmp"
	errorUnknownDestination = "unknown output destination %q"
	errorWriteConsoleFormat = "writing tree to console: %w"
	errorCreateOutputFormat = "creating output file %s: %w"
	errorWriteOutputFormat  = "writing output file %s: %w"
	errorCloseOutputFormat  = "closing output file %s: %w"
	errorCommitOutputFormat = "replacing output file %s: %w"
	errorOutputIsDirectory  = "output file %s is a directory"
)

// Renderer writes a complete line sequence to a destination.
type Renderer struct {
	console     io.Writer
	replaceFile func(temporaryPath string, destinationPath string) error
}

// NewRenderer returns a Renderer that prints console destinations to console.
func NewRenderer(console io.Writer) *Renderer {
	return &Renderer{console: console, replaceFile: os.Rename}
}

// Render writes lines to destination.
// Console output is the lines as they are; file output is fenced and replaces the file only after
// every line was written, so a failed write never leaves a partial file behind.
func (renderer *Renderer) Render(lines []string, destination types.Destination) error {
	switch destination.Kind {
	case types.DestinationConsole:
		if writeError := writeLines(renderer.console, lines); writeError != nil {
			return fmt.Errorf(errorWriteConsoleFormat, writeError)
		}
		return nil
	case types.DestinationFile:
		return renderer.writeFileAtomically(destination.Path, FenceLines(lines))
	default:
		return fmt.Errorf(errorUnknownDestination, destination.Kind)
	}
}

// FenceLines returns a copy of lines wrapped in code fence lines.
func FenceLines(lines []string) []string {
	fenced := make([]string, 0, len(lines)+2)
	fenced = append(fenced, CodeFence)
	fenced = append(fenced, lines...)
	return append(fenced, CodeFence)
}

// FormatLines joins lines exactly as the console renderer prints them.
func FormatLines(lines []string) string {
	var builder strings.Builder
	for _, line := range lines {
		builder.WriteString(line)
		builder.WriteString(lineTerminator)
	}
	return builder.String()
}

func writeLines(writer io.Writer, lines []string) error {
	bufferedWriter := bufio.NewWriter(writer)
	for _, line := range lines {
		if _, writeError := bufferedWriter.WriteString(line + lineTerminator); writeError != nil {
			return writeError
		}
	}
	return bufferedWriter.Flush()
}

// writeFileAtomically writes lines to a temporary sibling of destinationPath and renames it into place.
// A destination that is a symbolic link is resolved first so the link target receives the tree.
func (renderer *Renderer) writeFileAtomically(destinationPath string, lines []string) (err error) {
	destinationPath = resolveDestination(destinationPath)
	fileMode := os.FileMode(outputFileMode)
	if existingInfo, statError := os.Stat(destinationPath); statError == nil {
		if existingInfo.IsDir() {
			return fmt.Errorf(errorOutputIsDirectory, destinationPath)
		}
		fileMode = existingInfo.Mode().Perm()
	}

	temporaryFile, createError := os.CreateTemp(filepath.Dir(destinationPath), fmt.Sprintf(temporaryFilePattern, filepath.Base(destinationPath)))
	if createError != nil {
		return fmt.Errorf(errorCreateOutputFormat, destinationPath, createError)
	}
	temporaryPath := temporaryFile.Name()
	closed := false
	defer func() {
		if !closed {
			_ = temporaryFile.Close()
		}
		if err != nil {
			_ = os.Remove(temporaryPath)
		}
	}()

	if writeError := writeLines(temporaryFile, lines); writeError != nil {
		return fmt.Errorf(errorWriteOutputFormat, destinationPath, writeError)
	}
	if chmodError := temporaryFile.Chmod(fileMode); chmodError != nil {
		return fmt.Errorf(errorWriteOutputFormat, destinationPath, chmodError)
	}
	closed = true
	if closeError := temporaryFile.Close(); closeError != nil {
		return fmt.Errorf(errorCloseOutputFormat, destinationPath, closeError)
	}
	if renameError := renderer.replaceFile(temporaryPath, destinationPath); renameError != nil {
		return fmt.Errorf(errorCommitOutputFormat, destinationPath, renameError)
	}
	return nil
}

// resolveDestination follows a symbolic link at destinationPath. A dangling link is returned unchanged.
func resolveDestination(destinationPath string) string {
	linkInfo, lstatError := os.Lstat(destinationPath)
	if lstatError != nil || linkInfo.Mode()&os.ModeSymlink == 0 {
		return destinationPath
	}
	resolvedPath, resolveError := filepath.EvalSymlinks(destinationPath)
	if resolveError != nil {
		return destinationPath
	}
	return resolvedPath
}
