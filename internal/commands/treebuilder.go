package commands

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// TreeOptions is the immutable configuration of a TreeBuilder.
type TreeOptions struct {
	// Root is the root directory path as it should appear in the head marker.
	Root            string
	DirectoriesOnly bool
	ShowHidden      bool
	// MaxHeight is the deepest level shown; the root's children are at level 1.
	MaxHeight int
}

// TreeBuilder builds directory tree diagrams using configured options.
type TreeBuilder struct {
	options TreeOptions
	reader  directoryReader
}

// NewTreeBuilder returns a TreeBuilder reading the operating system directory at options.Root.
// The caller is expected to have verified that options.Root is an existing directory.
func NewTreeBuilder(options TreeOptions) *TreeBuilder {
	return &TreeBuilder{
		options: options,
		reader:  osDirectoryReader{root: filepath.Clean(options.Root)},
	}
}

// NewTreeBuilderFS returns a TreeBuilder whose root directory is the root of fileSystem.
// Entry names must be valid io/fs path elements.
func NewTreeBuilderFS(fileSystem fs.FS, options TreeOptions) *TreeBuilder {
	return &TreeBuilder{
		options: options,
		reader:  fsDirectoryReader{fileSystem: fileSystem, root: filepath.Clean(options.Root)},
	}
}

// directoryReader lists directories and resolves entry targets for a TreeBuilder.
type directoryReader interface {
	rootPath() string
	join(directoryPath string, entryName string) string
	readDir(directoryPath string) ([]fs.DirEntry, error)
	stat(entryPath string) (fs.FileInfo, error)
	// displayPath returns directoryPath as an operating system path for error messages.
	displayPath(directoryPath string) string
}

// osDirectoryReader reads the operating system tree with native paths, so any name the
// file system accepts can be listed.
type osDirectoryReader struct {
	root string
}

func (reader osDirectoryReader) rootPath() string {
	return reader.root
}

func (reader osDirectoryReader) join(directoryPath string, entryName string) string {
	return filepath.Join(directoryPath, entryName)
}

func (reader osDirectoryReader) readDir(directoryPath string) ([]fs.DirEntry, error) {
	return os.ReadDir(directoryPath)
}

func (reader osDirectoryReader) stat(entryPath string) (fs.FileInfo, error) {
	return os.Stat(entryPath)
}

func (reader osDirectoryReader) displayPath(directoryPath string) string {
	return directoryPath
}

// fsDirectoryReader reads an fs.FS with slash-separated paths relative to its root.
type fsDirectoryReader struct {
	fileSystem fs.FS
	root       string
}

func (reader fsDirectoryReader) rootPath() string {
	return rootDirectoryPath
}

func (reader fsDirectoryReader) join(directoryPath string, entryName string) string {
	return path.Join(directoryPath, entryName)
}

func (reader fsDirectoryReader) readDir(directoryPath string) ([]fs.DirEntry, error) {
	return fs.ReadDir(reader.fileSystem, directoryPath)
}

func (reader fsDirectoryReader) stat(entryPath string) (fs.FileInfo, error) {
	return fs.Stat(reader.fileSystem, entryPath)
}

func (reader fsDirectoryReader) displayPath(directoryPath string) string {
	return filepath.Join(reader.root, filepath.FromSlash(directoryPath))
}
