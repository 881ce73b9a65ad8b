package output_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/temirov/dirtree/internal/output"
	"github.com/temirov/dirtree/internal/types"
)

var sampleLines = []string{
	"root/",
	"│",
	"├── a/",
	"│   └── x.txt",
	"│",
	"└── b.txt",
}

type failingWriter struct{}

var errWriteFixture = errors.New("disk full")

func (failingWriter) Write([]byte) (int, error) {
	return 0, errWriteFixture
}

func TestRenderConsole(t *testing.T) {
	t.Parallel()

	var console bytes.Buffer
	renderer := output.NewRenderer(&console)
	if renderError := renderer.Render(sampleLines, types.ConsoleDestination()); renderError != nil {
		t.Fatalf("Render error: %v", renderError)
	}
	expected := strings.Join(sampleLines, "\n") + "\n"
	if console.String() != expected {
		t.Fatalf("unexpected console output:\n%s\nwant:\n%s", console.String(), expected)
	}
	if output.FormatLines(sampleLines) != expected {
		t.Fatalf("FormatLines does not match console output")
	}
}

func TestRenderConsoleWriteFailure(t *testing.T) {
	t.Parallel()

	renderer := output.NewRenderer(failingWriter{})
	renderError := renderer.Render(sampleLines, types.ConsoleDestination())
	if !errors.Is(renderError, errWriteFixture) {
		t.Fatalf("expected wrapped write error, got %v", renderError)
	}
}

func TestRenderFileWrapsConsoleOutput(t *testing.T) {
	t.Parallel()

	outputDirectory := t.TempDir()
	outputPath := filepath.Join(outputDirectory, "tree.md")

	var console bytes.Buffer
	renderer := output.NewRenderer(&console)
	if renderError := renderer.Render(sampleLines, types.FileDestination(outputPath)); renderError != nil {
		t.Fatalf("Render error: %v", renderError)
	}
	if console.Len() != 0 {
		t.Fatalf("file destination wrote to console: %q", console.String())
	}

	written, readError := os.ReadFile(outputPath)
	if readError != nil {
		t.Fatalf("read output: %v", readError)
	}
	writtenLines := strings.Split(strings.TrimSuffix(string(written), "\n"), "\n")
	if writtenLines[0] != output.CodeFence || writtenLines[len(writtenLines)-1] != output.CodeFence {
		t.Fatalf("output is not fenced: %q", writtenLines)
	}
	if !reflect.DeepEqual(writtenLines[1:len(writtenLines)-1], sampleLines) {
		t.Fatalf("fenced body differs from console output: %q", writtenLines)
	}

	entries, listError := os.ReadDir(outputDirectory)
	if listError != nil {
		t.Fatalf("list output directory: %v", listError)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the output file, found %d entries", len(entries))
	}
}

func TestRenderFileReplacesExistingContent(t *testing.T) {
	t.Parallel()

	outputPath := filepath.Join(t.TempDir(), "tree.md")
	if writeError := os.WriteFile(outputPath, []byte("stale content that is longer than the new tree\n"), 0o600); writeError != nil {
		t.Fatalf("seed output: %v", writeError)
	}

	renderer := output.NewRenderer(&bytes.Buffer{})
	if renderError := renderer.Render([]string{"root/", "│"}, types.FileDestination(outputPath)); renderError != nil {
		t.Fatalf("Render error: %v", renderError)
	}

	written, readError := os.ReadFile(outputPath)
	if readError != nil {
		t.Fatalf("read output: %v", readError)
	}
	expected := "```\nroot/\n│\n```\n"
	if string(written) != expected {
		t.Fatalf("unexpected file content %q, want %q", string(written), expected)
	}
	info, statError := os.Stat(outputPath)
	if statError != nil {
		t.Fatalf("stat output: %v", statError)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected existing permissions to be kept, got %v", info.Mode().Perm())
	}
}

func TestRenderFileFailures(t *testing.T) {
	t.Parallel()

	baseDirectory := t.TempDir()
	existingDirectory := filepath.Join(baseDirectory, "existing")
	if makeDirError := os.MkdirAll(existingDirectory, 0o755); makeDirError != nil {
		t.Fatalf("mkdir: %v", makeDirError)
	}

	testCases := []struct {
		name        string
		destination types.Destination
	}{
		{name: "missing_parent_directory", destination: types.FileDestination(filepath.Join(baseDirectory, "missing", "tree.md"))},
		{name: "destination_is_directory", destination: types.FileDestination(existingDirectory)},
		{name: "unknown_destination_kind", destination: types.Destination{Kind: types.DestinationKind(42)}},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			renderer := output.NewRenderer(&bytes.Buffer{})
			if renderError := renderer.Render(sampleLines, testCase.destination); renderError == nil {
				t.Fatalf("expected an error")
			}
		})
	}

	entries, listError := os.ReadDir(baseDirectory)
	if listError != nil {
		t.Fatalf("list base directory: %v", listError)
	}
	if len(entries) != 1 {
		t.Fatalf("expected no leftover temporary files, found %d entries", len(entries))
	}
}

func TestRenderFileFailedReplaceKeepsDestination(t *testing.T) {
	t.Parallel()

	outputDirectory := t.TempDir()
	outputPath := filepath.Join(outputDirectory, "tree.md")
	originalContent := []byte("previous tree\n")
	if writeError := os.WriteFile(outputPath, originalContent, 0o644); writeError != nil {
		t.Fatalf("seed output: %v", writeError)
	}

	errReplaceFixture := errors.New("rename refused")
	var temporaryPath string
	replaceFile := func(sourcePath string, destinationPath string) error {
		temporaryPath = sourcePath
		if _, statError := os.Stat(sourcePath); statError != nil {
			t.Errorf("temporary file missing before replace: %v", statError)
		}
		return errReplaceFixture
	}

	renderer := output.NewRendererWithReplace(&bytes.Buffer{}, replaceFile)
	renderError := renderer.Render(sampleLines, types.FileDestination(outputPath))
	if !errors.Is(renderError, errReplaceFixture) {
		t.Fatalf("expected wrapped replace error, got %v", renderError)
	}
	if temporaryPath == "" {
		t.Fatalf("replace was never attempted")
	}

	written, readError := os.ReadFile(outputPath)
	if readError != nil {
		t.Fatalf("read output: %v", readError)
	}
	if !bytes.Equal(written, originalContent) {
		t.Fatalf("destination changed to %q", string(written))
	}
	leftovers, globError := filepath.Glob(filepath.Join(outputDirectory, ".tree.md.*.tmp"))
	if globError != nil {
		t.Fatalf("glob: %v", globError)
	}
	if len(leftovers) != 0 {
		t.Fatalf("temporary files left behind: %q", leftovers)
	}
}

func TestRenderFileWritesThroughSymlink(t *testing.T) {
	t.Parallel()

	outputDirectory := t.TempDir()
	targetPath := filepath.Join(outputDirectory, "target.md")
	if writeError := os.WriteFile(targetPath, []byte("old\n"), 0o644); writeError != nil {
		t.Fatalf("seed target: %v", writeError)
	}
	linkPath := filepath.Join(outputDirectory, "tree.md")
	if symlinkError := os.Symlink(targetPath, linkPath); symlinkError != nil {
		t.Skipf("symlinks unavailable: %v", symlinkError)
	}

	renderer := output.NewRenderer(&bytes.Buffer{})
	if renderError := renderer.Render([]string{"root/", "│"}, types.FileDestination(linkPath)); renderError != nil {
		t.Fatalf("Render error: %v", renderError)
	}

	linkInfo, lstatError := os.Lstat(linkPath)
	if lstatError != nil {
		t.Fatalf("lstat link: %v", lstatError)
	}
	if linkInfo.Mode()&os.ModeSymlink == 0 {
		t.Fatalf("symbolic link was replaced by a regular file")
	}
	written, readError := os.ReadFile(targetPath)
	if readError != nil {
		t.Fatalf("read target: %v", readError)
	}
	if string(written) != "```\nroot/\n│\n```\n" {
		t.Fatalf("unexpected target content %q", string(written))
	}
}

func TestFenceLinesDoesNotModifyInput(t *testing.T) {
	t.Parallel()

	original := append([]string(nil), sampleLines...)
	fenced := output.FenceLines(sampleLines)
	if len(fenced) != len(sampleLines)+2 {
		t.Fatalf("unexpected fenced length %d", len(fenced))
	}
	if !reflect.DeepEqual(sampleLines, original) {
		t.Fatalf("FenceLines modified its input")
	}
}
