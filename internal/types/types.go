// Package types defines the data structures shared by the dirtree packages.
package types

// DestinationKind tags the variant held by a Destination.
type DestinationKind int

const (
	// DestinationConsole writes the diagram to the console stream.
	DestinationConsole DestinationKind = iota
	// DestinationFile writes the diagram, fenced, to a file.
	DestinationFile
)

// String returns a readable name for the kind.
func (kind DestinationKind) String() string {
	switch kind {
	case DestinationConsole:
		return "console"
	case DestinationFile:
		return "file"
	default:
		return "unknown"
	}
}

// Destination is where a rendered tree goes: the console or a file path.
type Destination struct {
	Kind DestinationKind
	Path string
}

// ConsoleDestination returns the console variant.
func ConsoleDestination() Destination {
	return Destination{Kind: DestinationConsole}
}

// FileDestination returns the file variant for path.
func FileDestination(path string) Destination {
	return Destination{Kind: DestinationFile, Path: path}
}

// ValidatedPath is an input path that already passed existence checks.
type ValidatedPath struct {
	// DisplayPath is the cleaned path as the user supplied it, used in the head marker.
	DisplayPath string
}
