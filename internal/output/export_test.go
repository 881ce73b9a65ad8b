package output

import "io"

// NewRendererWithReplace returns a Renderer that commits file output through replaceFile.
func NewRendererWithReplace(console io.Writer, replaceFile func(string, string) error) *Renderer {
	renderer := NewRenderer(console)
	renderer.replaceFile = replaceFile
	return renderer
}
