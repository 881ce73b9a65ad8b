// Package clipboard copies rendered diagrams to the system clipboard.
package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"
)

const errorClipboardUnavailableFormat = "copying tree to clipboard: %w"

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct{}

// NewService constructs a clipboard service.
func NewService() *Service {
	return &Service{}
}

// Copy writes text to the system clipboard.
func (service *Service) Copy(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf(errorClipboardUnavailableFormat, ErrUnsupported)
	}
	if copyError := clipboard.WriteAll(text); copyError != nil {
		return fmt.Errorf(errorClipboardUnavailableFormat, copyError)
	}
	return nil
}

var _ Copier = (*Service)(nil)
