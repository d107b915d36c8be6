// Package clipboard copies the packed file to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
)

const errorReadFileFormat = "reading %s for the clipboard: %w"

var (
	errNilCopier            = errors.New("nil clipboard copier")
	errClipboardUnsupported = errors.New("no clipboard utility available")
)

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
		return errClipboardUnsupported
	}
	return clipboard.WriteAll(text)
}

// CopyFile copies the content of filePath through copier.
func CopyFile(copier Copier, filePath string) error {
	if copier == nil {
		return errNilCopier
	}
	content, readError := os.ReadFile(filePath)
	if readError != nil {
		return fmt.Errorf(errorReadFileFormat, filePath, readError)
	}
	return copier.Copy(string(content))
}

var _ Copier = (*Service)(nil)
