package export

import (
	"fmt"
	"os"
	"path/filepath"
)

// Notifier receives the outcome of a save
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Writer writes documents into the output directory
type Writer struct {
	dir      string
	create   bool
	notifier Notifier
}

// NewWriter creates a writer for dir. With create set the directory is
// made on first save if missing.
func NewWriter(dir string, create bool, notifier Notifier) *Writer {
	return &Writer{dir: dir, create: create, notifier: notifier}
}

// Dir returns the output directory
func (w *Writer) Dir() string {
	return w.dir
}

// Save writes content to name inside the output directory and reports the
// result through the notifier. Failures are never returned to the caller.
func (w *Writer) Save(name string, content []byte) bool {
	path := filepath.Join(w.dir, name)

	if w.create {
		if err := os.MkdirAll(w.dir, 0755); err != nil {
			w.notifier.Error(fmt.Sprintf("Error while saving to %s: %v", path, err))
			return false
		}
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		w.notifier.Error(fmt.Sprintf("Error while saving to %s: %v", path, err))
		return false
	}

	w.notifier.Success(fmt.Sprintf("Saved to %s", path))
	return true
}
