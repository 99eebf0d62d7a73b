package graphml

import (
	"os"
	"path/filepath"
	"strings"
)

// Extension is the file extension of persisted documents.
const Extension = ".graphml"

// defaultBasename is used when Persist is called without a path.
const defaultBasename = "temp"

// DocumentFile normalizes a document path: it resolves the directory
// (defaulting to the working directory), forces the .graphml extension,
// and derives the window title the yEd editor gives the file.
type DocumentFile struct {
	Dir      string
	Basename string
	FullPath string

	// WindowTitle is the title yEd shows with the document open; used to
	// find the editor window for a particular file.
	WindowTitle string
}

// NewDocumentFile builds a DocumentFile from a name, a relative path, an
// absolute path, or the empty string (which resolves to "temp.graphml" in
// the working directory).
func NewDocumentFile(nameOrPath string) *DocumentFile {
	dir := filepath.Dir(nameOrPath)
	if nameOrPath == "" || dir == "." {
		if wd, err := os.Getwd(); err == nil {
			dir = wd
		}
	}

	base := filepath.Base(nameOrPath)
	if nameOrPath == "" || base == "." || base == string(filepath.Separator) {
		base = defaultBasename
	}
	if !strings.HasSuffix(base, Extension) {
		base += Extension
	}

	return &DocumentFile{
		Dir:         dir,
		Basename:    base,
		FullPath:    filepath.Join(dir, base),
		WindowTitle: base + " - yEd",
	}
}

// Exists reports whether the document file is present on disk.
func (f *DocumentFile) Exists() bool {
	info, err := os.Stat(f.FullPath)
	return err == nil && !info.IsDir()
}
