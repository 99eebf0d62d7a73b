package graphml

import (
	"path/filepath"
	"testing"
)

func TestNewDocumentFile(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		basename string
	}{
		{"bare name", "cities", "cities.graphml"},
		{"with extension", "cities.graphml", "cities.graphml"},
		{"empty defaults to temp", "", "temp.graphml"},
		{"absolute path", filepath.Join("/tmp", "deep", "doc"), "doc.graphml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewDocumentFile(tt.input)
			if f.Basename != tt.basename {
				t.Errorf("Basename = %q, want %q", f.Basename, tt.basename)
			}
			if f.FullPath != filepath.Join(f.Dir, f.Basename) {
				t.Errorf("FullPath %q does not join Dir and Basename", f.FullPath)
			}
			if f.WindowTitle != tt.basename+" - yEd" {
				t.Errorf("WindowTitle = %q", f.WindowTitle)
			}
		})
	}
}

func TestCheckValue(t *testing.T) {
	if err := CheckValue("shape", "rectangle", Shapes); err != nil {
		t.Errorf("valid value rejected: %v", err)
	}
	if err := CheckValue("shape", "dodecagon", Shapes); err == nil {
		t.Errorf("invalid value accepted")
	}
}
