package docs

import (
	"errors"
	"testing"

	"docmind/internal/domain"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		fileName string
		want     string
	}{
		{"app.js", "javascript"},
		{"Component.jsx", "javascript"},
		{"service.ts", "typescript"},
		{"Panel.TSX", "typescript"},
		{"main.py", "python"},
		{"Main.java", "java"},
		{"nested/path/util.ts", "typescript"},
	}
	for _, tt := range tests {
		t.Run(tt.fileName, func(t *testing.T) {
			got, err := DetectLanguage(tt.fileName)
			if err != nil {
				t.Fatalf("DetectLanguage(%q) error = %v", tt.fileName, err)
			}
			if got != tt.want {
				t.Errorf("DetectLanguage(%q) = %q, want %q", tt.fileName, got, tt.want)
			}
		})
	}
}

func TestDetectLanguageRejectsUnknownExtensions(t *testing.T) {
	for _, fileName := range []string{"notes.txt", "archive.zip", "binary", "style.css", "README.md"} {
		if _, err := DetectLanguage(fileName); !errors.Is(err, domain.ErrUnsupportedFileType) {
			t.Errorf("DetectLanguage(%q) error = %v, want ErrUnsupportedFileType", fileName, err)
		}
	}
}
