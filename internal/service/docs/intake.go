package docs

import (
	"fmt"
	"path/filepath"
	"strings"

	"docmind/internal/domain"
)

// languageByExtension maps accepted upload extensions to the language name
// used in generation prompts.
var languageByExtension = map[string]string{
	".js":   "javascript",
	".jsx":  "javascript",
	".ts":   "typescript",
	".tsx":  "typescript",
	".py":   "python",
	".java": "java",
}

// DetectLanguage resolves the programming language of an uploaded file from
// its extension. Unknown extensions are rejected.
func DetectLanguage(fileName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	lang, ok := languageByExtension[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedFileType, ext)
	}
	return lang, nil
}

// SupportedExtensions lists the accepted upload extensions, for error
// messages and the frontend file picker.
func SupportedExtensions() []string {
	return []string{".js", ".jsx", ".ts", ".tsx", ".py", ".java"}
}
