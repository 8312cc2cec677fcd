package constants

import "strings"

// AllowedExtensions holds the allowed file extensions for invoice documents.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsPDFExt reports whether the extension denotes a PDF document.
func IsPDFExt(ext string) bool {
	return NormalizeExt(ext) == "pdf"
}
