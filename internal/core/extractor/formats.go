package extractor

import (
	"path/filepath"
	"strings"
)

// supportedExtensions is the closed allow-list of formats routed through the
// converter. Anything else skips extraction and keeps the literal content.
var supportedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".doc":  true,
	".pptx": true,
	".ppt":  true,
	".xlsx": true,
	".xls":  true,
	".html": true,
	".htm":  true,
	".txt":  true,
	".md":   true,
	".csv":  true,
	".json": true,
	".xml":  true,
	".zip":  true,
}

// Supported reports whether the filename's extension is in the allow-list.
func Supported(filename string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(filename))]
}
