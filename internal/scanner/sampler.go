package scanner

import "strings"

// snippetReadLimit is how many bytes of a text-like file are read.
const snippetReadLimit = 500

// snippetMaxChars is the length the collapsed snippet is truncated to.
const snippetMaxChars = 200

// UnreadableSnippet is the sentinel used when a text-like file cannot be read.
const UnreadableSnippet = "Analysis restricted: content unreadable."

// textExtensions is the fixed allow-list of extensions worth sampling.
var textExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".json": true,
	".js":   true,
	".ts":   true,
	".py":   true,
	".csv":  true,
	".html": true,
	".css":  true,
	".tsx":  true,
	".jsx":  true,
	".yaml": true,
	".yml":  true,
}

// shouldSample reports whether a file's content snippet is worth reading:
// either its extension is allow-listed or its MIME type is textual.
func shouldSample(ext, mimeType string) bool {
	return textExtensions[strings.ToLower(ext)] || strings.HasPrefix(mimeType, "text/")
}

// makeSnippet collapses newlines to spaces and truncates to the snippet cap.
func makeSnippet(head []byte) string {
	s := string(head)
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")

	runes := []rune(s)
	if len(runes) > snippetMaxChars {
		runes = runes[:snippetMaxChars]
	}
	return string(runes)
}
