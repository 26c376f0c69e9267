package texsource

import (
	"os"
	"strings"

	"arxivepub/internal/services"
)

// ScanTitle reads the document at texPath and extracts its title. The scan
// looks for the literal `title{` and captures everything up to the first
// `}`, `{`, or `\`, trimmed of surrounding whitespace. When no title is
// found the input path is returned unchanged so the caller always has a
// usable name.
func ScanTitle(texPath string) (string, error) {
	data, err := os.ReadFile(texPath)
	if err != nil {
		return "", services.Wrap(services.ErrSelection, "title", "read document", texPath, err)
	}
	if title, ok := scan(string(data)); ok {
		return title, nil
	}
	return texPath, nil
}

// scan walks the text in two states: searching for the `title{` marker,
// then capturing until a terminator. An empty capture counts as no match
// and the search resumes.
func scan(text string) (string, bool) {
	const marker = "title{"
	offset := 0
	for {
		start := strings.Index(text[offset:], marker)
		if start < 0 {
			return "", false
		}
		begin := offset + start + len(marker)
		end := strings.IndexAny(text[begin:], "}{\\")
		if end < 0 {
			return "", false
		}
		captured := strings.TrimSpace(text[begin : begin+end])
		if captured != "" {
			return captured, true
		}
		offset = begin
	}
}
