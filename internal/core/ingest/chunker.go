package ingest

import "strings"

// Window is one chunk-sized slice of a document's text with its character
// offsets and stable index.
type Window struct {
	Text  string
	Start int
	End   int
	Index int
}

// Split cuts fullText into non-overlapping windows of size characters,
// scanning left to right from offset 0. Offsets count characters (runes),
// not bytes, so a window never cuts through a multi-byte rune. Windows whose
// trimmed content is empty are skipped, but skipping never renumbers: Index
// is always Start/size, so the mapping from offset to index is stable
// regardless of skips. Empty input yields no windows.
//
// The policy is deliberately character-based with no sentence or paragraph
// awareness; offsets must round-trip deterministically.
func Split(fullText string, size int) []Window {
	if size <= 0 {
		return nil
	}
	runes := []rune(fullText)
	if len(runes) == 0 {
		return nil
	}

	var out []Window
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		text := string(runes[start:end])
		if strings.TrimSpace(text) == "" {
			continue
		}
		out = append(out, Window{
			Text:  text,
			Start: start,
			End:   end,
			Index: start / size,
		})
	}
	return out
}
