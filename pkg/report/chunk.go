package report

import (
	"strings"
	"unicode/utf8"
)

// DefaultChunkLimit keeps messages under common chat message limits
const DefaultChunkLimit = 4000

// Chunk splits a report into pieces of at most limit characters. Whole
// blocks are packed together when they fit; an oversized block is split at
// line boundaries and a single oversized line is cut.
func Chunk(text string, limit int) []string {
	if limit <= 0 {
		limit = DefaultChunkLimit
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var chunks []string
	current := ""
	flush := func() {
		if current != "" {
			chunks = append(chunks, current)
			current = ""
		}
	}
	add := func(piece, sep string) {
		switch {
		case current == "":
			current = piece
		case utf8.RuneCountInString(current)+utf8.RuneCountInString(sep)+utf8.RuneCountInString(piece) <= limit:
			current += sep + piece
		default:
			flush()
			current = piece
		}
	}

	for _, block := range strings.Split(text, BlockSeparator) {
		block = strings.Trim(block, "\n")
		if block == "" {
			continue
		}
		if utf8.RuneCountInString(block) <= limit {
			add(block, BlockSeparator)
			continue
		}

		flush()
		for _, line := range strings.Split(block, "\n") {
			for _, piece := range cut(line, limit) {
				add(piece, "\n")
			}
		}
		flush()
	}
	flush()
	return chunks
}

// cut splits a line into pieces of at most limit runes
func cut(line string, limit int) []string {
	if utf8.RuneCountInString(line) <= limit {
		return []string{line}
	}
	var pieces []string
	runes := []rune(line)
	for len(runes) > limit {
		pieces = append(pieces, string(runes[:limit]))
		runes = runes[limit:]
	}
	if len(runes) > 0 {
		pieces = append(pieces, string(runes))
	}
	return pieces
}
