package markers

import (
	"strings"

	"github.com/multicode/codegraph/pkg/schema"
)

// Patch replaces the interior of the block named id with newCode, keeping the
// marker lines and everything outside the block byte-identical. The file's
// line-ending style and trailing-newline presence are preserved, so patching
// a CRLF file yields a CRLF file.
func Patch(text, id, newCode string) (string, error) {
	blocks, err := Parse(text)
	if err != nil {
		return "", err
	}

	var target *Block
	for i := range blocks {
		if blocks[i].ID == id {
			target = &blocks[i]
			break
		}
	}
	if target == nil {
		return "", schema.NewErrorf(schema.ErrCodeBlockNotFound,
			"no block with id %q", id)
	}

	lines, crlf, trailingNewline := splitLines(text)

	out := make([]string, 0, len(lines))
	out = append(out, lines[:target.BeginLine]...)
	out = append(out, codeLines(newCode)...)
	out = append(out, lines[target.EndLine-1:]...)

	return joinLines(out, crlf, trailingNewline), nil
}

// Append adds a new marker block named id to the end of the file, separated
// from existing content by one blank line. Appending to an empty file
// produces an LF file ending in a newline.
func Append(text, id, newCode string) (string, error) {
	blocks, err := Parse(text)
	if err != nil {
		return "", err
	}
	for _, b := range blocks {
		if b.ID == id {
			return "", schema.NewErrorf(schema.ErrCodeDuplicateBlock,
				"block id %q already exists at line %d", id, b.BeginLine).
				WithLine(b.BeginLine)
		}
	}

	lines, crlf, trailingNewline := splitLines(text)
	if len(lines) == 0 {
		trailingNewline = true
	} else {
		lines = append(lines, "")
	}

	lines = append(lines, "// codegraph:begin "+id)
	lines = append(lines, codeLines(newCode)...)
	lines = append(lines, "// codegraph:end "+id)

	return joinLines(lines, crlf, trailingNewline), nil
}

// codeLines splits generated code for splicing. Generated output carries a
// final newline; stripping it here keeps the end marker on its own line
// without introducing a stray blank.
func codeLines(code string) []string {
	code = strings.ReplaceAll(code, "\r\n", "\n")
	code = strings.TrimSuffix(code, "\n")
	if code == "" {
		return nil
	}
	return strings.Split(code, "\n")
}
