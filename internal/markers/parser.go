// Package markers locates and rewrites named generated-code blocks inside
// real source files. A block is a paired `// codegraph:begin <id>` /
// `// codegraph:end <id>` comment region whose interior is owned by the
// generator; everything outside a block is preserved byte-for-byte.
package markers

import (
	"regexp"
	"strings"

	"github.com/multicode/codegraph/pkg/schema"
)

// Block is one well-formed marker pair found in a file.
type Block struct {
	ID        string `json:"id"`
	BeginLine int    `json:"beginLine"` // 1-based line of the begin marker
	EndLine   int    `json:"endLine"`   // 1-based line of the end marker
	Preview   string `json:"preview"`   // first non-blank interior line, for UI display
}

var (
	beginPattern = regexp.MustCompile(`^\s*//\s*codegraph:begin(?:\s+(.+?))?\s*$`)
	endPattern   = regexp.MustCompile(`^\s*//\s*codegraph:end(?:\s+(.+?))?\s*$`)
)

// Parse scans a file for marker blocks. Nesting is not supported: blocks are
// flat, and any structural violation aborts the scan with a structured error
// carrying the offending 1-based line number.
func Parse(text string) ([]Block, error) {
	lines, _, _ := splitLines(text)

	var blocks []Block
	openLine := 0 // 0: no block open
	openID := ""
	openHasID := false

	for i, line := range lines {
		lineNo := i + 1

		if m := beginPattern.FindStringSubmatch(line); m != nil {
			if openLine != 0 {
				return nil, schema.NewErrorf(schema.ErrCodeNestedBegin,
					"begin marker while block opened at line %d is still open", openLine).
					WithLine(lineNo)
			}
			openLine = lineNo
			openID = strings.TrimSpace(m[1])
			openHasID = openID != ""
			continue
		}

		if m := endPattern.FindStringSubmatch(line); m != nil {
			if openLine == 0 {
				return nil, schema.NewError(schema.ErrCodeOrphanEnd,
					"end marker with no open begin").WithLine(lineNo)
			}
			endID := strings.TrimSpace(m[1])
			if openHasID && endID != "" && endID != openID {
				return nil, schema.NewErrorf(schema.ErrCodeMismatchedIDs,
					"end marker id %q does not match begin id %q", endID, openID).
					WithLine(lineNo)
			}
			id := openID
			if id == "" {
				id = endID
			}
			blocks = append(blocks, Block{
				ID:        id,
				BeginLine: openLine,
				EndLine:   lineNo,
				Preview:   preview(lines[openLine : lineNo-1]),
			})
			openLine = 0
			openID = ""
			openHasID = false
		}
	}

	if openLine != 0 {
		return nil, schema.NewErrorf(schema.ErrCodeUnclosedBegin,
			"begin marker at line %d is never closed", openLine).WithLine(openLine)
	}
	return blocks, nil
}

// preview picks the first non-blank interior line for UI display.
func preview(interior []string) string {
	for _, line := range interior {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return "(empty)"
}

// splitLines breaks text into lines, remembering the line-ending style (any
// CRLF makes the whole file CRLF) and whether the file ends with a newline.
func splitLines(text string) (lines []string, crlf bool, trailingNewline bool) {
	if text == "" {
		return nil, false, false
	}
	crlf = strings.Contains(text, "\r\n")
	trailingNewline = strings.HasSuffix(text, "\n")

	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.TrimSuffix(normalized, "\n")
	return strings.Split(normalized, "\n"), crlf, trailingNewline
}

// joinLines reassembles lines with the detected style.
func joinLines(lines []string, crlf bool, trailingNewline bool) string {
	eol := "\n"
	if crlf {
		eol = "\r\n"
	}
	out := strings.Join(lines, eol)
	if trailingNewline {
		out += eol
	}
	return out
}
