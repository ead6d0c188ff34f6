package markers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multicode/codegraph/pkg/schema"
)

// --- Patch tests ---

func TestPatch_ReplacesInteriorOnly(t *testing.T) {
	text := "int before;\n" +
		"// codegraph:begin main\n" +
		"old();\n" +
		"older();\n" +
		"// codegraph:end main\n" +
		"int after;\n"

	out, err := Patch(text, "main", "fresh();\n")
	require.NoError(t, err)
	assert.Equal(t,
		"int before;\n"+
			"// codegraph:begin main\n"+
			"fresh();\n"+
			"// codegraph:end main\n"+
			"int after;\n",
		out)
}

func TestPatch_EmptyInteriorGetsFilled(t *testing.T) {
	text := "// codegraph:begin m\n// codegraph:end m\n"

	out, err := Patch(text, "m", "a();\nb();\n")
	require.NoError(t, err)
	assert.Equal(t, "// codegraph:begin m\na();\nb();\n// codegraph:end m\n", out)
}

func TestPatch_EmptyCodeEmptiesBlock(t *testing.T) {
	text := "// codegraph:begin m\nold();\n// codegraph:end m\n"

	out, err := Patch(text, "m", "")
	require.NoError(t, err)
	assert.Equal(t, "// codegraph:begin m\n// codegraph:end m\n", out)
}

func TestPatch_BlockNotFound(t *testing.T) {
	text := "// codegraph:begin m\n// codegraph:end m\n"

	_, err := Patch(text, "missing", "x();\n")
	var ce *schema.CodegraphError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, schema.ErrCodeBlockNotFound, ce.Code)
}

func TestPatch_ParseErrorPropagates(t *testing.T) {
	_, err := Patch("// codegraph:end stray\n", "m", "x();\n")
	var ce *schema.CodegraphError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, schema.ErrCodeOrphanEnd, ce.Code)
}

func TestPatch_PreservesCRLF(t *testing.T) {
	text := "int a;\r\n// codegraph:begin m\r\nold();\r\n// codegraph:end m\r\n"

	out, err := Patch(text, "m", "fresh();\n")
	require.NoError(t, err)
	assert.Equal(t, "int a;\r\n// codegraph:begin m\r\nfresh();\r\n// codegraph:end m\r\n", out)
}

func TestPatch_PreservesMissingTrailingNewline(t *testing.T) {
	text := "// codegraph:begin m\nold();\n// codegraph:end m"

	out, err := Patch(text, "m", "fresh();\n")
	require.NoError(t, err)
	assert.Equal(t, "// codegraph:begin m\nfresh();\n// codegraph:end m", out)
}

func TestPatch_SecondOfTwoBlocks(t *testing.T) {
	text := "// codegraph:begin a\nkeep();\n// codegraph:end a\n" +
		"// codegraph:begin b\nold();\n// codegraph:end b\n"

	out, err := Patch(text, "b", "fresh();\n")
	require.NoError(t, err)
	assert.Contains(t, out, "keep();")
	assert.Contains(t, out, "fresh();")
	assert.NotContains(t, out, "old();")
}

func TestPatch_RoundTripIsStable(t *testing.T) {
	text := "hdr();\n// codegraph:begin m\nbody();\n// codegraph:end m\nftr();\n"

	out, err := Patch(text, "m", "body();\n")
	require.NoError(t, err)
	assert.Equal(t, text, out)
}

// --- Append tests ---

func TestAppend_ToEmptyFile(t *testing.T) {
	out, err := Append("", "main", "x();\n")
	require.NoError(t, err)
	assert.Equal(t, "// codegraph:begin main\nx();\n// codegraph:end main\n", out)
}

func TestAppend_ToExistingFileAddsSeparator(t *testing.T) {
	out, err := Append("int a;\n", "main", "x();\n")
	require.NoError(t, err)
	assert.Equal(t, "int a;\n\n// codegraph:begin main\nx();\n// codegraph:end main\n", out)
}

func TestAppend_PreservesCRLF(t *testing.T) {
	out, err := Append("int a;\r\n", "m", "x();\n")
	require.NoError(t, err)
	assert.Equal(t, "int a;\r\n\r\n// codegraph:begin m\r\nx();\r\n// codegraph:end m\r\n", out)
}

func TestAppend_DuplicateIDRejected(t *testing.T) {
	text := "// codegraph:begin m\n// codegraph:end m\n"

	_, err := Append(text, "m", "x();\n")
	require.Error(t, err)

	var ce *schema.CodegraphError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, schema.ErrCodeDuplicateBlock, ce.Code)
	assert.Equal(t, 1, ce.Line)
}

func TestAppend_ResultParsesBack(t *testing.T) {
	out, err := Append("int a;\n", "m", "x();\n")
	require.NoError(t, err)

	blocks, err := Parse(out)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "m", blocks[0].ID)
	assert.Equal(t, "x();", blocks[0].Preview)
}
