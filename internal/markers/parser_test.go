package markers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multicode/codegraph/pkg/schema"
)

func markerErr(t *testing.T, err error) *schema.CodegraphError {
	t.Helper()
	var ce *schema.CodegraphError
	require.True(t, errors.As(err, &ce), "expected a CodegraphError, got %v", err)
	return ce
}

// --- Parse tests ---

func TestParse_NoMarkers(t *testing.T) {
	blocks, err := Parse("int main() {\n    return 0;\n}\n")
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestParse_EmptyFile(t *testing.T) {
	blocks, err := Parse("")
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestParse_SingleBlock(t *testing.T) {
	text := "#include <iostream>\n" +
		"// codegraph:begin main\n" +
		"std::cout << 1 << std::endl;\n" +
		"// codegraph:end main\n" +
		"int trailer;\n"

	blocks, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, blocks, 1)

	assert.Equal(t, "main", blocks[0].ID)
	assert.Equal(t, 2, blocks[0].BeginLine)
	assert.Equal(t, 4, blocks[0].EndLine)
	assert.Equal(t, "std::cout << 1 << std::endl;", blocks[0].Preview)
}

func TestParse_MultipleBlocks(t *testing.T) {
	text := "// codegraph:begin a\n" +
		"x();\n" +
		"// codegraph:end a\n" +
		"between();\n" +
		"// codegraph:begin b\n" +
		"// codegraph:end b\n"

	blocks, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, "a", blocks[0].ID)
	assert.Equal(t, "b", blocks[1].ID)
	assert.Equal(t, "(empty)", blocks[1].Preview, "empty interior gets a placeholder preview")
}

func TestParse_IndentedMarkers(t *testing.T) {
	text := "void f() {\n" +
		"    // codegraph:begin inner\n" +
		"    body();\n" +
		"    // codegraph:end inner\n" +
		"}\n"

	blocks, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "inner", blocks[0].ID)
	assert.Equal(t, "body();", blocks[0].Preview)
}

func TestParse_PreviewSkipsBlankLines(t *testing.T) {
	text := "// codegraph:begin p\n\n\n    real();\n// codegraph:end p\n"

	blocks, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "real();", blocks[0].Preview)
}

func TestParse_IDFromEndMarkerOnly(t *testing.T) {
	text := "// codegraph:begin\n" +
		"x();\n" +
		"// codegraph:end tail\n"

	blocks, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "tail", blocks[0].ID)
}

func TestParse_NestedBegin(t *testing.T) {
	text := "// codegraph:begin outer\n" +
		"// codegraph:begin inner\n" +
		"// codegraph:end inner\n" +
		"// codegraph:end outer\n"

	_, err := Parse(text)
	ce := markerErr(t, err)
	assert.Equal(t, schema.ErrCodeNestedBegin, ce.Code)
	assert.Equal(t, 2, ce.Line)
}

func TestParse_OrphanEnd(t *testing.T) {
	text := "x();\n// codegraph:end lonely\n"

	_, err := Parse(text)
	ce := markerErr(t, err)
	assert.Equal(t, schema.ErrCodeOrphanEnd, ce.Code)
	assert.Equal(t, 2, ce.Line)
}

func TestParse_MismatchedIDs(t *testing.T) {
	text := "// codegraph:begin alpha\n" +
		"x();\n" +
		"// codegraph:end beta\n"

	_, err := Parse(text)
	ce := markerErr(t, err)
	assert.Equal(t, schema.ErrCodeMismatchedIDs, ce.Code)
	assert.Equal(t, 3, ce.Line)
}

func TestParse_UnclosedBegin(t *testing.T) {
	text := "// codegraph:begin open\nx();\n"

	_, err := Parse(text)
	ce := markerErr(t, err)
	assert.Equal(t, schema.ErrCodeUnclosedBegin, ce.Code)
	assert.Equal(t, 1, ce.Line)
}

func TestParse_ErrorAbortsBeforeLaterBlocks(t *testing.T) {
	// The valid block after the orphan end must not be reported.
	text := "// codegraph:end stray\n" +
		"// codegraph:begin ok\n" +
		"// codegraph:end ok\n"

	blocks, err := Parse(text)
	require.Error(t, err)
	assert.Nil(t, blocks)
}

func TestParse_CRLFInput(t *testing.T) {
	text := "// codegraph:begin win\r\nx();\r\n// codegraph:end win\r\n"

	blocks, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "win", blocks[0].ID)
	assert.Equal(t, 1, blocks[0].BeginLine)
	assert.Equal(t, 3, blocks[0].EndLine)
}
