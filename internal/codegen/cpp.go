// Package codegen compiles a visual program graph into textual source code.
// The traversal engine, expression resolver and variable binding table are
// language-neutral; the built-in generators and the output composer target C++.
package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/multicode/codegraph/pkg/schema"
)

// cppType maps a port data type to its C++ spelling.
func cppType(t schema.DataType) string {
	switch t {
	case schema.TypeInt:
		return "int"
	case schema.TypeFloat:
		return "double"
	case schema.TypeBool:
		return "bool"
	case schema.TypeString:
		return "std::string"
	case schema.TypeVoid:
		return "void"
	default:
		return "auto"
	}
}

// cppDefault returns the zero/default expression for an unconnected port.
func cppDefault(t schema.DataType) string {
	switch t {
	case schema.TypeString:
		return `std::string("")`
	case schema.TypeBool:
		return "false"
	case schema.TypeInt:
		return "0"
	case schema.TypeFloat:
		return "0.0"
	case schema.TypeAny:
		return `"(unconnected)"`
	default:
		return "/* unknown type */"
	}
}

// cppLiteral renders a user-set or default port value as a C++ expression.
// String-typed values are quoted; everything else is stringified.
func cppLiteral(v any, t schema.DataType) string {
	if t == schema.TypeString {
		return quoteCppString(fmt.Sprintf("%v", v))
	}
	switch x := v.(type) {
	case string:
		return quoteCppString(x)
	case bool:
		if x {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return formatCppFloat(x)
	case nil:
		return cppDefault(t)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// formatCppFloat keeps a decimal point so the literal stays a double.
func formatCppFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func quoteCppString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// pascalCase turns a display name into a PascalCase type name fragment.
// A blank name gets a stand-in before sanitization can substitute its own.
func pascalCase(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Anon"
	}
	words := strings.FieldsFunc(sanitizeIdentifier(name), func(r rune) bool {
		return r == '_'
	})
	var b strings.Builder
	for _, w := range words {
		b.WriteString(strings.ToUpper(w[:1]))
		b.WriteString(w[1:])
	}
	return b.String()
}
