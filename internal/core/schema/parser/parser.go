// Package parser parses mapping schema files using Participle.
package parser

import (
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"

	"github.com/satishbabariya/rowmap/internal/core/schema/ast"
)

// parser is the Participle parser instance.
var parser = participle.MustBuild[ast.File](
	participle.Lexer(SchemaLexer),
	participle.Elide("Whitespace", "Newline", "Comment", "MultiLineComment"),
	participle.Unquote("String"),
	participle.UseLookahead(4),
)

// Parse parses a schema file from an io.Reader.
func Parse(filename string, r io.Reader) (*ast.File, error) {
	return parser.Parse(filename, r)
}

// ParseString parses a schema file from a string.
func ParseString(filename, input string) (*ast.File, error) {
	return Parse(filename, strings.NewReader(input))
}

// MustParseString parses a schema file from a string, panicking on error.
func MustParseString(filename, input string) *ast.File {
	f, err := ParseString(filename, input)
	if err != nil {
		panic(err)
	}
	return f
}

// Grammar returns the EBNF of the schema language.
func Grammar() string {
	return parser.String()
}
