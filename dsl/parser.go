// Package dsl parses story files: a small declarative format describing
// the text, font, color and export target of one or more renderings.
package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})\b`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `(?:\d+\.\d+|\d+)(?:px|pt|mm|in|x)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[;:,]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	fileParser = participle.MustBuild[File](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
		participle.UseLookahead(2),
	)
)

// File is the root AST node of a story file.
type File struct {
	Stories []*Story `parser:"Newline* ( @@ Newline* )+"`
}

// Story describes one rendering.
type Story struct {
	Pos        lexer.Position `parser:"" json:"-"`
	Name       StringLiteral  `parser:"'story' @String?"`
	Statements []*Statement   `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Statement inside a story block.
type Statement struct {
	Text       *TextBlock       `parser:"  @@"`
	Export     *ExportDirective `parser:"| @@"`
	Assignment *Assignment      `parser:"| @@"`
}

// TextBlock lists the lines of the document text, one string per line.
type TextBlock struct {
	Lines []*TextLine `parser:"'text' Newline* '{' Newline* ( @@ ( ',' | ';' | Newline )* )* '}'"`
}

// TextLine is a single quoted line.
type TextLine struct {
	Value StringLiteral `parser:"@String"`
}

// ExportDirective selects the export mode and an optional file name,
// e.g. `export: download "hello.png"`.
type ExportDirective struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Mode string         `parser:"'export' ':' @Ident"`
	Name *StringLiteral `parser:"@String?"`
}

// Assignment uses colon syntax (key: value).
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident"`
	Value *Value         `parser:"':' Newline* @@"`
}

// Value represents property values.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Color  *string        `parser:"| @Color"`
	Ident  *string        `parser:"| @Ident"`
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses story content from an io.Reader. name is used in error
// positions.
func Parse(name string, r io.Reader) (*File, error) {
	return fileParser.Parse(name, r)
}

// ParseString parses story content from a string.
func ParseString(input string) (*File, error) {
	return fileParser.ParseString("", input)
}
