package devicetree

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// DTSLexer defines the lexical structure of device tree source.
// Names are permissive on purpose: DTS property names may carry '#', ',',
// '.', '+', '?' and '-', and node names add an '@' unit-address suffix
// which is tokenized separately.
var DTSLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Comments - both C and C++ style
	{Name: "Comment", Pattern: `//[^\n]*|/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},

	// Whitespace
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},

	// Compiler directives such as /dts-v1/, /memreserve/, /delete-node/
	{Name: "Directive", Pattern: `/[a-zA-Z][a-zA-Z0-9-]*/`},

	// String literals with escape sequences
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},

	// Numbers: hex or decimal. Hex without the 0x prefix (common in
	// unit-addresses) lexes as a Name, or as a Number/Name run when it
	// starts with a digit; the unit-address grammar rejoins the run.
	{Name: "Number", Pattern: `0[xX][0-9a-fA-F]+|[0-9]+`},

	// Node and property names, labels, and unexpanded macro symbols
	{Name: "Name", Pattern: `[#A-Za-z_][#A-Za-z0-9,._+?-]*`},

	// Structural punctuation; '/' doubles as the root node name
	{Name: "Punct", Pattern: `[{}<>\[\]();,=:@&/]`},
})
