package devicetree

import (
	"encoding/hex"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"

	"github.com/devicetree-tools/dtviz/pkg/errors"
)

// Parser parses device tree source into a Node tree.
type Parser struct {
	parser *participle.Parser[SourceFile]
}

// NewParser creates a new DTS parser instance.
func NewParser() (*Parser, error) {
	parser, err := participle.Build[SourceFile](
		participle.Lexer(DTSLexer),
		participle.Elide("Comment", "Whitespace"),
		participle.UseLookahead(2),
		participle.Unquote("String"),
	)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "building DTS grammar")
	}
	return &Parser{parser: parser}, nil
}

// Parse parses device tree source from a reader and returns the root node.
func (p *Parser) Parse(r io.Reader) (*Node, error) {
	file, err := p.parser.Parse("", r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "malformed device tree source")
	}
	return buildTree(file)
}

// ParseString parses device tree source from a string.
func (p *Parser) ParseString(input string) (*Node, error) {
	file, err := p.parser.ParseString("", input)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "malformed device tree source")
	}
	return buildTree(file)
}

// ParseFile parses a device tree source file.
func (p *Parser) ParseFile(filename string) (*Node, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "opening %s", filename)
	}
	defer file.Close()

	return p.Parse(file)
}

// valueParser parses a standalone property value, used when editing
// property text in the inspector.
var valueParser = participle.MustBuild[PropValue](
	participle.Lexer(DTSLexer),
	participle.Elide("Comment", "Whitespace"),
	participle.UseLookahead(2),
	participle.Unquote("String"),
)

// ParseValue parses property value text such as `"okay"`, `<0x1 &clk>`
// or `[de ad be ef]`. Empty input yields the boolean (empty) value.
func ParseValue(text string) (Value, error) {
	if text == "" {
		return Value{}, nil
	}
	pv, err := valueParser.ParseString("", text)
	if err != nil {
		return Value{}, errors.Wrap(errors.ErrCodeParse, err, "malformed property value %q", text)
	}
	return valueFromAST(pv)
}

// buildTree folds the parse tree into the Node model, resolving labeled
// override blocks onto their targets.
func buildTree(file *SourceFile) (*Node, error) {
	root := &Node{Name: "/", Path: "/"}
	labels := map[string]*Node{}
	for _, top := range file.Entries {
		switch {
		case top.Directive != nil:
			// Version markers and /memreserve/ carry no tree content.
		case top.Root != nil:
			if err := applyBody(root, top.Root.Body, labels); err != nil {
				return nil, err
			}
		case top.Override != nil:
			target := labels[top.Override.Label]
			if target == nil {
				// The label lives in a file we never saw. Keep the block
				// visible under a synthetic child instead of dropping it.
				target = root.ensureChild("&" + top.Override.Label)
			}
			if err := applyBody(target, top.Override.Body, labels); err != nil {
				return nil, err
			}
		}
	}
	return root, nil
}

func applyBody(n *Node, body *NodeBody, labels map[string]*Node) error {
	for _, e := range body.Entries {
		switch {
		case e.DeleteNode != nil:
			n.removeChildByName(e.DeleteNode.FullName())
		case e.DeleteProp != nil:
			n.DeleteProperty(e.DeleteProp.Name)
		case e.Prop != nil:
			v, err := valueFromAST(e.Prop.Value)
			if err != nil {
				return err
			}
			n.SetProperty(e.Prop.Name, v)
		case e.Child != nil:
			child := n.ensureChild(e.Child.FullName())
			if e.Child.Label != "" {
				child.Label = e.Child.Label
				labels[e.Child.Label] = child
			}
			if err := applyBody(child, e.Child.Body, labels); err != nil {
				return err
			}
		}
	}
	return nil
}

func valueFromAST(pv *PropValue) (Value, error) {
	if pv == nil {
		return Value{}, nil
	}
	parts := make([]Part, 0, len(pv.Parts))
	for _, vp := range pv.Parts {
		switch {
		case vp.Str != nil:
			parts = append(parts, Part{Kind: PartString, Str: *vp.Str})
		case vp.Ref != nil:
			parts = append(parts, Part{Kind: PartRef, Ref: *vp.Ref})
		case vp.Cells != nil:
			cells := make([]Cell, 0, len(vp.Cells.Cells))
			for _, cv := range vp.Cells.Cells {
				cells = append(cells, cellFromAST(cv))
			}
			parts = append(parts, Part{Kind: PartCells, Cells: cells})
		case vp.Bytes != nil:
			b, err := decodeByteList(vp.Bytes.Raw)
			if err != nil {
				return Value{}, err
			}
			parts = append(parts, Part{Kind: PartBytes, Bytes: b})
		}
	}
	return Value{Parts: parts}, nil
}

func cellFromAST(cv *CellValue) Cell {
	if cv.Ref != nil {
		return Cell{Ref: *cv.Ref}
	}
	raw := *cv.Num
	if v, err := strconv.ParseUint(raw, 0, 64); err == nil {
		return Cell{Val: v, Raw: raw}
	}
	// Unexpanded macro symbol such as GIC_SPI; kept verbatim.
	return Cell{Sym: raw}
}

func decodeByteList(runs []string) ([]byte, error) {
	// The lexer splits a run like "2f" into Number("2") + Name("f").
	// Whitespace inside a byte string carries no meaning, so join the
	// runs before pairing digits.
	joined := strings.Join(runs, "")
	if len(joined)%2 != 0 {
		return nil, errors.New(errors.ErrCodeParse, "odd-length byte string %q", joined)
	}
	b, err := hex.DecodeString(joined)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "invalid byte string %q", joined)
	}
	return b, nil
}
