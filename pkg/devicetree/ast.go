package devicetree

// SourceFile is the parse tree for one .dts or .dtsi input.
type SourceFile struct {
	Entries []*TopLevel `parser:"@@*"`
}

// TopLevel is one top-level statement: a compiler directive, the root
// node definition, or an override block extending a labeled node.
type TopLevel struct {
	Directive *Directive   `parser:"  @@"`
	Root      *RootDef     `parser:"| @@"`
	Override  *OverrideDef `parser:"| @@"`
}

// Directive covers /dts-v1/, /plugin/, /memreserve/ and similar
// statements. Arguments are kept raw; none of them contribute tree
// content.
type Directive struct {
	Name string   `parser:"@Directive"`
	Args []string `parser:"@( Number | String | Name | \"&\" )* \";\""`
}

// RootDef is the root node: / { ... };
type RootDef struct {
	Body *NodeBody `parser:"\"/\" @@ \";\""`
}

// OverrideDef extends a previously labeled node: &label { ... };
type OverrideDef struct {
	Label string    `parser:"\"&\" @Name"`
	Body  *NodeBody `parser:"@@ \";\""`
}

// NodeBody is the braced list of properties and child nodes.
type NodeBody struct {
	Entries []*NodeEntry `parser:"\"{\" @@* \"}\""`
}

// NodeEntry is one statement inside a node body.
type NodeEntry struct {
	DeleteNode *DeleteNodeDef `parser:"  @@"`
	DeleteProp *DeletePropDef `parser:"| @@"`
	Child      *ChildDef      `parser:"| @@"`
	Prop       *PropDef       `parser:"| @@"`
}

// DeleteNodeDef removes a child node: /delete-node/ name;
type DeleteNodeDef struct {
	Name string `parser:"\"/delete-node/\" @( Name | Number )"`
	Unit string `parser:"( \"@\" @( Name | Number | \",\" )+ )? \";\""`
}

// FullName returns the node name including the unit address.
func (d *DeleteNodeDef) FullName() string {
	if d.Unit != "" {
		return d.Name + "@" + d.Unit
	}
	return d.Name
}

// DeletePropDef removes a property: /delete-property/ name;
type DeletePropDef struct {
	Name string `parser:"\"/delete-property/\" @Name \";\""`
}

// ChildDef is a child node definition, optionally labeled and with an
// optional unit address: label: name@unit { ... };
type ChildDef struct {
	Label string    `parser:"( @Name \":\" )?"`
	Name  string    `parser:"@( Name | Number )"`
	Unit  string    `parser:"( \"@\" @( Name | Number | \",\" )+ )?"`
	Body  *NodeBody `parser:"@@ \";\""`
}

// FullName returns the node name including the unit address.
func (c *ChildDef) FullName() string {
	if c.Unit != "" {
		return c.Name + "@" + c.Unit
	}
	return c.Name
}

// PropDef is a property definition. A missing value marks a boolean
// property (present with no '=').
type PropDef struct {
	Name  string     `parser:"@( Name | Number )"`
	Value *PropValue `parser:"( \"=\" @@ )? \";\""`
}

// PropValue is a comma-separated list of value parts.
type PropValue struct {
	Parts []*ValuePart `parser:"@@ ( \",\" @@ )*"`
}

// ValuePart is one element of a property value: a string, a cell array,
// a byte array, or a standalone reference.
type ValuePart struct {
	Str   *string   `parser:"  @String"`
	Cells *CellList `parser:"| @@"`
	Bytes *ByteList `parser:"| @@"`
	Ref   *string   `parser:"| \"&\" @Name"`
}

// CellList is an angle-bracketed array of cells.
type CellList struct {
	Cells []*CellValue `parser:"\"<\" @@* \">\""`
}

// CellValue is one cell: a &label reference, a number, or a bare symbol
// left behind by an unexpanded macro.
type CellValue struct {
	Ref *string `parser:"  \"&\" @Name"`
	Num *string `parser:"| @( Number | Name )"`
}

// ByteList is a square-bracketed byte string of hex digit runs.
type ByteList struct {
	Raw []string `parser:"\"[\" @( Number | Name )* \"]\""`
}
