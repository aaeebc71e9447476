package devicetree

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueKind is the collapsed type tag of a property value.
type ValueKind int

const (
	// KindEmpty is a boolean marker property (present, no '=').
	KindEmpty ValueKind = iota
	// KindString is one or more string literals.
	KindString
	// KindCells is one or more <...> cell arrays.
	KindCells
	// KindBytes is one or more [...] byte strings.
	KindBytes
	// KindMixed combines different part kinds in one value.
	KindMixed
)

func (k ValueKind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindString:
		return "string"
	case KindCells:
		return "cells"
	case KindBytes:
		return "bytes"
	case KindMixed:
		return "mixed"
	}
	return "unknown"
}

// PartKind tags one comma-separated element of a property value.
type PartKind int

const (
	PartString PartKind = iota
	PartCells
	PartBytes
	PartRef
)

// Part is one element of a property value.
type Part struct {
	Kind  PartKind
	Str   string // PartString
	Cells []Cell // PartCells
	Bytes []byte // PartBytes
	Ref   string // PartRef: standalone &label
}

// Cell is one 32-bit slot of a cell array. Exactly one of Ref, Sym, or
// the numeric value applies: Ref for &label references, Sym for symbols
// an unexpanded macro left behind, otherwise Val (with Raw keeping the
// source spelling).
type Cell struct {
	Ref string
	Sym string
	Val uint64
	Raw string
}

// IsNumeric reports whether the cell holds a plain number.
func (c Cell) IsNumeric() bool {
	return c.Ref == "" && c.Sym == ""
}

func (c Cell) source() string {
	switch {
	case c.Ref != "":
		return "&" + c.Ref
	case c.Sym != "":
		return c.Sym
	case c.Raw != "":
		return c.Raw
	}
	return fmt.Sprintf("0x%x", c.Val)
}

// Value is a parsed property value: an ordered list of parts.
type Value struct {
	Parts []Part
}

// Kind returns the collapsed type tag for the whole value.
func (v Value) Kind() ValueKind {
	if len(v.Parts) == 0 {
		return KindEmpty
	}
	kind := v.Parts[0].Kind
	for _, p := range v.Parts[1:] {
		if p.Kind != kind {
			return KindMixed
		}
	}
	switch kind {
	case PartString:
		return KindString
	case PartCells:
		return KindCells
	case PartBytes:
		return KindBytes
	}
	return KindMixed
}

// IsEmpty reports whether this is a boolean marker value.
func (v Value) IsEmpty() bool {
	return len(v.Parts) == 0
}

// Strings returns all string parts in order.
func (v Value) Strings() []string {
	var out []string
	for _, p := range v.Parts {
		if p.Kind == PartString {
			out = append(out, p.Str)
		}
	}
	return out
}

// FirstString returns the first string part.
func (v Value) FirstString() (string, bool) {
	for _, p := range v.Parts {
		if p.Kind == PartString {
			return p.Str, true
		}
	}
	return "", false
}

// CellValues returns all cells across all cell-array parts, in order.
func (v Value) CellValues() []Cell {
	var out []Cell
	for _, p := range v.Parts {
		if p.Kind == PartCells {
			out = append(out, p.Cells...)
		}
	}
	return out
}

// FirstCell returns the first numeric cell value.
func (v Value) FirstCell() (uint64, bool) {
	for _, c := range v.CellValues() {
		if c.IsNumeric() {
			return c.Val, true
		}
	}
	return 0, false
}

// Source renders the value as device tree source text, without the
// property name or trailing semicolon. Empty values render as "".
func (v Value) Source() string {
	if len(v.Parts) == 0 {
		return ""
	}
	parts := make([]string, 0, len(v.Parts))
	for _, p := range v.Parts {
		switch p.Kind {
		case PartString:
			parts = append(parts, strconv.Quote(p.Str))
		case PartRef:
			parts = append(parts, "&"+p.Ref)
		case PartCells:
			cells := make([]string, 0, len(p.Cells))
			for _, c := range p.Cells {
				cells = append(cells, c.source())
			}
			parts = append(parts, "<"+strings.Join(cells, " ")+">")
		case PartBytes:
			bytes := make([]string, 0, len(p.Bytes))
			for _, b := range p.Bytes {
				bytes = append(bytes, fmt.Sprintf("%02x", b))
			}
			parts = append(parts, "["+strings.Join(bytes, " ")+"]")
		}
	}
	return strings.Join(parts, ", ")
}

// Display renders the value for the property inspector: boolean markers
// as "true", plain string lists unquoted, everything else as source text.
func (v Value) Display() string {
	if len(v.Parts) == 0 {
		return "true"
	}
	if v.Kind() == KindString {
		return strings.Join(v.Strings(), ", ")
	}
	return v.Source()
}

// StringValue builds a value of string parts, one per argument.
func StringValue(ss ...string) Value {
	parts := make([]Part, 0, len(ss))
	for _, s := range ss {
		parts = append(parts, Part{Kind: PartString, Str: s})
	}
	return Value{Parts: parts}
}

// CellsValue builds a single-cell-array value from numbers.
func CellsValue(nums ...uint64) Value {
	cells := make([]Cell, 0, len(nums))
	for _, n := range nums {
		cells = append(cells, Cell{Val: n})
	}
	return Value{Parts: []Part{{Kind: PartCells, Cells: cells}}}
}
