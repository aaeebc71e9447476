package devicetree

import "strings"

// Node is one device tree node. Children keep source order and are owned
// by their parent; the tree has exactly one root (Parent == nil) and no
// cycles. Derived data such as icon categories or layout positions never
// lives here.
type Node struct {
	Name       string // node name including the @unit-address suffix
	Label      string // label from `label: name { ... }`, if any
	Path       string // /-joined path from the root
	Properties []Property
	Children   []*Node
	Parent     *Node
}

// Property is one named property with its typed value. Order within a
// node mirrors source order.
type Property struct {
	Name  string
	Value Value
}

// BaseName returns the node name without the unit address.
func (n *Node) BaseName() string {
	name, _, _ := strings.Cut(n.Name, "@")
	return name
}

// UnitAddress returns the unit address portion of the name, if any.
func (n *Node) UnitAddress() string {
	_, unit, _ := strings.Cut(n.Name, "@")
	return unit
}

// Property returns the value of the named property.
func (n *Node) Property(name string) (Value, bool) {
	for _, p := range n.Properties {
		if p.Name == name {
			return p.Value, true
		}
	}
	return Value{}, false
}

// HasProperty reports whether the named property exists, regardless of
// value. Boolean marker properties report true.
func (n *Node) HasProperty(name string) bool {
	_, ok := n.Property(name)
	return ok
}

// SetProperty replaces the named property in place, or appends it.
func (n *Node) SetProperty(name string, v Value) {
	for i, p := range n.Properties {
		if p.Name == name {
			n.Properties[i].Value = v
			return
		}
	}
	n.Properties = append(n.Properties, Property{Name: name, Value: v})
}

// DeleteProperty removes the named property. Reports whether it existed.
func (n *Node) DeleteProperty(name string) bool {
	for i, p := range n.Properties {
		if p.Name == name {
			n.Properties = append(n.Properties[:i], n.Properties[i+1:]...)
			return true
		}
	}
	return false
}

// Compatible returns the strings of the compatible property, if any.
func (n *Node) Compatible() []string {
	v, ok := n.Property("compatible")
	if !ok {
		return nil
	}
	return v.Strings()
}

// DeviceType returns the device_type property string, if any.
func (n *Node) DeviceType() string {
	v, ok := n.Property("device_type")
	if !ok {
		return ""
	}
	s, _ := v.FirstString()
	return s
}

// Status returns the status property, defaulting to "okay" when absent.
func (n *Node) Status() string {
	v, ok := n.Property("status")
	if !ok {
		return "okay"
	}
	s, ok := v.FirstString()
	if !ok {
		return "okay"
	}
	return s
}

// Enabled reports whether the node's status is anything but "disabled".
func (n *Node) Enabled() bool {
	return n.Status() != "disabled"
}

// Phandle returns the node's phandle value, if it has one.
func (n *Node) Phandle() (uint64, bool) {
	for _, name := range []string{"phandle", "linux,phandle"} {
		if v, ok := n.Property(name); ok {
			if ph, ok := v.FirstCell(); ok {
				return ph, true
			}
		}
	}
	return 0, false
}

// Child returns the direct child with the given full name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// FindByPath searches the subtree for the node with the given path.
func (n *Node) FindByPath(path string) *Node {
	if n.Path == path {
		return n
	}
	for _, c := range n.Children {
		if found := c.FindByPath(path); found != nil {
			return found
		}
	}
	return nil
}

// Walk visits the subtree pre-order, children in source order, passing
// each node's depth relative to n.
func (n *Node) Walk(fn func(*Node, int)) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int), depth int) {
	fn(n, depth)
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// Rename changes the node name and rewrites paths for the whole subtree.
// Renaming the root is a no-op.
func (n *Node) Rename(name string) {
	if n.Parent == nil || name == "" {
		return
	}
	n.Name = name
	n.updatePaths()
}

// Remove detaches the node from its parent. Reports whether anything was
// removed; the root cannot be removed.
func (n *Node) Remove() bool {
	if n.Parent == nil {
		return false
	}
	parent := n.Parent
	for i, c := range parent.Children {
		if c == n {
			parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
			n.Parent = nil
			return true
		}
	}
	return false
}

// PhandleMap returns phandle values mapped to the nodes of this subtree.
func (n *Node) PhandleMap() map[uint64]*Node {
	m := map[uint64]*Node{}
	n.Walk(func(node *Node, _ int) {
		if ph, ok := node.Phandle(); ok {
			m[ph] = node
		}
	})
	return m
}

func (n *Node) ensureChild(name string) *Node {
	if c := n.Child(name); c != nil {
		return c
	}
	c := &Node{Name: name, Parent: n, Path: joinPath(n.Path, name)}
	n.Children = append(n.Children, c)
	return c
}

func (n *Node) removeChildByName(name string) bool {
	if c := n.Child(name); c != nil {
		return c.Remove()
	}
	return false
}

func (n *Node) updatePaths() {
	if n.Parent != nil {
		n.Path = joinPath(n.Parent.Path, n.Name)
	}
	for _, c := range n.Children {
		c.updatePaths()
	}
}

func joinPath(parent, name string) string {
	if parent == "/" || parent == "" {
		return "/" + name
	}
	return parent + "/" + name
}
