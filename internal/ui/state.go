package ui

import (
	"strings"
	"sync"
	"time"

	"github.com/devicetree-tools/dtviz/pkg/devicetree"
	"github.com/devicetree-tools/dtviz/pkg/devicetree/bindings"
	"github.com/devicetree-tools/dtviz/pkg/graph"
)

// StateSnapshot captures a copy of the state data for rendering without
// requiring the UI to hold locks while laying out widgets. Root and
// Selected point into the live tree; the tree is only mutated through
// AppState methods, and loads swap in a freshly parsed tree instead of
// rewriting the old one, so a snapshot stays coherent for the frame that
// took it.
type StateSnapshot struct {
	Root   *devicetree.Node
	Layout graph.LayoutResult

	Selected *devicetree.Node

	FilePath string
	Dirty    bool

	Status    string
	LoadError string

	// Collapsed holds the tree panel rows folded shut, keyed by node
	// path. Absent means expanded, so a fresh load starts fully open.
	Collapsed map[string]bool

	Logs []string

	// LoadSeq increments once per installed tree, letting the view
	// refit its camera on loads but not on edits.
	LoadSeq uint64

	Revision    uint64
	LastUpdated time.Time
}

// HasTree reports whether a devicetree is currently loaded.
func (s StateSnapshot) HasTree() bool { return s.Root != nil }

// AppState tracks the mutable state shared between the Gio event loop and
// background goroutines running file dialogs and disk I/O. Every change
// bumps the revision and wakes the subscribed listeners after the lock is
// released, which is how the window learns it needs a new frame.
type AppState struct {
	mu sync.RWMutex

	root   *devicetree.Node
	layout graph.LayoutResult
	index  *bindings.Index

	selected *devicetree.Node

	filePath string
	dirty    bool

	status    string
	loadError string

	collapsed map[string]bool

	logs     []string
	logLimit int

	loadSeq     uint64
	revision    uint64
	lastUpdated time.Time

	listeners []func()
}

// NewState returns a baseline AppState with safe defaults.
func NewState() *AppState {
	return &AppState{
		collapsed:   map[string]bool{},
		logLimit:    200,
		status:      "No file loaded",
		lastUpdated: time.Now(),
	}
}

// Subscribe registers fn to run after every state change. Listeners are
// invoked outside the state lock and must be safe to call from any
// goroutine; the UI registers the window invalidator here.
func (s *AppState) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Snapshot returns a copy of the mutable state for rendering.
func (s *AppState) Snapshot() StateSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	collapsedCopy := make(map[string]bool, len(s.collapsed))
	for k, v := range s.collapsed {
		collapsedCopy[k] = v
	}

	logCopy := make([]string, len(s.logs))
	copy(logCopy, s.logs)

	return StateSnapshot{
		Root:        s.root,
		Layout:      s.layout,
		Selected:    s.selected,
		FilePath:    s.filePath,
		Dirty:       s.dirty,
		Status:      s.status,
		LoadError:   s.loadError,
		Collapsed:   collapsedCopy,
		Logs:        logCopy,
		LoadSeq:     s.loadSeq,
		Revision:    s.revision,
		LastUpdated: s.lastUpdated,
	}
}

// SetBindings attaches the bindings index consulted for reference edges
// and recomputes the layout if a tree is already loaded.
func (s *AppState) SetBindings(idx *bindings.Index) {
	s.mu.Lock()
	s.index = idx
	if s.root != nil {
		s.relayoutLocked()
	}
	s.touchLocked()
	s.mu.Unlock()
	s.notify()
}

// SetTree installs a freshly parsed tree: the layout is recomputed, the
// selection and fold state reset, and the dirty flag cleared.
func (s *AppState) SetTree(root *devicetree.Node, path string) {
	s.mu.Lock()
	s.root = root
	s.filePath = path
	s.selected = nil
	s.collapsed = map[string]bool{}
	s.dirty = false
	s.loadError = ""
	s.loadSeq++
	s.relayoutLocked()
	s.touchLocked()
	s.mu.Unlock()
	s.notify()
}

// SelectNode moves the selection to n if it belongs to the current tree.
// A nil n clears the selection.
func (s *AppState) SelectNode(n *devicetree.Node) {
	s.mu.Lock()
	if n != nil {
		if _, ok := s.layout.Placements[n]; !ok {
			s.mu.Unlock()
			return
		}
	}
	s.selected = n
	s.touchLocked()
	s.mu.Unlock()
	s.notify()
}

// ClearSelection drops the selected node, if any.
func (s *AppState) ClearSelection() {
	s.SelectNode(nil)
}

// SelectedNode returns the currently selected node, if any.
func (s *AppState) SelectedNode() *devicetree.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// ToggleCollapsed folds or unfolds the tree panel row at path.
func (s *AppState) ToggleCollapsed(path string) {
	s.mu.Lock()
	if s.collapsed[path] {
		delete(s.collapsed, path)
	} else {
		s.collapsed[path] = true
	}
	s.touchLocked()
	s.mu.Unlock()
	s.notify()
}

// SetStatus updates the user-facing status message.
func (s *AppState) SetStatus(status string) {
	s.mu.Lock()
	s.status = status
	s.touchLocked()
	s.mu.Unlock()
	s.notify()
}

// SetLoadError records the banner text shown after a failed load. An
// empty message clears the banner.
func (s *AppState) SetLoadError(msg string) {
	s.mu.Lock()
	s.loadError = msg
	s.touchLocked()
	s.mu.Unlock()
	s.notify()
}

// AppendLog appends a log message, trimming the oldest entries past the
// limit.
func (s *AppState) AppendLog(msg string) {
	s.mu.Lock()
	s.logs = append(s.logs, msg)
	if s.logLimit > 0 && len(s.logs) > s.logLimit {
		offset := len(s.logs) - s.logLimit
		s.logs = append([]string(nil), s.logs[offset:]...)
	}
	s.touchLocked()
	s.mu.Unlock()
	s.notify()
}

// MarkSaved records a successful write of the tree to path.
func (s *AppState) MarkSaved(path string) {
	s.mu.Lock()
	s.filePath = path
	s.dirty = false
	s.touchLocked()
	s.mu.Unlock()
	s.notify()
}

// RenameSelected renames the selected node, rewriting the paths of its
// subtree and carrying the fold state across. The root keeps its name;
// names may not be empty or contain a path separator. Reports whether
// the tree changed.
func (s *AppState) RenameSelected(name string) bool {
	s.mu.Lock()
	sel := s.selected
	if sel == nil || sel.Parent == nil || name == "" || strings.Contains(name, "/") || name == sel.Name {
		s.mu.Unlock()
		return false
	}
	oldPath := sel.Path
	sel.Rename(name)
	s.remapCollapsedLocked(oldPath, sel.Path)
	s.dirty = true
	s.relayoutLocked()
	s.touchLocked()
	s.mu.Unlock()
	s.notify()
	return true
}

// DeleteSelected removes the selected node and its subtree. The root is
// protected. On success the selection moves to the removed node's former
// parent.
func (s *AppState) DeleteSelected() bool {
	s.mu.Lock()
	sel := s.selected
	if sel == nil {
		s.mu.Unlock()
		return false
	}
	parent := sel.Parent
	path := sel.Path
	if !sel.Remove() {
		s.mu.Unlock()
		return false
	}
	s.dropCollapsedLocked(path)
	s.selected = parent
	s.dirty = true
	s.relayoutLocked()
	s.touchLocked()
	s.mu.Unlock()
	s.notify()
	return true
}

// SetNodeProperty sets a property on the selected node and recomputes the
// layout, since status and compatible edits can move a node's category,
// badge, or reference edges.
func (s *AppState) SetNodeProperty(name string, v devicetree.Value) bool {
	s.mu.Lock()
	sel := s.selected
	if sel == nil || name == "" {
		s.mu.Unlock()
		return false
	}
	sel.SetProperty(name, v)
	s.dirty = true
	s.relayoutLocked()
	s.touchLocked()
	s.mu.Unlock()
	s.notify()
	return true
}

// DeleteNodeProperty removes a property from the selected node.
func (s *AppState) DeleteNodeProperty(name string) bool {
	s.mu.Lock()
	sel := s.selected
	if sel == nil || !sel.DeleteProperty(name) {
		s.mu.Unlock()
		return false
	}
	s.dirty = true
	s.relayoutLocked()
	s.touchLocked()
	s.mu.Unlock()
	s.notify()
	return true
}

// SerializeTree renders the current tree to DTS source under the state
// lock so concurrent edits cannot tear the output.
func (s *AppState) SerializeTree() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.root == nil {
		return "", false
	}
	return devicetree.Serialize(s.root), true
}

// ExportSelected renders the selected subtree as an include fragment and
// suggests a file name for it.
func (s *AppState) ExportSelected() (text, name string, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return "", "", false
	}
	name = s.selected.BaseName()
	if s.selected.Parent == nil {
		name = "root"
	}
	return devicetree.ExportFragment(s.selected), name + ".dtsi", true
}

// relayoutLocked recomputes placements and reference edges for the
// current tree. Callers hold the write lock.
func (s *AppState) relayoutLocked() {
	if s.root == nil {
		s.layout = graph.LayoutResult{}
		return
	}
	res := graph.Compute(s.root)
	res.RefEdges = graph.RefEdges(s.root, s.index)
	s.layout = res
}

// remapCollapsedLocked moves fold entries from the old subtree prefix to
// the new one after a rename.
func (s *AppState) remapCollapsedLocked(oldPath, newPath string) {
	if oldPath == newPath {
		return
	}
	for path, v := range s.collapsed {
		if path == oldPath {
			delete(s.collapsed, path)
			s.collapsed[newPath] = v
		} else if strings.HasPrefix(path, oldPath+"/") {
			delete(s.collapsed, path)
			s.collapsed[newPath+path[len(oldPath):]] = v
		}
	}
}

// dropCollapsedLocked forgets fold entries for a removed subtree.
func (s *AppState) dropCollapsedLocked(path string) {
	for p := range s.collapsed {
		if p == path || strings.HasPrefix(p, path+"/") {
			delete(s.collapsed, p)
		}
	}
}

func (s *AppState) touchLocked() {
	s.revision++
	s.lastUpdated = time.Now()
}

// notify invokes the subscribed listeners outside the state lock.
func (s *AppState) notify() {
	s.mu.RLock()
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn()
	}
}
