// Package bindings indexes devicetree binding schemas (YAML) to answer
// which properties of a given compatible may hold phandle references.
// The index drives the cross-reference edges of the graph view.
package bindings

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/devicetree-tools/dtviz/pkg/errors"
)

// Index maps a compatible string to the set of property names whose
// binding schema references a phandle or phandle-array type.
type Index struct {
	compatToPhandleProps map[string]map[string]bool
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{compatToPhandleProps: map[string]map[string]bool{}}
}

// Len returns the number of indexed compatibles.
func (idx *Index) Len() int {
	return len(idx.compatToPhandleProps)
}

// PhandleProps returns the indexed phandle-capable property names for a
// compatible, in no particular order.
func (idx *Index) PhandleProps(compatible string) []string {
	props := idx.compatToPhandleProps[compatible]
	if len(props) == 0 {
		return nil
	}
	out := make([]string, 0, len(props))
	for p := range props {
		out = append(out, p)
	}
	return out
}

// MayReferencePhandle reports whether the given property of a node with
// the given compatible may hold phandle references. Properties indexed
// under the "pinctrl-" wildcard match any pinctrl-N name.
func (idx *Index) MayReferencePhandle(compatible, prop string) bool {
	if compatible == "" {
		return false
	}
	props := idx.compatToPhandleProps[compatible]
	if len(props) == 0 {
		return false
	}
	if props[prop] {
		return true
	}
	if strings.HasPrefix(prop, "pinctrl-") {
		for p := range props {
			if strings.HasPrefix(p, "pinctrl-") {
				return true
			}
		}
	}
	return false
}

// Add records phandle-capable properties for a compatible.
func (idx *Index) Add(compatible string, props ...string) {
	for _, p := range props {
		idx.add(compatible, p)
	}
}

func (idx *Index) add(compatible, prop string) {
	props := idx.compatToPhandleProps[compatible]
	if props == nil {
		props = map[string]bool{}
		idx.compatToPhandleProps[compatible] = props
	}
	props[prop] = true
}

// Load walks a directory of binding YAML files and builds the index.
// Files that fail to parse are skipped; only an unreadable root directory
// is an error.
func Load(dir string) (*Index, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, errors.Wrap(errors.ErrCodeBindings, err, "bindings directory %s", dir)
	}
	idx := NewIndex()
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		var doc map[string]any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil
		}
		indexDocument(idx, doc)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBindings, err, "walking bindings directory %s", dir)
	}
	return idx, nil
}

func indexDocument(idx *Index, doc map[string]any) {
	compatibles := extractCompatibles(doc["compatible"])
	if len(compatibles) == 0 {
		return
	}
	props := extractPhandleProps(doc)
	if len(props) == 0 {
		return
	}
	for _, comp := range compatibles {
		for _, p := range props {
			idx.add(comp, p)
		}
	}
}

// extractCompatibles pulls compatible strings out of const/enum schemas,
// descending through oneOf/anyOf/allOf combinators.
func extractCompatibles(section any) []string {
	m, ok := section.(map[string]any)
	if !ok {
		return nil
	}
	var res []string
	seen := map[string]bool{}
	appendOne := func(s string) {
		if !seen[s] {
			seen[s] = true
			res = append(res, s)
		}
	}
	if v, ok := m["const"].(string); ok {
		appendOne(v)
	}
	if list, ok := m["enum"].([]any); ok {
		for _, e := range list {
			if s, ok := e.(string); ok {
				appendOne(s)
			}
		}
	}
	for _, key := range []string{"oneOf", "anyOf", "allOf"} {
		list, ok := m[key].([]any)
		if !ok {
			continue
		}
		for _, alt := range list {
			for _, s := range extractCompatibles(alt) {
				appendOne(s)
			}
		}
	}
	return res
}

func extractPhandleProps(doc map[string]any) []string {
	var result []string
	if props, ok := doc["properties"].(map[string]any); ok {
		for name, schema := range props {
			if schemaIsPhandle(schema) {
				result = append(result, name)
			}
		}
	}
	// patternProperties like ^pinctrl-[0-9]+$ index as a prefix wildcard.
	if patt, ok := doc["patternProperties"].(map[string]any); ok {
		for pat, schema := range patt {
			if strings.HasPrefix(pat, "^pinctrl-") && schemaIsPhandle(schema) {
				result = append(result, "pinctrl-")
			}
		}
	}
	return result
}

// schemaIsPhandle reports whether a property schema resolves to a phandle
// or phandle-array type: a direct $ref, a $ref under items (mapping or
// sequence form), or one nested inside oneOf/anyOf/allOf.
func schemaIsPhandle(schema any) bool {
	m, ok := schema.(map[string]any)
	if !ok {
		return false
	}
	if ref, ok := m["$ref"].(string); ok && strings.Contains(ref, "/phandle") {
		return true
	}
	switch items := m["items"].(type) {
	case map[string]any:
		if schemaIsPhandle(items) {
			return true
		}
	case []any:
		for _, it := range items {
			if schemaIsPhandle(it) {
				return true
			}
		}
	}
	for _, key := range []string{"oneOf", "anyOf", "allOf"} {
		list, ok := m[key].([]any)
		if !ok {
			continue
		}
		for _, alt := range list {
			if schemaIsPhandle(alt) {
				return true
			}
		}
	}
	return false
}
