package bindings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/devicetree-tools/dtviz/pkg/errors"
)

func writeBinding(t *testing.T, dir, name, text string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestLoadIndexesPhandleProps(t *testing.T) {
	dir := t.TempDir()
	writeBinding(t, dir, "example.yaml", `
$id: example.yaml
$schema: http://devicetree.org/meta-schemas/core.yaml#
title: Example Device
compatible:
  const: vendor,example
properties:
  clocks:
    items:
      - $ref: /schemas/types.yaml#/definitions/phandle-array
additionalProperties: true
`)

	idx, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if idx.Len() != 1 {
		t.Fatalf("Len = %d, want 1", idx.Len())
	}
	if !idx.MayReferencePhandle("vendor,example", "clocks") {
		t.Error("clocks not indexed as phandle-capable")
	}
	if idx.MayReferencePhandle("vendor,example", "reg") {
		t.Error("reg wrongly indexed")
	}
	if idx.MayReferencePhandle("vendor,other", "clocks") {
		t.Error("unknown compatible matched")
	}
}

func TestLoadEnumAndCombinators(t *testing.T) {
	dir := t.TempDir()
	writeBinding(t, dir, "multi.yaml", `
compatible:
  oneOf:
    - const: vendor,a
    - enum:
        - vendor,b
        - vendor,c
properties:
  resets:
    $ref: /schemas/types.yaml#/definitions/phandle
  interrupt-parent:
    oneOf:
      - $ref: /schemas/types.yaml#/definitions/phandle
      - $ref: /schemas/types.yaml#/definitions/flag
`)

	idx, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, comp := range []string{"vendor,a", "vendor,b", "vendor,c"} {
		if !idx.MayReferencePhandle(comp, "resets") {
			t.Errorf("%s/resets not indexed", comp)
		}
		if !idx.MayReferencePhandle(comp, "interrupt-parent") {
			t.Errorf("%s/interrupt-parent not indexed", comp)
		}
	}
}

func TestPinctrlWildcard(t *testing.T) {
	dir := t.TempDir()
	writeBinding(t, dir, "pins.yaml", `
compatible:
  const: vendor,pins
patternProperties:
  "^pinctrl-[0-9]+$":
    items:
      - $ref: /schemas/types.yaml#/definitions/phandle
`)

	idx, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !idx.MayReferencePhandle("vendor,pins", "pinctrl-0") {
		t.Error("pinctrl-0 not matched via wildcard")
	}
	if !idx.MayReferencePhandle("vendor,pins", "pinctrl-7") {
		t.Error("pinctrl-7 not matched via wildcard")
	}
	if idx.MayReferencePhandle("vendor,pins", "clocks") {
		t.Error("clocks matched without an entry")
	}
}

func TestLoadSkipsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	writeBinding(t, dir, "broken.yaml", "{{{ not yaml")
	writeBinding(t, dir, "nocompat.yaml", `
properties:
  clocks:
    $ref: /schemas/types.yaml#/definitions/phandle
`)
	writeBinding(t, dir, "good.yaml", `
compatible:
  const: vendor,good
properties:
  dmas:
    $ref: /schemas/types.yaml#/definitions/phandle-array
`)

	idx, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if idx.Len() != 1 {
		t.Errorf("Len = %d, want only the good file indexed", idx.Len())
	}
	if !idx.MayReferencePhandle("vendor,good", "dmas") {
		t.Error("good file not indexed")
	}
}

func TestLoadMissingDirectory(t *testing.T) {
	_, err := Load("/nonexistent/bindings")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, errors.ErrCodeBindings) {
		t.Errorf("error code = %v, want bindings error", errors.GetCode(err))
	}
}

func TestEmptyIndexAnswersFalse(t *testing.T) {
	idx := NewIndex()
	if idx.MayReferencePhandle("", "clocks") {
		t.Error("empty compatible matched")
	}
	if idx.MayReferencePhandle("vendor,x", "clocks") {
		t.Error("empty index matched")
	}
}
