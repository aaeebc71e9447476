package devicetree

import (
	"strings"
	"testing"
)

func TestSerializeShape(t *testing.T) {
	root := mustParse(t, `
/dts-v1/;

/ {
	model = "Test Board";

	clk: clock@0 {
		#clock-cells = <0>;
		always-on;
	};
};
`)
	out := Serialize(root)

	if !strings.HasPrefix(out, "/dts-v1/;\n") {
		t.Error("missing version header")
	}
	for _, want := range []string{
		"/ {\n",
		`model = "Test Board";`,
		"clk: clock@0 {",
		"#clock-cells = <0>;",
		"always-on;",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	input := `
/ {
	compatible = "vendor,board";
	#address-cells = <1>;

	soc {
		uart0: serial@ff180000 {
			compatible = "snps,dw-apb-uart";
			interrupts = <0 99 4>;
			status = "disabled";
			blob = [de ad be ef];
			wakeup-source;
		};
	};

	memory@80000000 {
		device_type = "memory";
		reg = <0x80000000 0x40000000>;
	};
};
`
	first := mustParse(t, input)
	text := Serialize(first)
	second := mustParse(t, text)

	var firstNodes, secondNodes []string
	first.Walk(func(n *Node, _ int) { firstNodes = append(firstNodes, n.Path) })
	second.Walk(func(n *Node, _ int) { secondNodes = append(secondNodes, n.Path) })

	if len(firstNodes) != len(secondNodes) {
		t.Fatalf("node count changed: %d -> %d", len(firstNodes), len(secondNodes))
	}
	for i := range firstNodes {
		if firstNodes[i] != secondNodes[i] {
			t.Errorf("node[%d] = %q, want %q", i, secondNodes[i], firstNodes[i])
		}
	}

	a := first.FindByPath("/soc/serial@ff180000")
	b := second.FindByPath("/soc/serial@ff180000")
	if b == nil {
		t.Fatal("serial lost in round trip")
	}
	if b.Label != a.Label {
		t.Errorf("label = %q, want %q", b.Label, a.Label)
	}
	if len(a.Properties) != len(b.Properties) {
		t.Fatalf("property count = %d, want %d", len(b.Properties), len(a.Properties))
	}
	for i := range a.Properties {
		if a.Properties[i].Name != b.Properties[i].Name {
			t.Errorf("prop[%d] = %q, want %q", i, b.Properties[i].Name, a.Properties[i].Name)
		}
		if a.Properties[i].Value.Source() != b.Properties[i].Value.Source() {
			t.Errorf("prop %s = %q, want %q", a.Properties[i].Name,
				b.Properties[i].Value.Source(), a.Properties[i].Value.Source())
		}
	}

	// Serialization is a fixed point after one pass.
	if third := Serialize(second); third != text {
		t.Error("second serialization differs from the first")
	}
}

func TestSerializeUnresolvedOverrideRoundTrip(t *testing.T) {
	// An override of a label defined in a file we never saw is kept as a
	// synthetic &label child; serialization must re-emit it as a
	// top-level block, not nest it inside / { } where it cannot parse.
	root := mustParse(t, `
/dts-v1/;

/ {
	model = "Test Board";
};

&extpmic {
	status = "okay";

	regulators {
		vdd-supply;
	};
};
`)
	text := Serialize(root)
	parser, err := NewParser()
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}
	second, err := parser.ParseString(text)
	if err != nil {
		t.Fatalf("serialized output does not parse: %v\n%s", err, text)
	}

	n := second.FindByPath("/&extpmic")
	if n == nil {
		t.Fatalf("override block lost in round trip:\n%s", text)
	}
	if v, ok := n.Property("status"); !ok || v.Source() != `"okay"` {
		t.Errorf("status after round trip = %q, ok=%v", v.Source(), ok)
	}
	if second.FindByPath("/&extpmic/regulators") == nil {
		t.Errorf("nested override child lost:\n%s", text)
	}

	if !strings.Contains(text, "\n&extpmic {\n") {
		t.Errorf("override not emitted at top level:\n%s", text)
	}
	if third := Serialize(second); third != text {
		t.Error("second serialization differs from the first")
	}
}
