package devicetree

import "testing"

func TestValueKind(t *testing.T) {
	tests := []struct {
		name string
		text string
		want ValueKind
	}{
		{"empty", "", KindEmpty},
		{"single string", `"x"`, KindString},
		{"string list", `"x", "y"`, KindString},
		{"cells", "<1 2>", KindCells},
		{"bytes", "[00 11]", KindBytes},
		{"mixed", `"x", <1>`, KindMixed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseValue(tt.text)
			if err != nil {
				t.Fatalf("ParseValue(%q): %v", tt.text, err)
			}
			if got := v.Kind(); got != tt.want {
				t.Errorf("Kind() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValueSource(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{`"okay"`, `"okay"`},
		{`"a", "b"`, `"a", "b"`},
		{"<0x1 0x2>", "<0x1 0x2>"},
		{"<1 2>", "<1 2>"},
		{"<&clk 4>", "<&clk 4>"},
		{"<GIC_SPI 42>", "<GIC_SPI 42>"},
		{"[de ad be ef]", "[de ad be ef]"},
		{"[dead]", "[de ad]"},
		{"[2f 1a]", "[2f 1a]"},
		{"&clk", "&clk"},
		{`"a", <1>`, `"a", <1>`},
	}
	for _, tt := range tests {
		v, err := ParseValue(tt.text)
		if err != nil {
			t.Fatalf("ParseValue(%q): %v", tt.text, err)
		}
		if got := v.Source(); got != tt.want {
			t.Errorf("Source(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestValueDisplay(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"", "true"},
		{`"okay"`, "okay"},
		{`"a", "b"`, "a, b"},
		{"<0x1>", "<0x1>"},
		{"[0011]", "[00 11]"},
	}
	for _, tt := range tests {
		v, err := ParseValue(tt.text)
		if err != nil {
			t.Fatalf("ParseValue(%q): %v", tt.text, err)
		}
		if got := v.Display(); got != tt.want {
			t.Errorf("Display(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestValueConstructors(t *testing.T) {
	v := StringValue("a", "b")
	if v.Kind() != KindString || len(v.Strings()) != 2 {
		t.Errorf("StringValue = %+v", v)
	}

	v = CellsValue(1, 2, 3)
	if v.Kind() != KindCells {
		t.Errorf("CellsValue kind = %v", v.Kind())
	}
	if cells := v.CellValues(); len(cells) != 3 || cells[2].Val != 3 {
		t.Errorf("CellsValue cells = %+v", cells)
	}
	if got := v.Source(); got != "<0x1 0x2 0x3>" {
		t.Errorf("CellsValue source = %q", got)
	}
}

func TestFirstCellSkipsRefsAndSymbols(t *testing.T) {
	v, err := ParseValue("<&gic GIC_SPI 42>")
	if err != nil {
		t.Fatalf("ParseValue: %v", err)
	}
	got, ok := v.FirstCell()
	if !ok || got != 42 {
		t.Errorf("FirstCell = %d ok=%v, want 42", got, ok)
	}
}
