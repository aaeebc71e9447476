package devicetree

import "testing"

func TestRenameUpdatesSubtreePaths(t *testing.T) {
	root := mustParse(t, `
/ {
	soc {
		serial@0 {
			sub {};
		};
	};
};
`)
	soc := root.Child("soc")
	if soc == nil {
		t.Fatal("soc missing")
	}

	soc.Rename("platform")

	if soc.Path != "/platform" {
		t.Errorf("path = %q, want /platform", soc.Path)
	}
	if root.FindByPath("/platform/serial@0/sub") == nil {
		t.Error("descendant paths not rewritten")
	}
	if root.FindByPath("/soc") != nil {
		t.Error("old path still resolves")
	}
}

func TestRenameRootIsNoop(t *testing.T) {
	root := mustParse(t, "/ { };")
	root.Rename("something")
	if root.Name != "/" || root.Path != "/" {
		t.Errorf("root changed: name=%q path=%q", root.Name, root.Path)
	}
}

func TestRemoveNode(t *testing.T) {
	root := mustParse(t, `
/ {
	a {};
	b {};
	c {};
};
`)
	b := root.Child("b")
	if !b.Remove() {
		t.Fatal("Remove returned false")
	}
	if len(root.Children) != 2 {
		t.Fatalf("children = %d, want 2", len(root.Children))
	}
	if root.Children[0].Name != "a" || root.Children[1].Name != "c" {
		t.Error("sibling order disturbed by removal")
	}
	if root.Remove() {
		t.Error("root removal must fail")
	}
}

func TestStatusAndEnabled(t *testing.T) {
	root := mustParse(t, `
/ {
	on { status = "okay"; };
	off { status = "disabled"; };
	implicit {};
};
`)
	if !root.Child("on").Enabled() {
		t.Error("okay node reported disabled")
	}
	if root.Child("off").Enabled() {
		t.Error("disabled node reported enabled")
	}
	if got := root.Child("implicit").Status(); got != "okay" {
		t.Errorf("implicit status = %q, want okay", got)
	}
}

func TestPhandleMap(t *testing.T) {
	root := mustParse(t, `
/ {
	clk: clock@0 {
		phandle = <0x10>;
	};
	legacy@1 {
		linux,phandle = <0x11>;
	};
	plain@2 {};
};
`)
	m := root.PhandleMap()
	if len(m) != 2 {
		t.Fatalf("phandle map size = %d, want 2", len(m))
	}
	if m[0x10] == nil || m[0x10].Name != "clock@0" {
		t.Errorf("phandle 0x10 -> %v", m[0x10])
	}
	if m[0x11] == nil || m[0x11].Name != "legacy@1" {
		t.Errorf("phandle 0x11 -> %v", m[0x11])
	}
}

func TestWalkOrderAndDepth(t *testing.T) {
	root := mustParse(t, `
/ {
	a {
		a1 {};
	};
	b {};
};
`)
	var names []string
	var depths []int
	root.Walk(func(n *Node, depth int) {
		names = append(names, n.Name)
		depths = append(depths, depth)
	})

	wantNames := []string{"/", "a", "a1", "b"}
	wantDepths := []int{0, 1, 2, 1}
	if len(names) != len(wantNames) {
		t.Fatalf("visited %d nodes, want %d", len(names), len(wantNames))
	}
	for i := range wantNames {
		if names[i] != wantNames[i] || depths[i] != wantDepths[i] {
			t.Errorf("visit[%d] = %s@%d, want %s@%d",
				i, names[i], depths[i], wantNames[i], wantDepths[i])
		}
	}
}

func TestSetPropertyKeepsPosition(t *testing.T) {
	root := mustParse(t, `
/ {
	first = <1>;
	second = <2>;
};
`)
	root.SetProperty("first", StringValue("changed"))

	if len(root.Properties) != 2 {
		t.Fatalf("properties = %d, want 2", len(root.Properties))
	}
	if root.Properties[0].Name != "first" {
		t.Error("in-place update moved the property")
	}
	if s, _ := root.Properties[0].Value.FirstString(); s != "changed" {
		t.Errorf("value = %q", s)
	}

	root.SetProperty("third", CellsValue(3))
	if root.Properties[2].Name != "third" {
		t.Error("new property not appended at the end")
	}
}
