package graph

import (
	"testing"

	"github.com/devicetree-tools/dtviz/pkg/devicetree"
)

func parseTree(t *testing.T, src string) *devicetree.Node {
	t.Helper()
	p, err := devicetree.NewParser()
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	root, err := p.ParseString(src)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	return root
}

func TestClassifyTable(t *testing.T) {
	cases := []struct {
		name string
		body string
		path string
		want Icon
	}{
		{"name prefix cpu", `cpu0 { };`, "/cpu0", IconCPU},
		{"device_type cpu", `core@0 { device_type = "cpu"; };`, "/core@0", IconCPU},
		{"compatible cortex", `core@1 { compatible = "arm,cortex-a53"; };`, "/core@1", IconCPU},
		{"name prefix memory", `memory@80000000 { device_type = "memory"; };`, "/memory@80000000", IconMemory},
		{"compatible sram", `ocram@20000000 { compatible = "mmio-sram"; };`, "/ocram@20000000", IconMemory},
		{"name gpio", `gpio@101f3000 { };`, "/gpio@101f3000", IconGPIO},
		{"compatible gpio", `pinbank@0 { compatible = "rockchip,gpio-bank"; };`, "/pinbank@0", IconGPIO},
		{"gpio wins over interrupt marker", `gpio@0 { interrupt-controller; };`, "/gpio@0", IconGPIO},
		{"interrupt marker", `pic@0 { interrupt-controller; };`, "/pic@0", IconInterrupt},
		{"compatible gic", `ic@2c001000 { compatible = "arm,gic-400"; };`, "/ic@2c001000", IconInterrupt},
		{"clock cells", `osc { #clock-cells = <0>; };`, "/osc", IconClock},
		{"name clk", `refclk { compatible = "fixed-factor"; };`, "/refclk", IconClock},
		{"name soc", `soc { };`, "/soc", IconBus},
		{"name bus", `axi-bus@0 { };`, "/axi-bus@0", IconBus},
		{"compatible i2c", `i2c@40005400 { compatible = "st,stm32-i2c"; };`, "/i2c@40005400", IconBus},
		{"uart falls through", `uart0 { compatible = "ns16550a"; };`, "/uart0", IconGeneric},
		{"unknown name", `widget@0 { };`, "/widget@0", IconGeneric},
		{"case insensitive compat", `core@2 { compatible = "ARM,CORTEX-A72"; };`, "/core@2", IconCPU},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			root := parseTree(t, "/dts-v1/;\n/ { "+tc.body+" };")
			node := root.FindByPath(tc.path)
			if node == nil {
				t.Fatalf("node %s not found", tc.path)
			}
			if got := Classify(node); got != tc.want {
				t.Errorf("Classify(%s) = %s, want %s", tc.path, got, tc.want)
			}
		})
	}
}

func TestClassifyNilNode(t *testing.T) {
	if got := Classify(nil); got != IconGeneric {
		t.Errorf("Classify(nil) = %s, want generic", got)
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	// A CPU-named node that also smells like a clock still classifies as
	// cpu because the cpu rule is evaluated first.
	root := parseTree(t, `/dts-v1/;
/ {
	cpu-pll {
		#clock-cells = <0>;
	};
};`)
	node := root.FindByPath("/cpu-pll")
	if node == nil {
		t.Fatal("node not found")
	}
	if got := Classify(node); got != IconCPU {
		t.Errorf("Classify = %s, want cpu", got)
	}
}

func TestClassifyIgnoresUnitAddress(t *testing.T) {
	// The unit address never participates in name matching: a node whose
	// address happens to contain a rule keyword stays generic.
	root := parseTree(t, `/dts-v1/;
/ {
	widget@gpio { };
};`)
	node := root.FindByPath("/widget@gpio")
	if node == nil {
		t.Fatal("node not found")
	}
	if got := Classify(node); got != IconGeneric {
		t.Errorf("Classify = %s, want generic", got)
	}
}
