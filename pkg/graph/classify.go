package graph

import (
	"strings"

	"github.com/devicetree-tools/dtviz/pkg/devicetree"
)

// Icon identifies the rendering category of a devicetree node. The set is
// closed: classification always lands on one of these values.
type Icon string

const (
	IconCPU       Icon = "cpu"
	IconMemory    Icon = "memory"
	IconBus       Icon = "bus"
	IconGPIO      Icon = "gpio"
	IconInterrupt Icon = "interrupt-controller"
	IconClock     Icon = "clock"
	IconGeneric   Icon = "generic"
)

// Icons lists every category in rule order, generic last.
var Icons = []Icon{
	IconCPU, IconMemory, IconGPIO, IconInterrupt, IconClock, IconBus, IconGeneric,
}

// nodeFacts caches the lowercased matching inputs for one node.
type nodeFacts struct {
	name       string // base name, unit address stripped
	deviceType string
	compats    []string
	node       *devicetree.Node
}

func (f *nodeFacts) nameHas(subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(f.name, s) {
			return true
		}
	}
	return false
}

func (f *nodeFacts) compatHas(subs ...string) bool {
	for _, c := range f.compats {
		for _, s := range subs {
			if strings.Contains(c, s) {
				return true
			}
		}
	}
	return false
}

func (f *nodeFacts) anyHas(subs ...string) bool {
	return f.nameHas(subs...) || f.compatHas(subs...)
}

type rule struct {
	icon  Icon
	match func(f *nodeFacts) bool
}

// rules is evaluated top-down; the first match wins. Order is part of the
// classifier contract, so a node that satisfies several rules (a GPIO
// expander that is also an interrupt controller, say) always lands on the
// same category.
var rules = []rule{
	{IconCPU, func(f *nodeFacts) bool {
		return strings.HasPrefix(f.name, "cpu") || f.deviceType == "cpu" || f.compatHas("cpu", "cortex")
	}},
	{IconMemory, func(f *nodeFacts) bool {
		return strings.HasPrefix(f.name, "memory") || f.deviceType == "memory" || f.compatHas("sram", "ddr", "mem")
	}},
	{IconGPIO, func(f *nodeFacts) bool {
		return f.anyHas("gpio")
	}},
	{IconInterrupt, func(f *nodeFacts) bool {
		return f.node.HasProperty("interrupt-controller") || f.anyHas("intc", "gic", "interrupt-controller")
	}},
	{IconClock, func(f *nodeFacts) bool {
		return f.node.HasProperty("#clock-cells") || f.anyHas("clock", "clk")
	}},
	{IconBus, func(f *nodeFacts) bool {
		return f.name == "soc" || f.nameHas("bus") || f.compatHas("simple-bus", "i2c", "spi", "axi", "ahb", "apb")
	}},
}

// Classify maps a node to its icon category. Matching is case-insensitive,
// ignores the unit address, and falls back to IconGeneric when no rule
// fires. Pure and deterministic.
func Classify(n *devicetree.Node) Icon {
	if n == nil {
		return IconGeneric
	}
	facts := nodeFacts{
		name: strings.ToLower(n.BaseName()),
		node: n,
	}
	if dt := n.DeviceType(); dt != "" {
		facts.deviceType = strings.ToLower(dt)
	}
	for _, c := range n.Compatible() {
		facts.compats = append(facts.compats, strings.ToLower(c))
	}
	for _, r := range rules {
		if r.match(&facts) {
			return r.icon
		}
	}
	return IconGeneric
}
