package render

import (
	"image/color"

	"github.com/devicetree-tools/dtviz/pkg/graph"
)

// Theme selects a color scheme for the canvas
type Theme int

const (
	// ThemeLight is a light background theme (white background)
	ThemeLight Theme = iota
	// ThemeDark is a dark background theme (near-black background)
	ThemeDark
)

// ParseTheme maps a config string to a Theme. Unknown values fall back to
// the light theme.
func ParseTheme(s string) Theme {
	if s == "dark" {
		return ThemeDark
	}
	return ThemeLight
}

// String returns the theme name as a string
func (t Theme) String() string {
	switch t {
	case ThemeLight:
		return "Light"
	case ThemeDark:
		return "Dark"
	default:
		return "Unknown"
	}
}

// SceneColors defines the color scheme for rendering the node graph
type SceneColors struct {
	// Background
	Background color.NRGBA

	// Edges
	Edge    color.NRGBA
	RefEdge color.NRGBA

	// Icon boxes
	IconOutline color.NRGBA
	IconText    color.NRGBA
	Fills       map[graph.Icon]color.NRGBA

	// Node name labels under the icons
	Label color.NRGBA

	// Selection ring
	Selection color.NRGBA

	// Status indicator dot
	StatusOK       color.NRGBA
	StatusDisabled color.NRGBA
	StatusRing     color.NRGBA
}

// IconFill returns the fill color for an icon category, falling back to
// the generic fill.
func (c *SceneColors) IconFill(icon graph.Icon) color.NRGBA {
	if fill, ok := c.Fills[icon]; ok {
		return fill
	}
	return c.Fills[graph.IconGeneric]
}

// GetSceneColors returns the color scheme for the given theme
func GetSceneColors(theme Theme) *SceneColors {
	switch theme {
	case ThemeDark:
		return getDarkTheme()
	case ThemeLight:
		return getLightTheme()
	default:
		return getLightTheme()
	}
}

// categoryFills is shared by both themes; the fills are saturated enough
// to read on either background.
func categoryFills() map[graph.Icon]color.NRGBA {
	return map[graph.Icon]color.NRGBA{
		graph.IconCPU:       {R: 0x2d, G: 0x6c, B: 0xdf, A: 255}, // Blue
		graph.IconMemory:    {R: 0x3b, G: 0x82, B: 0xf6, A: 255}, // Light blue
		graph.IconBus:       {R: 0x07, G: 0xa0, B: 0xc3, A: 255}, // Cyan
		graph.IconGPIO:      {R: 0x27, G: 0xae, B: 0x60, A: 255}, // Green
		graph.IconInterrupt: {R: 0x8e, G: 0x44, B: 0xad, A: 255}, // Purple
		graph.IconClock:     {R: 0xf3, G: 0x9c, B: 0x12, A: 255}, // Orange
		graph.IconGeneric:   {R: 0x6b, G: 0x72, B: 0x80, A: 255}, // Gray
	}
}

func getLightTheme() *SceneColors {
	return &SceneColors{
		Background: color.NRGBA{R: 255, G: 255, B: 255, A: 255}, // White

		Edge:    color.NRGBA{R: 0x88, G: 0x88, B: 0x88, A: 255}, // Mid gray
		RefEdge: color.NRGBA{R: 0x7b, G: 0x61, B: 0xff, A: 255}, // Violet

		IconOutline: color.NRGBA{R: 0, G: 0, B: 0, A: 255},       // Black
		IconText:    color.NRGBA{R: 255, G: 255, B: 255, A: 255}, // White
		Fills:       categoryFills(),

		Label: color.NRGBA{R: 0, G: 0, B: 0, A: 255}, // Black

		Selection: color.NRGBA{R: 0xf5, G: 0x9e, B: 0x0b, A: 255}, // Amber

		StatusOK:       color.NRGBA{R: 0x16, G: 0xa3, B: 0x4a, A: 255}, // Green
		StatusDisabled: color.NRGBA{R: 0xdc, G: 0x26, B: 0x26, A: 255}, // Red
		StatusRing:     color.NRGBA{R: 255, G: 255, B: 255, A: 255},    // White
	}
}

func getDarkTheme() *SceneColors {
	return &SceneColors{
		Background: color.NRGBA{R: 30, G: 30, B: 30, A: 255}, // Dark gray (almost black)

		Edge:    color.NRGBA{R: 0xaa, G: 0xaa, B: 0xaa, A: 255}, // Light gray
		RefEdge: color.NRGBA{R: 0x9f, G: 0x85, B: 0xff, A: 255}, // Bright violet

		IconOutline: color.NRGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 255}, // Light gray
		IconText:    color.NRGBA{R: 255, G: 255, B: 255, A: 255},    // White
		Fills:       categoryFills(),

		Label: color.NRGBA{R: 220, G: 220, B: 220, A: 255}, // Light gray

		Selection: color.NRGBA{R: 0xfb, G: 0xbf, B: 0x24, A: 255}, // Bright amber

		StatusOK:       color.NRGBA{R: 0x16, G: 0xa3, B: 0x4a, A: 255}, // Green
		StatusDisabled: color.NRGBA{R: 0xdc, G: 0x26, B: 0x26, A: 255}, // Red
		StatusRing:     color.NRGBA{R: 30, G: 30, B: 30, A: 255},       // Match background
	}
}
