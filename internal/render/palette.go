package render

import (
	"golang.org/x/image/colornames"

	"portalcaster/internal/config"
	"portalcaster/internal/raycast"
	"portalcaster/internal/world"
)

// Palette holds the flat fill colours of a frame, packed 0xAARRGGBB.
type Palette struct {
	Clear          uint32
	Ceiling        uint32
	Floor          uint32
	WallVertical   uint32
	WallHorizontal uint32
	// Fallback marks tiles with an unrecognized code.
	Fallback uint32
}

// DefaultPalette returns the stock grey palette.
func DefaultPalette() Palette {
	return NewPalette(config.Defaults().Graphics.Colors)
}

// NewPalette builds a palette from validated config colours.
func NewPalette(c config.ColorsConfig) Palette {
	return Palette{
		Clear:          config.MustColor(c.Clear),
		Ceiling:        config.MustColor(c.Ceiling),
		Floor:          config.MustColor(c.Floor),
		WallVertical:   config.MustColor(c.WallVertical),
		WallHorizontal: config.MustColor(c.WallHorizontal),
		Fallback:       Pack(colornames.Magenta, 0xC8),
	}
}

// Wall returns the wall colour for a hit. Portals have no wall of their own
// and report false.
func (p Palette) Wall(h raycast.Hit) (uint32, bool) {
	switch h.Content.Kind() {
	case world.KindOpaque, world.KindTranslucent:
		if h.Vertical {
			return p.WallVertical, true
		}
		return p.WallHorizontal, true
	case world.KindPortal:
		return 0, false
	default:
		return p.Fallback, true
	}
}
