package framework

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Icon is the closed set of icons a phase or branding module can carry.
// Names are resolved once when the curriculum is decoded.
type Icon int

const (
	IconNone Icon = iota
	IconFingerprint
	IconTarget
	IconMegaphone
	IconLayout
	IconRepeat
	IconPalette
	IconMic
	IconFolder
)

var iconNames = map[Icon]string{
	IconFingerprint: "fingerprint",
	IconTarget:      "target",
	IconMegaphone:   "megaphone",
	IconLayout:      "layout",
	IconRepeat:      "repeat",
	IconPalette:     "palette",
	IconMic:         "mic",
	IconFolder:      "folder",
}

var iconGlyphs = map[Icon]string{
	IconFingerprint: "◉",
	IconTarget:      "◎",
	IconMegaphone:   "◈",
	IconLayout:      "▦",
	IconRepeat:      "↻",
	IconPalette:     "◐",
	IconMic:         "♪",
	IconFolder:      "▤",
}

// ParseIcon resolves an icon name.
func ParseIcon(name string) (Icon, error) {
	for icon, n := range iconNames {
		if n == name {
			return icon, nil
		}
	}
	return IconNone, fmt.Errorf("unknown icon %q", name)
}

func (i Icon) String() string {
	if n, ok := iconNames[i]; ok {
		return n
	}
	return "none"
}

// Glyph is the terminal rendering of the icon.
func (i Icon) Glyph() string {
	if g, ok := iconGlyphs[i]; ok {
		return g
	}
	return "•"
}

// UnmarshalYAML rejects names outside the enumeration.
func (i *Icon) UnmarshalYAML(node *yaml.Node) error {
	var name string
	if err := node.Decode(&name); err != nil {
		return err
	}
	icon, err := ParseIcon(name)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*i = icon
	return nil
}

// MarshalText renders the icon name.
func (i Icon) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}
