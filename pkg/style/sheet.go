package style

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// ColorDef is an adaptive colour in the style sheet
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef is one named style in the style sheet. Foreground names a colour
// of the sheet or is a literal colour value.
type StyleDef struct {
	Foreground string `yaml:"foreground,omitempty"`
	Bold       bool   `yaml:"bold,omitempty"`
	Italic     bool   `yaml:"italic,omitempty"`
	Underline  bool   `yaml:"underline,omitempty"`
}

// Sheet is the parsed style sheet
type Sheet struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
}

//go:embed styles.yaml
var embeddedSheet []byte

var registry = map[string]lipgloss.Style{}

func init() {
	styles, err := ParseSheet(embeddedSheet)
	if err != nil {
		panic(err)
	}
	registry = styles
	defaultMarkup = NewMarkup(registry)
}

// ParseSheet builds the named styles of a YAML style sheet
func ParseSheet(data []byte) (map[string]lipgloss.Style, error) {
	var sheet Sheet
	if err := yaml.Unmarshal(data, &sheet); err != nil {
		return nil, fmt.Errorf("failed to parse style sheet: %w", err)
	}

	styles := make(map[string]lipgloss.Style, len(sheet.Styles))
	for name, def := range sheet.Styles {
		s := lipgloss.NewStyle().Bold(def.Bold).Italic(def.Italic).Underline(def.Underline)
		if def.Foreground != "" {
			if c, ok := sheet.Colors[def.Foreground]; ok {
				s = s.Foreground(lipgloss.AdaptiveColor{Light: c.Light, Dark: c.Dark})
			} else {
				s = s.Foreground(lipgloss.Color(def.Foreground))
			}
		}
		styles[name] = s
	}
	return styles, nil
}

// Get returns the named style, or a plain style for unknown names
func Get(name string) lipgloss.Style {
	if s, ok := registry[name]; ok {
		return s
	}
	return lipgloss.NewStyle()
}
