package ui

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

//go:embed styles.yaml
var defaultStyles []byte

// ColorDef is an adaptive color definition
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef is a style definition
type StyleDef struct {
	Bold       bool   `yaml:"bold,omitempty"`
	Italic     bool   `yaml:"italic,omitempty"`
	Underline  bool   `yaml:"underline,omitempty"`
	Foreground string `yaml:"foreground,omitempty"`
	Background string `yaml:"background,omitempty"`
}

// StylesConfig is the parsed styles file
type StylesConfig struct {
	Colors   map[string]ColorDef `yaml:"colors"`
	Styles   map[string]StyleDef `yaml:"styles"`
	Statuses map[string]string   `yaml:"statuses"`
}

// Theme maps style and status names to lipgloss styles
type Theme struct {
	styles   map[string]lipgloss.Style
	statuses map[string]string
}

// DefaultTheme returns the embedded theme
func DefaultTheme() *Theme {
	theme, err := ParseTheme(defaultStyles)
	if err != nil {
		panic(fmt.Sprintf("embedded styles are invalid: %v", err))
	}
	return theme
}

// ParseTheme builds a theme from styles YAML
func ParseTheme(data []byte) (*Theme, error) {
	var cfg StylesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse styles: %w", err)
	}

	colors := make(map[string]lipgloss.AdaptiveColor, len(cfg.Colors))
	for name, def := range cfg.Colors {
		colors[name] = lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
	}

	theme := &Theme{
		styles:   make(map[string]lipgloss.Style, len(cfg.Styles)),
		statuses: cfg.Statuses,
	}
	for name, def := range cfg.Styles {
		theme.styles[name] = buildStyle(def, colors)
	}
	return theme, nil
}

func buildStyle(def StyleDef, colors map[string]lipgloss.AdaptiveColor) lipgloss.Style {
	style := lipgloss.NewStyle()
	if def.Bold {
		style = style.Bold(true)
	}
	if def.Italic {
		style = style.Italic(true)
	}
	if def.Underline {
		style = style.Underline(true)
	}
	if color, ok := colors[def.Foreground]; ok {
		style = style.Foreground(color)
	}
	if color, ok := colors[def.Background]; ok {
		style = style.Background(color)
	}
	return style
}

// Style returns the named style, or a plain style when unknown
func (t *Theme) Style(name string) lipgloss.Style {
	if style, ok := t.styles[name]; ok {
		return style
	}
	return lipgloss.NewStyle()
}

// StatusStyle returns the style a status label is rendered with. Labels
// without an entry, such as castle names in listings, use Castle.
func (t *Theme) StatusStyle(status string) lipgloss.Style {
	if name, ok := t.statuses[status]; ok {
		return t.Style(name)
	}
	return t.Style("Castle")
}
