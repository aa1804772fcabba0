package style

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Markup renders [tag]text[/tag] spans with the style registered for tag.
// Tags nest; unknown tags are left as they are.
type Markup struct {
	tags []markupTag
}

type markupTag struct {
	pattern *regexp.Regexp
	style   lipgloss.Style
}

// NewMarkup creates a renderer for the given tag styles
func NewMarkup(styles map[string]lipgloss.Style) *Markup {
	m := &Markup{}
	for tag, s := range styles {
		m.tags = append(m.tags, markupTag{
			pattern: regexp.MustCompile(`\[` + regexp.QuoteMeta(tag) + `\]((?s).*?)\[/` + regexp.QuoteMeta(tag) + `\]`),
			style:   s,
		})
	}
	return m
}

// Render replaces every known span, innermost last, until none is left
func (m *Markup) Render(text string) string {
	for {
		before := text
		for _, t := range m.tags {
			text = t.pattern.ReplaceAllStringFunc(text, func(span string) string {
				return t.style.Render(t.pattern.FindStringSubmatch(span)[1])
			})
		}
		if text == before {
			return text
		}
	}
}

// RenderTemplate fills {{name}} placeholders from vars, then renders markup
func (m *Markup) RenderTemplate(template string, vars map[string]string) string {
	for key, value := range vars {
		template = strings.ReplaceAll(template, "{{"+key+"}}", value)
	}
	return m.Render(template)
}

var defaultMarkup *Markup

// Render renders markup with the style sheet's styles
func Render(text string) string {
	return defaultMarkup.Render(text)
}

// RenderTemplate renders a message template with the style sheet's styles
func RenderTemplate(template string, vars map[string]string) string {
	return defaultMarkup.RenderTemplate(template, vars)
}
