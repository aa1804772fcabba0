// Package style holds the terminal look of paldeploy: adaptive colours,
// lipgloss styles, a small [tag]markup[/tag] renderer used by command
// messages, and the deploy summary lines.
package style
