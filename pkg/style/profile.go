package style

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"
)

// Setup picks the colour profile for out. Colour is turned off when out is
// not a terminal or NO_COLOR is set.
func Setup(out io.Writer) {
	if colorEnabled(out) {
		lipgloss.SetColorProfile(termenv.NewOutput(out).EnvColorProfile())
		pterm.EnableColor()
		return
	}
	lipgloss.SetColorProfile(termenv.Ascii)
	pterm.DisableColor()
}

func colorEnabled(out io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
