package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ASCIILogo is printed at startup
const ASCIILogo = `
╦╔╗╔╗╦╔═╗╔═╗╔═╗╔═╗╔╗╔
║║║╠╣║╚═╗╠═╣╠═╝╠═╣║║║
╩╩╝╝╝╩╚═╝╩ ╩╩  ╩ ╩╝╚╝`

// Tagline follows the logo
const Tagline = "INSTA-RECON - public profile OSINT"

// AuthorizedUseNotice is printed before any target is processed
const AuthorizedUseNotice = "[!] FOR AUTHORIZED TESTING ONLY. YOU ARE RESPONSIBLE FOR COMPLIANCE."

var (
	neonCyan    = lipgloss.Color("#00FFFF")
	neonMagenta = lipgloss.Color("#FF00FF")
	neonGreen   = lipgloss.Color("#39FF14")
	neonYellow  = lipgloss.Color("#FFFF00")
	neonRed     = lipgloss.Color("#FF0000")
	dimWhite    = lipgloss.Color("#B0B0B0")
)

// Terminal prints styled status lines
type Terminal struct {
	w         io.Writer
	logo      lipgloss.Style
	cyan      lipgloss.Style
	yellow    lipgloss.Style
	red       lipgloss.Style
	green     lipgloss.Style
	magenta   lipgloss.Style
	dim       lipgloss.Style
	emphasize lipgloss.Style
}

// NewTerminal creates a Terminal writing to w
func NewTerminal(w io.Writer, noColor bool) *Terminal {
	r := lipgloss.NewRenderer(w)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}

	return &Terminal{
		w:         w,
		logo:      r.NewStyle().Foreground(neonMagenta).Bold(true),
		cyan:      r.NewStyle().Foreground(neonCyan),
		yellow:    r.NewStyle().Foreground(neonYellow),
		red:       r.NewStyle().Foreground(neonRed),
		green:     r.NewStyle().Foreground(neonGreen),
		magenta:   r.NewStyle().Foreground(neonMagenta),
		dim:       r.NewStyle().Foreground(dimWhite).Faint(true),
		emphasize: r.NewStyle().Foreground(neonYellow).Bold(true),
	}
}

// Stdout returns a Terminal on os.Stdout. Color is dropped when NO_COLOR is set.
func Stdout(noColor bool) *Terminal {
	_, envNoColor := os.LookupEnv("NO_COLOR")
	return NewTerminal(os.Stdout, noColor || envNoColor)
}

// Writer returns the underlying writer
func (t *Terminal) Writer() io.Writer {
	return t.w
}

// PrintLogo prints the ASCII logo and tagline
func (t *Terminal) PrintLogo() {
	fmt.Fprintln(t.w, t.logo.Render(ASCIILogo))
	fmt.Fprintln(t.w, t.cyan.Render(Tagline))
}

// PrintNotice prints the authorized-use notice
func (t *Terminal) PrintNotice() {
	fmt.Fprintf(t.w, "%s\n\n", t.emphasize.Render(AuthorizedUseNotice))
}

// PrintError prints an error message in red
func (t *Terminal) PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = msg + ": " + fmt.Sprintf("%v", args[0])
	}
	fmt.Fprintln(t.w, t.red.Render("[-] "+msg))
}

// PrintSuccess prints a success message in green
func (t *Terminal) PrintSuccess(msg string) {
	fmt.Fprintln(t.w, t.green.Render("[+] "+msg))
}

// PrintInfo prints a label and value
func (t *Terminal) PrintInfo(label string, value string) {
	fmt.Fprintf(t.w, "[*] %s: %s\n", t.cyan.Render(label), t.yellow.Render(value))
}

// PrintStatus prints a progress line
func (t *Terminal) PrintStatus(msg string) {
	fmt.Fprintln(t.w, "[*] "+msg)
}

// PrintWarning prints a warning message in yellow
func (t *Terminal) PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = msg + ": " + fmt.Sprintf("%v", args[0])
	}
	fmt.Fprintln(t.w, t.yellow.Render("[!] "+msg))
}

// PrintHighlight prints a highlighted message in magenta
func (t *Terminal) PrintHighlight(msg string) {
	fmt.Fprintln(t.w, t.magenta.Render(msg))
}

// Dim renders text faintly
func (t *Terminal) Dim(text string) string {
	return t.dim.Render(text)
}
