// Package console owns everything the user sees on the terminal: colored
// status lines and the progress display. Nothing here may influence the
// download pipeline.
package console

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// OK prints an informational message, in green.
func OK(msg string) {
	fmt.Println(okStyle.Render("OK    " + msg))
}

// Warn prints a warning message, in yellow.
func Warn(msg string) {
	fmt.Println(warnStyle.Render("WARN  " + msg))
}
