package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles for the command-line tools, in the same retro green as the
// terminal interface.
var (
	Title = brightGreen.Bold(true)
	Key   = green.Bold(true)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	Bad   = warnStyle
	Muted = dimGreen
	Panel = panelStyle
)

func Heading(icon, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

func OnOff(on bool) string {
	if on {
		return Good.Render("on")
	}
	return Muted.Render("off")
}
