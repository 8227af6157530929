package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/nurl/pkg/errors"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorRed  = lipgloss.Color("167") // Soft red - errors
	colorBlue = lipgloss.Color("75")  // Light blue - commands
	colorDim  = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	styleIconError = lipgloss.NewStyle().Foreground(colorRed)
	styleCommand   = lipgloss.NewStyle().Foreground(colorBlue)
)

const iconError = "✗"

// FormatError renders err as the single line printed before nurl exits.
// The error code is shown dimmed after the message when there is one.
func FormatError(err error) string {
	line := styleIconError.Render(iconError) + " " + errors.UserMessage(err)
	if code := errors.GetCode(err); code != "" {
		line += " " + StyleDim.Render("("+string(code)+")")
	}
	return line
}
