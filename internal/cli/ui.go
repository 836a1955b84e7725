package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kstrandberg/uncouple/pkg/engine"
)

// Color palette.
var (
	colorCyan   = lipgloss.Color("36")  // teal - primary actions
	colorGreen  = lipgloss.Color("35")  // green - success
	colorYellow = lipgloss.Color("220") // amber - warnings
	colorRed    = lipgloss.Color("167") // soft red - errors
	colorWhite  = lipgloss.Color("255") // bright white - values
	colorGray   = lipgloss.Color("245") // gray - secondary text
	colorDim    = lipgloss.Color("240") // dim gray - muted text
)

// Public styles.
var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleOutcome     = lipgloss.NewStyle().Foreground(colorCyan)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(14)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// renderSummary formats a batch summary: a headline count plus one line per
// junction with its outcome or failure reason.
func renderSummary(sum engine.Summary) string {
	var b strings.Builder

	headline := fmt.Sprintf("%d junction(s): %d removed, %d failed",
		sum.Total, sum.Succeeded, sum.Failed)
	if sum.Failed == 0 {
		b.WriteString(styleIconSuccess.Render(iconSuccess) + " " + headline)
	} else {
		b.WriteString(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(headline))
	}
	b.WriteString("\n")

	for _, res := range sum.Results {
		if res.Succeeded() {
			line := fmt.Sprintf("  %s %s %s",
				styleIconSuccess.Render(iconSuccess),
				StyleValue.Render(string(res.JunctionID)),
				styleOutcome.Render(string(res.Outcome)))
			if res.Degraded {
				line += " " + StyleDim.Render("(degraded)")
			}
			b.WriteString(line + "\n")
			continue
		}
		b.WriteString(fmt.Sprintf("  %s %s %s\n",
			styleIconError.Render(iconError),
			StyleValue.Render(string(res.JunctionID)),
			StyleDim.Render(res.Err)))
	}
	return b.String()
}

// printSummary writes the batch summary to stdout.
func printSummary(sum engine.Summary) {
	fmt.Print(renderSummary(sum))
}
