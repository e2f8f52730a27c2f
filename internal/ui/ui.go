// Package ui renders command output for terminals.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
)

var (
	// Out receives regular output.
	Out io.Writer = os.Stdout
	// Err receives errors.
	Err io.Writer = os.Stderr
)

var (
	primary   = lipgloss.Color("#00D9FF")
	secondary = lipgloss.Color("#6C757D")

	titleStyle   = lipgloss.NewStyle().Foreground(primary).Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(secondary)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF88")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4444")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB800")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(primary)

	keyColor = color.New(color.FgCyan, color.Bold)
)

func width() int {
	if w := pterm.GetTerminalWidth(); w > 0 && w < 120 {
		return w
	}
	return 80
}

// PrintHeader prints a boxed title and subtitle.
func PrintHeader(title, subtitle string) {
	header := lipgloss.NewStyle().
		Width(width()-2).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(primary).
		Padding(0, 2).
		Render(lipgloss.JoinVertical(lipgloss.Center,
			titleStyle.Render(title),
			subtleStyle.Render(subtitle),
		))
	fmt.Fprintln(Out, header)
}

// PrintSuccess prints a check-marked message.
func PrintSuccess(format string, args ...any) {
	fmt.Fprintln(Out, successStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

// PrintError prints to Err.
func PrintError(format string, args ...any) {
	fmt.Fprintln(Err, errorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

func PrintWarning(format string, args ...any) {
	fmt.Fprintln(Out, warningStyle.Render("⚠ "+fmt.Sprintf(format, args...)))
}

func PrintInfo(format string, args ...any) {
	fmt.Fprintln(Out, infoStyle.Render("ℹ "+fmt.Sprintf(format, args...)))
}

// PrintSection prints an underlined section title.
func PrintSection(title string) {
	section := lipgloss.NewStyle().
		Width(width()).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(secondary).
		Render(title)
	fmt.Fprintln(Out, section)
}

// PrintKeyValue prints an aligned "key: value" line.
func PrintKeyValue(key string, value any) {
	keyColor.Fprintf(Out, "  %-12s", key+":")
	fmt.Fprintf(Out, " %v\n", value)
}

// PrintTable prints rows under a header row.
func PrintTable(headers []string, rows [][]string) error {
	data := pterm.TableData{headers}
	data = append(data, rows...)
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, out)
	return nil
}

// RenderMarkdown renders markdown for the terminal.
func RenderMarkdown(content string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width()),
	)
	if err != nil {
		return "", err
	}
	return r.Render(content)
}

// PrintMarkdown renders content with RenderMarkdown and prints it.
func PrintMarkdown(content string) error {
	out, err := RenderMarkdown(content)
	if err != nil {
		return err
	}
	fmt.Fprint(Out, out)
	return nil
}
