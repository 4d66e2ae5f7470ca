package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/songsort/pkg/importer"
	"github.com/matzehuels/songsort/pkg/io"
	"github.com/matzehuels/songsort/pkg/pref"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - imported
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleBorder = lipgloss.NewStyle().Foreground(colorDim)

	// Decision provenance, matching the edge colors of rendered graphs.
	styleDirect   = lipgloss.NewStyle().Foreground(colorWhite)
	styleImported = lipgloss.NewStyle().Foreground(colorBlue)
	styleInferred = lipgloss.NewStyle().Foreground(colorGray)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
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

// =============================================================================
// Ranking Output
// =============================================================================

// rankingTable renders the final order, most preferred first.
func rankingTable(ranking []string) string {
	rows := make([][]string, len(ranking))
	for i, it := range ranking {
		rows[i] = []string{strconv.Itoa(i + 1), it}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("#", "Song").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader.Padding(0, 1)
			case col == 0:
				return StyleNumber.Padding(0, 1).Align(lipgloss.Right)
			case row == 0:
				return StyleTitle.Padding(0, 1)
			}
			return StyleValue.Padding(0, 1)
		}).
		Render()
}

// historyTable renders decisions in ledger order with their provenance.
func historyTable(decisions []pref.Decision) string {
	rows := make([][]string, len(decisions))
	for i, d := range decisions {
		took := ""
		if d.Timed() {
			took = d.Elapsed.Round(100 * time.Millisecond).String()
		}
		rows[i] = []string{d.Kind.String(), d.Chosen, d.Rejected, took}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("Kind", "Preferred", "Over", "Took").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader.Padding(0, 1)
			}
			return kindStyle(decisions[row].Kind).Padding(0, 1)
		}).
		Render()
}

func kindStyle(k pref.Kind) lipgloss.Style {
	switch k {
	case pref.Imported:
		return styleImported
	case pref.Inferred:
		return styleInferred
	}
	return styleDirect
}

// printImport reports an import: the reconciled counts and any unreadable
// lines.
func printImport(sum importer.Summary, report io.ParseReport) {
	printSuccess("Imported %s", sum)
	for _, le := range report.Invalid {
		printDetail("%s", le)
	}
}

// countKinds tallies decisions by provenance.
func countKinds(decisions []pref.Decision) map[pref.Kind]int {
	counts := make(map[pref.Kind]int, 3)
	for _, d := range decisions {
		counts[d.Kind]++
	}
	return counts
}
