package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/stsysd/plantcare/care"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	urgencyStyles = map[care.Urgency]lipgloss.Style{
		care.UrgencyNone:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		care.UrgencyLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		care.UrgencyMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		care.UrgencyHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
)

func moodText(m care.Mood) string {
	return urgencyStyles[m.Urgency].Render(m.Emoji + " " + m.Label)
}

// newTable は見出し付きの枠線なしテーブルを作成します。
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.HiddenBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}
