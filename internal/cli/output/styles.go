package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used in text mode.
type Styles struct {
	Header  lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Muted   lipgloss.Style
	Key     lipgloss.Style
	Code    lipgloss.Style

	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style
	StatusSkipped lipgloss.Style
}

// DefaultStyles returns the colored styles for terminals.
func DefaultStyles() *Styles {
	return &Styles{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Key:     lipgloss.NewStyle().Bold(true),
		Code:    lipgloss.NewStyle().Foreground(lipgloss.Color("13")),

		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).SetString("✓"),
		StatusFailed:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")).SetString("✗"),
		StatusSkipped: lipgloss.NewStyle().Foreground(lipgloss.Color("8")).SetString("-"),
	}
}

// PlainStyles returns styles that add no escape codes.
func PlainStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Header:  plain,
		Success: plain,
		Error:   plain,
		Warning: plain,
		Info:    plain,
		Muted:   plain,
		Key:     plain,
		Code:    plain,

		StatusSuccess: plain.SetString("✓"),
		StatusFailed:  plain.SetString("✗"),
		StatusSkipped: plain.SetString("-"),
	}
}
