package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/gubarz/studymd/internal/config"
)

// StyleManager encapsulates all TUI styles and provides methods for style operations
type StyleManager struct {
	// List view styles
	Category lipgloss.Style
	Title    lipgloss.Style
	Easy     lipgloss.Style
	Medium   lipgloss.Style
	Hard     lipgloss.Style
	Done     lipgloss.Style
	Selected lipgloss.Style
	Cursor   lipgloss.Style
	Dim      lipgloss.Style

	// Preview styles
	PreviewTitle lipgloss.Style
	PreviewLink  lipgloss.Style

	// Chrome styles
	Divider lipgloss.Style
	Error   lipgloss.Style

	// Colors for direct access
	SelectedBg lipgloss.Color
}

// DefaultStyles returns a StyleManager with default styles
func DefaultStyles() *StyleManager {
	return &StyleManager{
		Category:     lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		Title:        lipgloss.NewStyle(),
		Easy:         lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Medium:       lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Hard:         lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Done:         lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		Selected:     lipgloss.NewStyle().Background(lipgloss.Color("236")),
		Cursor:       lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		Dim:          lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		PreviewTitle: lipgloss.NewStyle().Bold(true),
		PreviewLink:  lipgloss.NewStyle().Underline(true),
		Divider:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		SelectedBg:   lipgloss.Color("236"),
	}
}

// LoadFromConfig updates styles based on configuration
func (s *StyleManager) LoadFromConfig() {
	categoryColor := parseANSIColor(config.GetColorCategory())
	titleColor := parseANSIColor(config.GetColorTitle())
	easyColor := parseANSIColor(config.GetColorEasy())
	mediumColor := parseANSIColor(config.GetColorMedium())
	hardColor := parseANSIColor(config.GetColorHard())
	borderColor := lipgloss.Color(config.GetColorBorder())
	cursorColor := lipgloss.Color(config.GetColorCursor())
	selectedBg := lipgloss.Color(config.GetColorSelected())
	dimColor := lipgloss.Color(config.GetColorDim())

	s.Category = lipgloss.NewStyle().Foreground(categoryColor)
	s.Title = lipgloss.NewStyle().Foreground(titleColor)
	s.Easy = lipgloss.NewStyle().Foreground(easyColor)
	s.Medium = lipgloss.NewStyle().Foreground(mediumColor)
	s.Hard = lipgloss.NewStyle().Foreground(hardColor)
	s.Done = lipgloss.NewStyle().Foreground(easyColor).Bold(true)
	s.Selected = lipgloss.NewStyle().Background(selectedBg)
	s.Cursor = lipgloss.NewStyle().Foreground(cursorColor)
	s.Dim = lipgloss.NewStyle().Foreground(dimColor)

	s.PreviewTitle = lipgloss.NewStyle().Bold(true).Foreground(titleColor)
	s.PreviewLink = lipgloss.NewStyle().Underline(true).Foreground(dimColor)

	s.Divider = lipgloss.NewStyle().Foreground(borderColor)
	s.SelectedBg = selectedBg
}

// WithSelection returns a copy of the given style with the selected background applied
func (s *StyleManager) WithSelection(style lipgloss.Style) lipgloss.Style {
	return style.Background(s.SelectedBg)
}

// ForDifficulty picks the color for a difficulty label
func (s *StyleManager) ForDifficulty(difficulty string) lipgloss.Style {
	switch difficulty {
	case "Easy":
		return s.Easy
	case "Medium":
		return s.Medium
	case "Hard":
		return s.Hard
	default:
		return s.Dim
	}
}

// parseANSIColor converts ANSI color codes to lipgloss colors
func parseANSIColor(code string) lipgloss.Color {
	ansiToLipgloss := map[string]string{
		"30": "0", "31": "1", "32": "2", "33": "3",
		"34": "4", "35": "5", "36": "6", "37": "7",
		"90": "8", "91": "9", "92": "10", "93": "11",
		"94": "12", "95": "13", "96": "14", "97": "15",
	}
	if mapped, ok := ansiToLipgloss[code]; ok {
		return lipgloss.Color(mapped)
	}
	return lipgloss.Color(code)
}

// Global style manager instance
var styles = DefaultStyles()

// RefreshStyles updates the global styles from config
func RefreshStyles() {
	styles.LoadFromConfig()
}
