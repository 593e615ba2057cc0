// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Color palette shared by all CLI output.
const (
	// ColorPrimary is orange, used for titles and the package name.
	ColorPrimary = lipgloss.Color("#F05138")

	// ColorMuted is gray, used for subtitles and de-emphasized content.
	ColorMuted = lipgloss.Color("#6B7280")

	// ColorSuccess is green, used for checkmarks and finished steps.
	ColorSuccess = lipgloss.Color("#10B981")

	// ColorError is red, used for failures.
	ColorError = lipgloss.Color("#EF4444")

	// ColorWarning is amber, used for deprecation notices.
	ColorWarning = lipgloss.Color("#F59E0B")

	// ColorHighlight is blue, used for commands and paths.
	ColorHighlight = lipgloss.Color("#3B82F6")
)

var (
	// TitleStyle is for primary headers and section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary headers and descriptions.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle is for success messages and positive indicators.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle is for error messages and failure indicators.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle is for warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// CmdStyle is for command names, paths and keys.
	CmdStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)
)
