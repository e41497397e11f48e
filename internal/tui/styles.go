package tui

import "github.com/rgehrsitz/dcaplan/internal/tui/tuistyles"

// Styles shared with the scenes live in tuistyles so that scenes and
// components can use them without importing this package.
var (
	TitleStyle     = tuistyles.TitleStyle
	SubtitleStyle  = tuistyles.SubtitleStyle
	StatusBarStyle = tuistyles.StatusBarStyle
	StatusKeyStyle = tuistyles.StatusKeyStyle
	BorderStyle    = tuistyles.BorderStyle
	ErrorStyle     = tuistyles.ErrorStyle
)
