package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/dcaplan/internal/config"
	"github.com/rgehrsitz/dcaplan/internal/output"
	"github.com/rgehrsitz/dcaplan/internal/tui"
)

func main() {
	// An optional plan file opens on the scenario list; without one the
	// editor starts from the default parameters.
	configPath := ""
	if len(os.Args) > 2 {
		fmt.Println("Usage: dcaplan-tui [plan-file]")
		os.Exit(1)
	}
	if len(os.Args) == 2 {
		configPath = os.Args[1]
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			fmt.Printf("Error: Plan file not found: %s\n", configPath)
			os.Exit(1)
		}
	}

	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if settings.Display.CurrencySymbol != "" {
		output.SetCurrencySymbol(settings.Display.CurrencySymbol)
	}

	p := tea.NewProgram(
		tui.NewModel(configPath, nil),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
