package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for the Penny chat REPL.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	// Copper-to-gold gradient.
	lines := []struct {
		text  string
		color string
	}{
		{` ____                           `, "#b45309"},
		{`|  _ \ ___ _ __  _ __  _   _    `, "#d97706"},
		{`| |_) / _ \ '_ \| '_ \| | | |   `, "#f59e0b"},
		{`|  __/  __/ | | | | | | |_| |   `, "#fbbf24"},
		{`|_|   \___|_| |_|_| |_|\__, |   `, "#fcd34d"},
		{`                       |___/    `, "#fde68a"},
	}

	fmt.Println()
	for _, line := range lines {
		fmt.Println(termenv.String(line.text).Foreground(p.Color(line.color)))
	}
	fmt.Printf("  pennywise %s\n\n", strings.TrimSpace(version))
}
