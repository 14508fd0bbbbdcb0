package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for the interactive chat.
func PrintBanner() {
	p := termenv.ColorProfile()
	s1 := termenv.String(" __      __ _       _             ").Foreground(p.Color("#34d399"))
	s2 := termenv.String(" \\ \\ /\\ / /(_) ___ | | __ ___ _ __ ").Foreground(p.Color("#2dd4bf"))
	s3 := termenv.String("  \\ V  V / | |/ __|| |/ // _ \\ '__|").Foreground(p.Color("#22d3ee"))
	s4 := termenv.String("   \\_/\\_/  |_|\\___||_|\\_\\\\___|_|   ").Foreground(p.Color("#38bdf8"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println()
}
