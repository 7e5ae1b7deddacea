package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/balloonmath/internal/config"
	"github.com/vovakirdan/balloonmath/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the game modes",
	Long:  `Shows the game modes and difficulties.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	modes := registry.List()

	fmt.Println("Game modes:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, m := range modes {
		maxIDLen = max(maxIDLen, len(m.ID))
	}

	fmt.Printf("  %-*s  %-14s  %s\n", maxIDLen, "ID", "Title", "Description")
	fmt.Printf("  %-*s  %-14s  %s\n", maxIDLen, "--", "-----", "-----------")
	for _, m := range modes {
		fmt.Printf("  %-*s  %-14s  %s\n", maxIDLen, m.ID, m.Title, m.Description)
	}

	fmt.Println()
	fmt.Print("Difficulties:")
	for _, d := range config.Difficulties() {
		fmt.Printf(" %s", d)
	}
	fmt.Println()
	fmt.Println()
	fmt.Println("Run 'balloonmath play <id> --difficulty <level>' to play.")
}
