package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wicker",
	Short: "Wicker is a multi-turn dialog bot engine",
	Long: `Wicker runs waterfall dialogs over persistent conversation sessions,
routing free text into dialogs by pattern or recognized intent.

The bundled commands run a demo booking bot; use the library to build
your own.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	// Missing .env is fine; environment variables win either way.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
