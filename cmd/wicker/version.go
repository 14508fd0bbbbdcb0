package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/wicker"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of wicker",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("wicker version %s\n", wicker.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
