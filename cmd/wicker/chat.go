package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/aretw0/wicker/internal/config"
	"github.com/aretw0/wicker/internal/logging"
	"github.com/aretw0/wicker/internal/presentation/tui"
	"github.com/aretw0/wicker/pkg/runner"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the demo bot in the terminal",
	Long:  `Starts an interactive chat loop against the bundled demo bot. Type "exit" or "quit" to leave.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		logger := logging.New(logging.ParseLevel(cfg.LogLevel))

		bot, cleanup, err := buildBot(cfg, logger, prometheus.DefaultRegisterer)
		if err != nil {
			fmt.Printf("Error building bot: %v\n", err)
			os.Exit(1)
		}
		defer cleanup()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		tui.PrintBanner()
		fmt.Println("Say hello, or \"book a haircut\". Type \"exit\" to leave.")

		renderer := tui.NewRenderer()
		r := runner.NewRunner()
		r.Logger = logger
		r.Renderer = renderer.Render

		if err := r.Run(ctx, bot); err != nil && ctx.Err() == nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Bye!")
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	rootCmd.Run = chatCmd.Run
}
