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
	mcpAdapter "github.com/aretw0/wicker/pkg/adapters/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long:  `Exposes the demo bot to MCP hosts: send_message drives conversations, reset_session clears them.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		// Stdio transport owns stdout; keep logs on stderr only.
		logger := logging.New(logging.ParseLevel(cfg.LogLevel))

		bot, cleanup, err := buildBot(cfg, logger, prometheus.DefaultRegisterer)
		if err != nil {
			fmt.Printf("Error building bot: %v\n", err)
			os.Exit(1)
		}
		defer cleanup()

		srv := mcpAdapter.NewServer(bot)

		ssePort, _ := cmd.Flags().GetInt("sse-port")
		if ssePort > 0 {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := srv.ServeSSE(ctx, ssePort); err != nil {
				fmt.Printf("MCP server error: %v\n", err)
				os.Exit(1)
			}
			return
		}

		if err := srv.ServeStdio(); err != nil {
			fmt.Printf("MCP server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().Int("sse-port", 0, "Serve over SSE on this port instead of stdio")
}
