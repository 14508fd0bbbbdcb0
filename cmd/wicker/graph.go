package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/aretw0/wicker/internal/config"
	"github.com/aretw0/wicker/internal/logging"
	"github.com/aretw0/wicker/internal/presentation/graph"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print the bot's routing wiring as a Mermaid flowchart",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		bot, cleanup, err := buildBot(cfg, logging.NewNop(), prometheus.NewRegistry())
		if err != nil {
			fmt.Printf("Error building bot: %v\n", err)
			os.Exit(1)
		}
		defer cleanup()

		var dialogs []graph.DialogNode
		for _, name := range bot.Dialogs() {
			dialogs = append(dialogs, graph.DialogNode{Name: name, Steps: bot.StepCount(name)})
		}

		var triggers []graph.TriggerEdge
		if cfg.RulesPath != "" {
			rf, err := config.LoadRules(cfg.RulesPath)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
			for _, rule := range rf.Rules {
				label := rule.Intent
				if label == "" {
					label = rule.Pattern
				}
				triggers = append(triggers, graph.TriggerEdge{Label: label, Dialog: rule.Dialog, Reset: rule.Reset})
			}
		} else {
			triggers = defaultTriggerEdges()
		}

		fmt.Print(graph.GenerateMermaid(dialogs, triggers))
	},
}

func defaultTriggerEdges() []graph.TriggerEdge {
	return []graph.TriggerEdge{
		{Label: `^(hi|hello|hey)\b`, Dialog: "greet"},
		{Label: `haircut|appointment|book`, Dialog: "book-haircut"},
		{Label: "BookHaircut", Dialog: "book-haircut"},
		{Label: `^help$`, Dialog: "help"},
		{Label: `^(start over|reset)$`, Reset: true},
	}
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
