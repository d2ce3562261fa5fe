package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"orthosync/internal/models"
	"orthosync/pkg/axismap"
	"orthosync/pkg/config"
)

var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write a configuration file with default values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.CreateDefaultConfigFile(configPath); err != nil {
			return err
		}
		fmt.Printf("Default configuration written to: %s\n", configPath)
		return nil
	},
}

var axesCmd = &cobra.Command{
	Use:   "axes",
	Short: "Print which volume axis each view shows",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%-10s %-6s %-11s %-9s\n", "view", "depth", "horizontal", "vertical")
		for _, view := range models.Views {
			m := axismap.For(view)
			fmt.Printf("%-10s %-6s %-11s %-9s\n", view, m.Depth, m.Horizontal, m.Vertical)
		}
	},
}

func init() {
	rootCmd.AddCommand(initConfigCmd)
	rootCmd.AddCommand(axesCmd)
}
