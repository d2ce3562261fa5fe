package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "orthosync",
	Short: "Synchronized axial, sagittal and coronal annotation of volumes",
	Long: `orthosync keeps measurement lines and a region of interest consistent
across the three orthogonal views of a volume. Recorded sessions can be
replayed headlessly to produce a YAML report of lines and ROI bounds.`,
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "orthosync.yaml", "Configuration file (defaults are used when missing)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
