package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"orthosync/pkg/config"
	"orthosync/pkg/session"
	"orthosync/pkg/viewsync"
	"orthosync/pkg/visualization"
)

var (
	reportPath string
	rawPath    string
	slicesDir  string
)

var replayCmd = &cobra.Command{
	Use:   "replay [session.yaml]",
	Short: "Replay a recorded session and write the resulting report",
	Long: `Replay feeds the recorded view events of a session to the view
synchronization controller and writes the measurements and ROI as YAML.
With --raw, ROI intensity statistics are added and, with --slices-dir,
the slices crossing the ROI are saved as JPEG images.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringVarP(&reportPath, "output", "o", "", "Report file (overrides output.reportPath)")
	replayCmd.Flags().StringVar(&rawPath, "raw", "", "Little-endian float32 volume in z,y,x order")
	replayCmd.Flags().StringVar(&slicesDir, "slices-dir", "", "Directory for ROI slice images (overrides output.slicesDir)")
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if reportPath != "" {
		cfg.Output.ReportPath = reportPath
	}
	if slicesDir != "" {
		cfg.Output.SlicesDir = slicesDir
	}

	script, err := session.LoadScript(args[0])
	if err != nil {
		return err
	}
	vol := script.ResolveVolume(cfg.Volume)

	opts := cfg.ControllerOptions()
	if cfg.Output.Verbose {
		opts.Logger = log.New(os.Stderr, "orthosync: ", log.LstdFlags)
	}
	controller, err := viewsync.New(vol, opts)
	if err != nil {
		return fmt.Errorf("invalid volume: %w", err)
	}

	fmt.Printf("Replaying %d events on a %dx%dx%d volume...\n", len(script.Events), vol.SizeX, vol.SizeY, vol.SizeZ)
	for _, stepErr := range session.Replay(controller, script.Events) {
		log.Printf("Warning: %v", stepErr)
	}

	report := session.BuildReport(controller.Snapshot(), controller.Geometry())

	if rawPath != "" {
		data, err := visualization.LoadRawVolume(rawPath, vol)
		if err != nil {
			return fmt.Errorf("failed to load raw volume: %w", err)
		}
		viewer, err := visualization.NewViewer(data, vol)
		if err != nil {
			return err
		}
		if err := report.AddStats(viewer); err != nil {
			log.Printf("Warning: failed to compute ROI statistics: %v", err)
		}
		if report.ROI != nil && cfg.Output.SlicesDir != "" {
			dir, _ := filepath.Abs(cfg.Output.SlicesDir)
			if err := viewer.SaveROISlices(report.ROI.Bounds, dir); err != nil {
				log.Printf("Warning: failed to save ROI slices: %v", err)
			} else {
				fmt.Printf("ROI slices saved to: %s\n", dir)
			}
		}
	}

	if err := session.WriteReport(report, cfg.Output.ReportPath); err != nil {
		return err
	}

	fmt.Printf("\nMeasurements: %d\n", len(report.Lines))
	for _, line := range report.Lines {
		fmt.Printf("- %-8s %v -> %v  %.2f px  %.2f mm\n", line.View, line.Start, line.End, line.Distance, line.LengthMM)
	}
	if report.ROI != nil {
		fmt.Printf("ROI (%s view): %s\n", report.ROI.View, report.ROI.Bounds)
	} else {
		fmt.Println("ROI: none")
	}
	fmt.Printf("Report saved to: %s\n", cfg.Output.ReportPath)
	return nil
}
