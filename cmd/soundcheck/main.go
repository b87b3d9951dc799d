package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"soundcheck/internal/bootstrap"
	"soundcheck/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "soundcheck",
		Short:         "Terminal sound level meter",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data-dir", ".", "data directory for notes, graphs and the measurement index")

	root.AddCommand(newTUICmd(&dataDir))
	root.AddCommand(newMeasureCmd(&dataDir))
	root.AddCommand(newHistoryCmd(&dataDir))
	root.AddCommand(newExportCmd(&dataDir))
	root.AddCommand(newCaptureCmd(&dataDir))
	return root
}

func loadApp(dataDir string) (*bootstrap.App, error) {
	cfg, err := config.New(dataDir)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

func newTUICmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the interactive meter",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			return bootstrap.RunTUI(app)
		},
	}
}

func newMeasureCmd(dataDir *string) *cobra.Command {
	var backend, device, outSVG string
	var duration time.Duration

	measure := &cobra.Command{
		Use:   "measure",
		Short: "Run one headless measurement and persist the result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out, err := app.MeterCLI.Measure(ctx, backend, device, duration, outSVG)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "measurement %s complete\n", out.ID)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "max=%.1f avg=%.1f samples=%d duration=%s\n", out.MaxLevel, out.AvgLevel, out.SampleCount, out.Duration.Round(time.Millisecond))
			if out.NotePath != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "note=%s\n", out.NotePath)
			}
			if out.SVGPath != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "svg=%s\n", out.SVGPath)
			}
			return nil
		},
	}
	measure.Flags().StringVar(&backend, "backend", "", "capture backend: auto|exec|plugin|synthetic (defaults to config)")
	measure.Flags().StringVar(&device, "device", "", "capture device (defaults to config)")
	measure.Flags().DurationVar(&duration, "duration", 0, "measurement window (defaults to config)")
	measure.Flags().StringVar(&outSVG, "out-svg", "", "also export the trend graph to this path")
	return measure
}

func newHistoryCmd(dataDir *string) *cobra.Command {
	history := &cobra.Command{Use: "history", Short: "Query past measurements"}

	history.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List measurements, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			measurements, err := app.MeterCLI.List(context.Background())
			if err != nil {
				return err
			}
			if len(measurements) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no measurements")
				return nil
			}
			for _, m := range measurements {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tmax=%.1f\tavg=%.1f\t%s\n",
					m.ID, m.StartedAt.Local().Format("2006-01-02 15:04:05"), m.MaxLevel, m.AvgLevel, m.Duration.Round(time.Second))
			}
			return nil
		},
	})

	var measurementID string
	show := &cobra.Command{
		Use:   "show --id <id>",
		Short: "Show one measurement in detail",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(measurementID) == "" {
				return fmt.Errorf("--id is required")
			}
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			m, err := app.MeterCLI.Get(context.Background(), measurementID)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "id: %s\nstarted: %s\nduration: %s\nmax: %.1f\navg: %.1f\nsamples: %d\nnote: %s\nsvg: %s\n",
				m.ID, m.StartedAt.Format(time.RFC3339), m.Duration.Round(time.Millisecond), m.MaxLevel, m.AvgLevel, m.SampleCount, m.NotePath, m.SVGPath)
			for _, p := range m.Trend {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%.1f\n", p.Offset.Round(0), p.Value)
			}
			return nil
		},
	}
	show.Flags().StringVar(&measurementID, "id", "", "measurement id")
	history.AddCommand(show)
	return history
}

func newExportCmd(dataDir *string) *cobra.Command {
	var measurementID, out string

	export := &cobra.Command{
		Use:   "export --id <id>",
		Short: "Export a measurement's trend graph as SVG",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(measurementID) == "" {
				return fmt.Errorf("--id is required")
			}
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			exported, err := app.MeterCLI.ExportSVG(context.Background(), measurementID, out)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %s\n", exported.Path)
			return nil
		},
	}
	export.Flags().StringVar(&measurementID, "id", "", "measurement id")
	export.Flags().StringVar(&out, "out", "", "target path (defaults next to the measurement's data)")
	return export
}

func newCaptureCmd(dataDir *string) *cobra.Command {
	capture := &cobra.Command{Use: "capture", Short: "Inspect capture backends"}

	capture.AddCommand(&cobra.Command{
		Use:   "devices",
		Short: "List devices from healthy backends",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			devices, err := app.CaptureCLI.Devices(context.Background())
			if err != nil {
				return err
			}
			if len(devices) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no devices")
				return nil
			}
			for _, d := range devices {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", d.Backend, d.ID, d.Label)
			}
			return nil
		},
	})

	capture.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Run capture backend health checks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			checks, err := app.CaptureCLI.Doctor(context.Background())
			if err != nil {
				return err
			}
			failing := false
			for _, check := range checks {
				marker := "OK"
				if !check.OK {
					marker = "FAIL"
					failing = true
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s: %s\n", marker, check.Backend, check.Details)
			}
			if failing {
				return fmt.Errorf("capture doctor found failing backends")
			}
			return nil
		},
	})

	return capture
}
