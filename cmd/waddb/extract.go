package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/jchantrell/waddb/internal/export"
	"github.com/jchantrell/waddb/internal/utils"
)

var (
	outputDir  string
	extractAll bool
)

var extractCmd = &cobra.Command{
	Use:   "extract [NAME...]",
	Short: "Write lumps from the loaded archives to disk",
	Long: `Extract resolves each named lump under the override policy and writes
its raw bytes to NAME.lmp in the output directory. Marker lumps carry no
data and are skipped. Use --all to extract every lump name that resolves.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && !extractAll {
			return fmt.Errorf("no lumps given, pass names or --all")
		}

		start := time.Now()

		if cmd.Flags().Changed("output") {
			cfg.Output = outputDir
		}

		m, err := openManager()
		if err != nil {
			return err
		}
		defer m.Close()

		if cfg.Output == "" {
			cfg.Output = cfg.Cache().GetExportDir(cfg.Archives[0])
		}

		names := resolveNames(m, args, extractAll)
		slog.Info("Extracting lumps", "count", len(names), "output", cfg.Output, "policy", m.Policy())

		progress := utils.NewProgress(len(names), "extract", !(noProgress || cfg.LogFormat == "json" || cfg.LogLevel == "debug"))
		exporter := export.NewExporter(m, cfg.Output)

		stats, err := exporter.ExportLumps(names, progress.Callback())
		progress.Finish()
		if err != nil {
			return fmt.Errorf("exporting lumps: %w", err)
		}

		duration := time.Since(start)
		var rate float64
		if seconds := duration.Seconds(); seconds > 0 {
			rate = float64(stats.Written) / seconds
		}

		fmt.Printf("Lumps written: %s (%s)\n", utils.Number(int64(stats.Written)), utils.Bytes(stats.Bytes))
		fmt.Printf("Markers skipped: %d\n", stats.Markers)
		fmt.Printf("Not found: %d\n", stats.Missing)
		fmt.Printf("Failed: %d\n", stats.Failed)
		fmt.Printf("Duration: %s\n", utils.Duration(duration))
		fmt.Printf("Extraction rate: %s lumps/sec\n", utils.Rate(rate))

		if stats.Failed > 0 {
			return fmt.Errorf("%d lumps failed to export, first error: %w", stats.Failed, stats.Failures[0])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVarP(&outputDir, "output", "o", "", "directory to write lumps to")
	extractCmd.Flags().BoolVar(&extractAll, "all", false, "extract every resolvable lump")
}
