package main

import (
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/MeshSlicer/internal/export"
	"github.com/piwi3910/MeshSlicer/internal/importer"
	"github.com/piwi3910/MeshSlicer/internal/slicer"
)

var compareCmd = &cobra.Command{
	Use:   "compare <mesh-file>",
	Short: "Compare filament and time across alternative settings",
	Long: `Slice the mesh with the current settings and a set of what-if variations
(finer and draft layers, solid and empty infill, an extra perimeter) and
print the resulting filament use and print time side by side.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompare,
}

func init() {
	addConfigFlags(compareCmd)
	compareCmd.Flags().String("xlsx", "", "Also write the comparison to an XLSX workbook")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg := resolveConfig(cmd)
	if err := cfg.Validate(); err != nil {
		return err
	}
	workers, _, err := runLimits(cmd)
	if err != nil {
		return err
	}

	mesh, err := importer.LoadFile(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	results, err := slicer.CompareScenarios(ctx, mesh, slicer.BuildDefaultScenarios(cfg),
		slicer.WithWorkers(workers), slicer.WithLogger(logger))
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCENARIO\tLAYERS\tFILAMENT (mm)\tWEIGHT (g)\tTIME\tWARNINGS")
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\t%v\n", r.Scenario.Name, r.Err)
			continue
		}
		st := r.Statistics
		fmt.Fprintf(tw, "%s\t%d\t%.1f\t%.2f\t%s\t%d\n",
			r.Scenario.Name, st.LayerCount, st.FilamentLength, st.FilamentWeight, formatSeconds(st.PrintTime), r.Warnings)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("xlsx"); path != "" {
		wb := export.Workbook{Config: cfg, Stats: results[0].Statistics, Comparisons: results}
		if err := export.ExportXLSX(path, wb); err != nil {
			return err
		}
		logger.Info("wrote file", "path", path)
	}
	return nil
}
