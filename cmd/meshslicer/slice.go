package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/piwi3910/MeshSlicer/internal/export"
	"github.com/piwi3910/MeshSlicer/internal/importer"
	"github.com/piwi3910/MeshSlicer/internal/session"
)

var sliceCmd = &cobra.Command{
	Use:   "slice <mesh-file>",
	Short: "Slice a mesh and write G-code and optional exports",
	Long: `Slice an STL, OBJ or PLY mesh. G-code is written next to the configured
output directory unless -o is given; use "-o -" for stdout. Additional
exports are written only when their flag is set.`,
	Args: cobra.ExactArgs(1),
	RunE: runSlice,
}

func init() {
	addConfigFlags(sliceCmd)
	f := sliceCmd.Flags()
	f.StringP("output", "o", "", "G-code output path (default <output_dir>/<name>.gcode, - for stdout)")
	f.String("json", "", "Write layer JSON to this path")
	f.String("pdf", "", "Write a PDF report to this path")
	f.String("xlsx", "", "Write an XLSX workbook to this path")
	f.String("dxf", "", "Write one layer as DXF to this path (see --layer)")
	f.String("png", "", "Write one layer plot as PNG to this path (see --layer)")
	f.Int("layer", 0, "Layer index for --dxf and --png")
	rootCmd.AddCommand(sliceCmd)
}

func runSlice(cmd *cobra.Command, args []string) error {
	cfg := resolveConfig(cmd)
	workers, timeout, err := runLimits(cmd)
	if err != nil {
		return fmt.Errorf("invalid slice_timeout in config: %w", err)
	}

	mesh, err := importer.LoadFile(args[0])
	if err != nil {
		return err
	}

	mgr := session.NewManager(
		session.WithLogger(logger),
		session.WithMetrics(sliceMetrics),
		session.WithWorkers(workers),
		session.WithTimeout(timeout),
	)
	id, err := mgr.Create(cfg)
	if err != nil {
		return err
	}
	defer mgr.Dispose(id)

	if err := mgr.Load(id, mesh); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := mgr.Slice(ctx, id); err != nil {
		return err
	}

	if err := writeGCode(cmd, mgr, id, args[0]); err != nil {
		return err
	}
	if err := writeExports(cmd, mgr, id, args[0]); err != nil {
		return err
	}

	stats, err := mgr.Statistics(id)
	if err != nil {
		return err
	}
	warnings, err := mgr.Warnings(id)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		logger.Warn(w)
	}

	out := cmd.ErrOrStderr()
	fmt.Fprintf(out, "Layers:   %d\n", stats.LayerCount)
	fmt.Fprintf(out, "Filament: %.1f mm (%.2f g %s)\n", stats.FilamentLength, stats.FilamentWeight, stats.Material)
	fmt.Fprintf(out, "Time:     %s\n", formatSeconds(stats.PrintTime))
	fmt.Fprintf(out, "Warnings: %d\n", len(warnings))
	return nil
}

func writeGCode(cmd *cobra.Command, mgr *session.Manager, id, meshPath string) error {
	path, _ := cmd.Flags().GetString("output")
	if path == "-" {
		return mgr.ExportGCode(id, cmd.OutOrStdout())
	}
	if path == "" {
		name := strings.TrimSuffix(filepath.Base(meshPath), filepath.Ext(meshPath))
		path = filepath.Join(appConfig.OutputDir, name+".gcode")
		if err := os.MkdirAll(appConfig.OutputDir, 0755); err != nil {
			return err
		}
	}
	return writeFile(path, func(w io.Writer) error { return mgr.ExportGCode(id, w) })
}

func writeExports(cmd *cobra.Command, mgr *session.Manager, id, meshPath string) error {
	f := cmd.Flags()
	jsonPath, _ := f.GetString("json")
	pdfPath, _ := f.GetString("pdf")
	xlsxPath, _ := f.GetString("xlsx")
	dxfPath, _ := f.GetString("dxf")
	pngPath, _ := f.GetString("png")
	layerIdx, _ := f.GetInt("layer")

	if jsonPath != "" {
		if err := writeFile(jsonPath, func(w io.Writer) error { return mgr.ExportJSON(id, w) }); err != nil {
			return err
		}
	}
	if pdfPath == "" && xlsxPath == "" && dxfPath == "" && pngPath == "" {
		return nil
	}

	cfg, err := mgr.Config(id)
	if err != nil {
		return err
	}
	stats, err := mgr.Statistics(id)
	if err != nil {
		return err
	}
	layers, err := mgr.Layers(id)
	if err != nil {
		return err
	}

	if pdfPath != "" {
		warnings, err := mgr.Warnings(id)
		if err != nil {
			return err
		}
		report := export.Report{
			Title:    filepath.Base(meshPath),
			Config:   cfg,
			Stats:    stats,
			Layers:   layers,
			Warnings: warnings,
		}
		if err := export.ExportPDF(pdfPath, report); err != nil {
			return err
		}
	}
	if xlsxPath != "" {
		if err := export.ExportXLSX(xlsxPath, export.Workbook{Config: cfg, Stats: stats, Layers: layers}); err != nil {
			return err
		}
	}
	if dxfPath != "" || pngPath != "" {
		layer, err := mgr.GetLayer(id, layerIdx)
		if err != nil {
			return err
		}
		if dxfPath != "" {
			if err := export.ExportLayerDXF(dxfPath, layer); err != nil {
				return err
			}
		}
		if pngPath != "" {
			if err := export.SaveLayerPlot(pngPath, layer); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeFile creates path and streams write into it.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	logger.Info("wrote file", "path", path)
	return f.Close()
}

func formatSeconds(s float64) string {
	total := int(s + 0.5)
	return fmt.Sprintf("%dh %02dm %02ds", total/3600, (total/60)%60, total%60)
}
