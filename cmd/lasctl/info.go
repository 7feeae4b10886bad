package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/laskit/pkg/las"
)

var infoStats bool

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Report the header, fields and metadata of a LAS file",
		Long: `The info command reads the header and VLRs of a LAS file and prints the
version, point format, bounds, field catalog, extra bytes fields, waveform
descriptors and any problems found in the metadata. With --stats the points
are loaded and per-column statistics are printed too.

Example:
  lasctl info scan.las
  lasctl info scan.las --stats --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd.Context(), args)
		},
	}
	cmd.Flags().BoolVar(&infoStats, "stats", false, "Load the points and print column statistics")
	return cmd
}

type infoOutput struct {
	*las.Info
	Stats []las.ColumnStats `json:"stats,omitempty"`
}

func runInfo(ctx context.Context, args []string) error {
	path := args[0]
	if ctx == nil {
		ctx = context.Background()
	}
	printVerbose("Inspecting: %s\n", path)

	info, err := las.Inspect(path, newLogger())
	if err != nil {
		return fmt.Errorf("failed to inspect %s: %w", path, err)
	}
	out := infoOutput{Info: info}
	if infoStats {
		res, err := las.Load(ctx, path, las.LoadOptions{Logger: newLogger()})
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		out.Stats = res.Cloud.AllStats()
	}

	if jsonOut {
		return printJSON(out)
	}

	printInfo("\nLAS Information:\n")
	printInfo("  File: %s\n", path)
	if stat, err := os.Stat(path); err == nil {
		printInfo("  Size: %s\n", formatSize(stat.Size()))
	}
	printInfo("  Version: %s\n", info.Version)
	printInfo("  Point format: %d", info.PointFormat)
	if info.Compressed {
		printInfo(" (compressed)")
	}
	printInfo("\n  Points: %d\n", info.Points)
	printInfo("  Record length: %d (%d extra bytes)\n", info.RecordLength, info.ExtraBytes)
	printInfo("  System: %s\n", info.SystemID)
	printInfo("  Software: %s\n", info.GeneratingSoftware)
	if info.Created != "" {
		printInfo("  Created: %s\n", info.Created)
	}
	if info.ProjectID != "" {
		printInfo("  Project: %s\n", info.ProjectID)
	}
	printInfo("  Scale: %g %g %g\n", info.Scale[0], info.Scale[1], info.Scale[2])
	printInfo("  Offset: %g %g %g\n", info.Offset[0], info.Offset[1], info.Offset[2])
	printInfo("  Min: %.3f %.3f %.3f\n", info.Min[0], info.Min[1], info.Min[2])
	printInfo("  Max: %.3f %.3f %.3f\n", info.Max[0], info.Max[1], info.Max[2])
	printInfo("  Carries: %s\n", carries(info))

	printInfo("\nFields:\n")
	printInfo("  %s\n", strings.Join(info.Fields, ", "))
	if len(info.ExtraFields) > 0 {
		printInfo("\nExtra fields:\n")
		for _, f := range info.ExtraFields {
			printInfo("  %-24s %-8s offset %d\n", f.Name, f.Type, f.Offset)
		}
	}
	if len(info.VLRs) > 0 {
		printInfo("\nVLRs:\n")
		for _, v := range info.VLRs {
			printInfo("  %-16s %5d  %6d bytes  %s\n", v.UserID, v.RecordID, v.Length, v.Description)
		}
	}
	if len(info.Waveforms) > 0 {
		printInfo("\nWaveform descriptors:\n")
		for _, w := range info.Waveforms {
			printInfo("  #%d: %d samples of %d bits every %d ps\n", w.ID, w.NumberOfSamples, w.BitsPerSample, w.SamplingRatePs)
		}
	}
	if len(out.Stats) > 0 {
		printInfo("\nStatistics:\n")
		for _, s := range out.Stats {
			printInfo("  %-24s min %-14g max %-14g mean %g\n", s.Name, s.Min, s.Max, s.Mean)
		}
	}
	if info.Diagnostics.HasAnyIssues() {
		printInfo("\n%s", info.Diagnostics.FormatTextCompact())
	}
	return nil
}

func carries(info *las.Info) string {
	var parts []string
	if info.GpsTime {
		parts = append(parts, "gps time")
	}
	if info.RGB {
		parts = append(parts, "rgb")
	}
	if info.NearInfrared {
		parts = append(parts, "nir")
	}
	if info.WavePackets {
		p := "wave packets"
		if info.ExternalWaveforms {
			p += " (external)"
		}
		parts = append(parts, p)
	}
	if len(parts) == 0 {
		return "xyz only"
	}
	return strings.Join(parts, ", ")
}

func formatSize(size int64) string {
	switch {
	case size < 1024:
		return fmt.Sprintf("%d bytes", size)
	case size < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(size)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(size)/(1024*1024))
	}
}
