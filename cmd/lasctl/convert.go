package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/laskit/pkg/las"
)

var (
	convertVersion     string
	convertFormat      int
	convertScale       float64
	convertOptimal     bool
	convertProfile     string
	convertNoWaveforms bool
)

func init() {
	rootCmd.AddCommand(newConvertCmd())
}

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <in.las> <out.las>",
		Short: "Rewrite a LAS file with another version, point format or scale",
		Long: `The convert command loads a LAS file and saves it again. Header fields
and foreign VLRs are kept; the version, point format and scale can be changed
from flags or an export profile. Flags override the profile.

Profile (YAML):
  version: "1.4"
  point_format: 7
  scale: [0.001, 0.001, 0.001]
  fields:
    Intensity: Amplitude
  skip_waveforms: false

Example:
  lasctl convert in.las out.las --version 1.4 --format 6
  lasctl convert in.las out.las --scale 0.001
  lasctl convert in.las out.las --profile export.yaml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := convertOptions(cmd)
			if err != nil {
				return err
			}
			return runConvert(cmd.Context(), args, opts)
		},
	}
	cmd.Flags().StringVar(&convertVersion, "version", "", "Output LAS version (1.2, 1.3, 1.4)")
	cmd.Flags().IntVar(&convertFormat, "format", -1, "Output point data format")
	cmd.Flags().Float64Var(&convertScale, "scale", 0, "Coordinate scale applied to all axes")
	cmd.Flags().BoolVar(&convertOptimal, "optimal-scale", false, "Derive the scale from the cloud extent")
	cmd.Flags().StringVar(&convertProfile, "profile", "", "Export profile (YAML)")
	cmd.Flags().BoolVar(&convertNoWaveforms, "no-waveforms", false, "Drop waveform data")
	return cmd
}

func convertOptions(cmd *cobra.Command) (las.SaveOptions, error) {
	var opts las.SaveOptions
	if convertProfile != "" {
		f, err := os.Open(convertProfile)
		if err != nil {
			return opts, fmt.Errorf("failed to open profile: %w", err)
		}
		defer f.Close()
		if opts, err = las.LoadSaveOptions(f); err != nil {
			return opts, fmt.Errorf("failed to read profile %s: %w", convertProfile, err)
		}
	}
	if cmd.Flags().Changed("version") {
		minor, err := las.ParseVersion(convertVersion)
		if err != nil {
			return opts, err
		}
		opts.VersionMinor = minor
	}
	if cmd.Flags().Changed("format") {
		if convertFormat < 0 || convertFormat > 10 {
			return opts, fmt.Errorf("point format %d out of range 0-10", convertFormat)
		}
		pf := uint8(convertFormat)
		opts.PointFormat = &pf
	}
	if cmd.Flags().Changed("scale") {
		if convertScale <= 0 {
			return opts, fmt.Errorf("scale %g is not positive", convertScale)
		}
		opts.Scale = &[3]float64{convertScale, convertScale, convertScale}
		opts.ScaleMode = las.ScaleCustom
	}
	if convertOptimal {
		opts.Scale = nil
		opts.ScaleMode = las.ScaleOptimal
	}
	if convertNoWaveforms {
		opts.SkipWaveforms = true
	}
	return opts, nil
}

func runConvert(ctx context.Context, args []string, opts las.SaveOptions) error {
	in, out := args[0], args[1]
	if ctx == nil {
		ctx = context.Background()
	}
	log := newLogger()

	printVerbose("Loading: %s\n", in)
	res, err := las.Load(ctx, in, las.LoadOptions{Logger: log, SkipWaveforms: opts.SkipWaveforms})
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", in, err)
	}

	opts.Logger = log
	printVerbose("Saving: %s\n", out)
	saved, err := las.Save(ctx, res.Cloud, out, opts)
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", out, err)
	}

	if jsonOut {
		return printJSON(map[string]any{
			"input":         in,
			"output":        out,
			"points":        saved.Points,
			"version":       fmt.Sprintf("1.%d", saved.Header.VersionMinor),
			"point_format":  saved.Header.PointFormat,
			"waveform_file": saved.WaveformPath,
			"diagnostics":   saved.Diagnostics,
		})
	}
	printInfo("Converted %d points: %s -> %s (LAS 1.%d, format %d)\n",
		saved.Points, in, out, saved.Header.VersionMinor, saved.Header.PointFormat)
	if saved.WaveformPath != "" {
		printInfo("Waveforms written to %s\n", saved.WaveformPath)
	}
	if res.Diagnostics.HasAnyIssues() {
		printInfo("%s", res.Diagnostics.FormatTextCompact())
	}
	if saved.Diagnostics.HasAnyIssues() {
		printInfo("%s", saved.Diagnostics.FormatTextCompact())
	}
	return nil
}
