package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/laskit/pkg/las"
)

var fieldsFormat uint8

func init() {
	rootCmd.AddCommand(newFieldsCmd())
}

func newFieldsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fields",
		Short: "List the standard fields of a point format",
		Long: `The fields command prints the record layout of a point data format: its
size, the LAS versions that allow it, and the standard fields in the order
they become columns.

Example:
  lasctl fields --format 6
  lasctl fields --format 3 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFields()
		},
	}
	cmd.Flags().Uint8VarP(&fieldsFormat, "format", "f", 0, "Point data format (0-10)")
	return cmd
}

func runFields() error {
	fi, err := las.DescribePointFormat(fieldsFormat)
	if err != nil {
		return fmt.Errorf("failed to describe format %d: %w", fieldsFormat, err)
	}
	if jsonOut {
		return printJSON(fi)
	}

	printInfo("\nPoint format %d:\n", fi.PointFormat)
	printInfo("  Record length: %d bytes\n", fi.RecordLength)
	printInfo("  Versions: %s\n", strings.Join(fi.Versions, ", "))
	printInfo("  Extended: %t\n", fi.Extended)
	printInfo("  GPS time: %t  RGB: %t  NIR: %t  Wave packets: %t\n", fi.GpsTime, fi.RGB, fi.NearInfrared, fi.WavePackets)
	printInfo("\nFields:\n")
	for i, name := range fi.Fields {
		printInfo("  %2d  %s\n", i, name)
	}
	return nil
}
