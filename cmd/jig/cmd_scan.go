package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dhamidi/jig/java/codebase"
	"github.com/dhamidi/jig/project"
	"github.com/spf13/cobra"
)

func newScanCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "Index a workspace and report every class found",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runScan(dir, timeout)
		},
	}

	cmd.Flags().DurationVarP(&timeout, "timeout", "t", codebase.DefaultFileTimeout, "timeout per file")

	return cmd
}

func runScan(dir string, timeout time.Duration) error {
	layout, err := project.LoadFrom(dir)
	if err != nil {
		return err
	}

	c := codebase.New(layout.Root, nil)
	c.FileTimeout = timeout
	c.Scan = layout.ScanOptions()

	report, err := c.ScanAll(context.Background())
	if err != nil {
		return err
	}

	classes := 0
	for _, rel := range report.Indexed {
		f := c.File(filepath.Join(layout.Root, filepath.FromSlash(rel)))
		if f == nil {
			continue
		}
		fmt.Printf("[OK] %s (%d classes)\n", rel, len(f.Classes))
		for _, cls := range f.Classes {
			fmt.Printf("  %s %s (%d fields, %d methods)\n", cls.Kind, cls.BinaryName, len(cls.Fields), len(cls.Methods))
			classes++
		}
	}
	for _, rel := range report.Skipped {
		fmt.Printf("[SKIPPED] %s\n", rel)
	}

	fmt.Printf("\n=== SCAN COMPLETE ===\n")
	fmt.Printf("Files indexed: %d\n", len(report.Indexed))
	fmt.Printf("Classes found: %d\n", classes)
	fmt.Printf("Errors: %d\n", len(report.Errors))
	for _, e := range report.Errors {
		fmt.Printf("  - %s\n", e)
	}
	return nil
}
