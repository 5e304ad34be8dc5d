package main

import (
	"fmt"
	"path/filepath"

	"github.com/dhamidi/jig/java/codebase"
	"github.com/spf13/cobra"
)

func newCompleteCmd() *cobra.Command {
	var dir string
	var limit int

	cmd := &cobra.Command{
		Use:   "complete <file:line:col>",
		Short: "Rank completion candidates for a position in a Java file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, line, col, err := parseLocation(args[0])
			if err != nil {
				return err
			}
			return runComplete(dir, file, line, col, limit)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "workspace root")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of candidates")

	return cmd
}

func runComplete(dir, file string, line, col, limit int) error {
	c, err := openWorkspace(dir)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return err
	}
	f, err := loadFile(c, abs)
	if err != nil {
		return err
	}

	src := f.Analysis.Source
	offset := codebase.LineColToOffset(src, line, col)
	prefix := codebase.PrefixAt(src, offset)

	cands := c.CompletionsAt(abs, offset, prefix)
	if limit > 0 && len(cands) > limit {
		cands = cands[:limit]
	}
	for _, cand := range cands {
		if cand.Detail != "" {
			fmt.Printf("%-13s %s  %s\n", cand.Kind, cand.Label, cand.Detail)
		} else {
			fmt.Printf("%-13s %s\n", cand.Kind, cand.Label)
		}
	}
	return nil
}
