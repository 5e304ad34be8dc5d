package main

import (
	"fmt"
	"path/filepath"

	"github.com/dhamidi/jig/java/codebase"
	"github.com/dhamidi/jig/java/lexer"
	"github.com/spf13/cobra"
)

func newTypeAtCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "type-at <file:line:col>",
		Short: "Print the inferred type of the expression at a position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, line, col, err := parseLocation(args[0])
			if err != nil {
				return err
			}
			return runTypeAt(dir, file, line, col)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "workspace root")

	return cmd
}

func runTypeAt(dir, file string, line, col int) error {
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

	offset := codebase.LineColToOffset(f.Analysis.Source, line, col)
	// Pointing anywhere inside a name asks about the whole name.
	if i := f.Analysis.TokenContaining(offset); i >= 0 {
		if tok := f.Analysis.Tokens[i]; tok.Kind == lexer.TokenIdent {
			offset = tok.Span.End.Offset
		}
	}

	display := c.TypeAt(abs, offset)
	if display == "" {
		return fmt.Errorf("no typed expression at %s:%d:%d", file, line, col)
	}
	fmt.Println(display)
	return nil
}
