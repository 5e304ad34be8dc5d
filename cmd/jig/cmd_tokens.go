package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dhamidi/jig/java/lexer"
	"github.com/spf13/cobra"
)

func newTokensCmd() *cobra.Command {
	var includeComments bool

	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Dump the token stream of a Java source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(args[0], includeComments)
		},
	}

	cmd.Flags().BoolVar(&includeComments, "comments", false, "interleave comments with the tokens")

	return cmd
}

func runTokens(filename string, includeComments bool) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("read %s: %w", filename, err)
	}
	tokens, comments := lexer.Scan(data, filename)
	if !includeComments {
		comments = nil
	}

	ci := 0
	for _, tok := range tokens {
		for ci < len(comments) && comments[ci].Span.Start.Offset < tok.Span.Start.Offset {
			printComment(comments[ci])
			ci++
		}
		fmt.Printf("%4d:%-4d %-7s %s\n", tok.Span.Start.Line, tok.Span.Start.Column, tok.Kind, tok.Literal)
	}
	for ; ci < len(comments); ci++ {
		printComment(comments[ci])
	}
	return nil
}

func printComment(c lexer.Comment) {
	text := c.Text
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i] + "..."
	}
	fmt.Printf("%4d:%-4d %-7s %s\n", c.Span.Start.Line, c.Span.Start.Column, "Comment", text)
}
