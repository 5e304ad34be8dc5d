package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/jig/java/codebase"
	"github.com/spf13/cobra"
)

func newMCPCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the Model Context Protocol server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openWorkspace(dir)
			if err != nil {
				return err
			}

			watcher, err := codebase.NewFileWatcher(c)
			if err == nil {
				err = watcher.Start()
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "watcher: %v\n", err)
			} else {
				defer watcher.Stop()
			}

			return codebase.NewMCPServer(c, version).ServeStdio()
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "workspace root")

	return cmd
}
