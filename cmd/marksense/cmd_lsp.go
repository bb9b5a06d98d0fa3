package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/marksense/registry"
	"github.com/dhamidi/marksense/workspace"
)

func newLSPCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := opts.loadStore()
			if opts.cfg.Registry.Watch {
				w := registry.NewWatcher(store, opts.cfg.Registry.Source(), opts.cfg.Registry.PollInterval)
				w.Start()
				defer w.Stop()
			}

			ws := workspace.New(opts.newEngine(store))
			server := workspace.NewLSPServer(ws, version)
			return server.RunStdio()
		},
	}
}
