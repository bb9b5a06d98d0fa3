package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/dhamidi/marksense/registry"
	"github.com/dhamidi/marksense/style"
)

func newRegistryCmd(opts *globalOptions) *cobra.Command {
	var listTypes bool
	var tag, parent string

	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Load the configured registry and print its statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, loadErr := registry.Load(opts.cfg.Registry.Source())
			out := cmd.OutOrStdout()

			stats := reg.Stats()
			fmt.Fprintf(out, "types\t%d\n", stats.Types)
			fmt.Fprintf(out, "groups\t%d\n", stats.Groups)
			fmt.Fprintf(out, "definitions\t%d\n", stats.Definitions)
			fmt.Fprintf(out, "fallback\t%d\n", stats.Fallback)
			fmt.Fprintf(out, "indexed\t%d\n", reg.Index().Len())

			if listTypes {
				for _, t := range reg.Types() {
					fmt.Fprintf(out, "type\t%s\t%s\t%s\n", t.Name, t.OwnerName(), t.Super)
				}
			}

			if tag != "" {
				groups := style.NewResolver(reg).Groups(tag, parent)
				for _, g := range groups {
					fmt.Fprintf(out, "group\t%s:%s\t%s\n", g.Namespace, g.Name, g.Rule)
				}
			}

			for _, err := range multierr.Errors(loadErr) {
				fmt.Fprintf(cmd.ErrOrStderr(), "error\t%s\n", err)
			}
			if loadErr != nil {
				return fmt.Errorf("%d registry files failed to load", len(multierr.Errors(loadErr)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&listTypes, "types", false, "list every type")
	cmd.Flags().StringVar(&tag, "tag", "", "show the style groups that apply to this tag")
	cmd.Flags().StringVar(&parent, "parent", "", "parent tag used with --tag")

	return cmd
}
