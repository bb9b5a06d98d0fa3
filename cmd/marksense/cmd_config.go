package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/marksense/config"
)

func newConfigCmd(opts *globalOptions) *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if defaults {
				data, err = config.Prepare()
			} else {
				data, err = config.Dump(opts.cfg)
			}
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&defaults, "defaults", false, "print the built-in defaults instead")

	return cmd
}
