package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/marksense/completion"
	"github.com/dhamidi/marksense/format"
)

func newCompleteCmd(opts *globalOptions) *cobra.Command {
	var offset int
	var outputFormat string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "complete <file>",
		Short: "Print the completions at a byte offset of a layout file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read layout file: %w", err)
			}
			text := string(data)
			if offset < 0 || offset > len(text) {
				offset = len(text)
			}

			if asJSON {
				outputFormat = "json"
			}
			enc, err := format.New(outputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			session := opts.newEngine(opts.loadStore()).NewSession(filename)
			res, err := session.Complete(cmd.Context(), completion.Request{Text: text, Offset: offset})
			if err != nil {
				return err
			}
			if err := enc.Encode(res); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&offset, "offset", "o", -1, "byte offset of the cursor (default end of file)")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "line", "output format (json, line)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "shorthand for --format json")

	return cmd
}
