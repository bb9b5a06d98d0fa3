package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/marksense/format"
	"github.com/dhamidi/marksense/markup"
	"github.com/dhamidi/marksense/markup/parser"
)

func newContextCmd(opts *globalOptions) *cobra.Command {
	var offset int
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "context <file>",
		Short: "Show the cursor context and the parse tree of a layout file",
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

			doc := parser.Parse(text, parser.WithFile(filename))
			cc := markup.ContextAt(doc, offset)
			out := cmd.OutOrStdout()

			switch outputFormat {
			case "json":
				enc := format.NewASTJSONEncoder(out)
				if err := enc.Encode(doc.Root); err != nil {
					return fmt.Errorf("encode json: %w", err)
				}
			case "text":
				fmt.Fprintf(out, "kind\t%s\n", cc.Kind)
				fmt.Fprintf(out, "range\t%d..%d\n", cc.Anchor, cc.Offset)
				fmt.Fprintf(out, "filter\t%q\n", cc.Filter)
				fmt.Fprintf(out, "token\t%q\t%q\n", cc.PartialToken, cc.FullToken)
				fmt.Fprintf(out, "owner\t%s\n", cc.OwnerTag)
				fmt.Fprintf(out, "parent\t%s\n", cc.ParentTag)
				if cc.Attribute != "" {
					fmt.Fprintf(out, "attribute\t%s\n", cc.Attribute)
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, doc.Root.StringWithPositions())
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			for _, p := range doc.Problems {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s:%s: %s\n", filename, p.Span.Start, p.Message)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&offset, "offset", "o", -1, "byte offset of the cursor (default end of file)")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (json, text)")

	return cmd
}
