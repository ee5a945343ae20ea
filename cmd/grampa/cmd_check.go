package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/grampa/dsl"
	"github.com/dhamidi/grampa/format"
)

func newCheckCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "check <grammar>",
		Short: "Parse a grammar definition file and dump the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read grammar: %w", err)
			}

			def, err := dsl.Parse(string(source))
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			switch outputFormat {
			case "yaml":
				enc := format.NewYAMLEncoder(os.Stdout)
				if err := enc.EncodeDefinition(def); err != nil {
					return fmt.Errorf("encode: %w", err)
				}
			case "text":
				fmt.Print(def.String())
			default:
				return fmt.Errorf("unknown format: %s (expected yaml or text)", outputFormat)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "yaml", "output format (yaml, text)")

	return cmd
}
