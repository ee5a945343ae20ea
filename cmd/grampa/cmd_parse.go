package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/grampa/dsl"
	"github.com/dhamidi/grampa/format"
	"github.com/dhamidi/grampa/lex"
	"github.com/dhamidi/grampa/parse"
)

func newParseCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "parse <grammar> [file]",
		Short: "Parse input with a grammar and dump the syntax tree",
		Long: `Parse input according to a grammar definition file.

If no input file is provided, input is read from stdin. The resulting
syntax tree is printed to stdout.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			grammarSource, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read grammar: %w", err)
			}

			def, err := dsl.Parse(string(grammarSource))
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			var input []byte
			if len(args) == 2 {
				input, err = os.ReadFile(args[1])
				if err != nil {
					return fmt.Errorf("read input: %w", err)
				}
			} else {
				input, err = io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			}

			tokens, err := lex.Tokenize(string(input))
			if err != nil {
				return fmt.Errorf("tokenize: %w", err)
			}

			node, err := parse.Parse(def, tokens)
			if err != nil {
				return fmt.Errorf("parse: %w", err)
			}

			var enc format.Encoder
			switch outputFormat {
			case "json":
				enc = format.NewJSONEncoder(os.Stdout)
			case "yaml":
				enc = format.NewYAMLEncoder(os.Stdout)
			case "tree":
				enc = format.NewTreeEncoder(os.Stdout)
			default:
				return fmt.Errorf("unknown format: %s (expected json, yaml, or tree)", outputFormat)
			}

			if err := enc.Encode(node); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format (json, yaml, tree)")

	return cmd
}
