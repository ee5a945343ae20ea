package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/grampa/lex"
)

func newTokensCmd() *cobra.Command {
	var includeWhitespace bool

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Dump the token stream for an input file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input []byte
			var err error
			if len(args) == 1 {
				input, err = os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("read file: %w", err)
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

			for _, tok := range tokens {
				if !includeWhitespace && tok.Kind == lex.TokenWhitespace {
					continue
				}
				fmt.Println(tok)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&includeWhitespace, "whitespace", false, "include whitespace tokens in the dump")

	return cmd
}
