package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gnolang/rxgen/formatter"
	"github.com/gnolang/rxgen/pattern"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens PATTERN",
	Short: "Print the token stream of a pattern",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runTokens(cmd.OutOrStdout(), args[0]); err != nil {
			fmt.Fprint(os.Stderr, formatter.FormatError(args[0], err))
			os.Exit(1)
		}
	},
}

var astCmd = &cobra.Command{
	Use:   "ast PATTERN",
	Short: "Print the syntax tree of a pattern",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runAST(cmd.OutOrStdout(), args[0]); err != nil {
			fmt.Fprint(os.Stderr, formatter.FormatError(args[0], err))
			os.Exit(1)
		}
	},
}

func runTokens(w io.Writer, source string) error {
	tokens, err := pattern.NewLexer(source).Tokenize()
	if err != nil {
		return err
	}
	fmt.Fprint(w, formatter.FormatTokens(tokens))
	return nil
}

func runAST(w io.Writer, source string) error {
	ast, err := pattern.Compile(source)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, ast)
	return nil
}
