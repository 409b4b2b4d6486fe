package main

import (
	"fmt"
	"os"

	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"pyas/pkg/lexer"
	"pyas/pkg/pyas"
)

var (
	prettyPrint bool
	skipLayout  bool
)

var rootCmd = &cobra.Command{
	Use:   "lexer <rules> <source>",
	Short: "Print the tokens of a source file",
	Long: `lexer splits <source> into tokens with the rule file <rules> and prints
one token per line. Pass "-" as <rules> to use the built-in rules.`,
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		rulesPath := args[0]
		if rulesPath == "-" {
			rulesPath = ""
		}
		rs, err := pyas.LoadRules(rulesPath)
		if err != nil {
			return fmt.Errorf("rules error: %w", err)
		}
		src, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("read error: %w", err)
		}
		tokens, err := lexer.Lex(rs, string(src))
		if err != nil {
			return fmt.Errorf("lex error: %w", err)
		}

		out := cmd.OutOrStdout()
		if prettyPrint {
			printer := pp.New()
			printer.SetColoringEnabled(false)
			_, err := printer.Fprintln(out, visible(tokens))
			return err
		}
		for _, tok := range visible(tokens) {
			fmt.Fprintln(out, tok)
		}
		return nil
	},
}

func visible(tokens []lexer.Token) []lexer.Token {
	if !skipLayout {
		return tokens
	}
	var kept []lexer.Token
	for _, tok := range tokens {
		if tok.Matches("structure::*") {
			continue
		}
		kept = append(kept, tok)
	}
	return kept
}

func init() {
	rootCmd.Flags().BoolVar(&prettyPrint, "pp", false, "dump tokens as Go values")
	rootCmd.Flags().BoolVarP(&skipLayout, "skip-layout", "s", false, "omit blank, newline and comment tokens")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "lexer: %v\n", err)
		os.Exit(1)
	}
}
