package main

import (
	"fmt"
	"os"

	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"pyas/pkg/lexer"
	"pyas/pkg/parser"
	"pyas/pkg/pyas"
)

var color bool

var rootCmd = &cobra.Command{
	Use:   "parser <rules> <source>",
	Short: "Print the code object tree parsed from a source file",
	Long: `parser lexes and parses <source> without assembling it and dumps the
resulting code objects. Pass "-" as <rules> to use the built-in rules.`,
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
		code, err := parser.Parse(tokens, string(src))
		if err != nil {
			return fmt.Errorf("parse error: %w", err)
		}

		printer := pp.New()
		printer.SetColoringEnabled(color)
		_, err = printer.Fprintln(cmd.OutOrStdout(), code)
		return err
	},
}

func init() {
	rootCmd.Flags().BoolVar(&color, "color", false, "colorize the dump")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "parser: %v\n", err)
		os.Exit(1)
	}
}
