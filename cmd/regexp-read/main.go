package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pyas/pkg/regex"
)

var rootCmd = &cobra.Command{
	Use:   "regexp-read <pattern>",
	Short: "Explain how a rule pattern is compiled",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		re, err := regex.Compile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "regexp-read: %v\n", err)
			os.Exit(1)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: %d groups\n", re, re.Len())
		if err := re.Describe(out); err != nil {
			fmt.Fprintf(os.Stderr, "regexp-read: %v\n", err)
			os.Exit(1)
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
