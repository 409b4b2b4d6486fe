package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"pyas/pkg/asm"
	"pyas/pkg/parser"
	"pyas/pkg/pyas"
)

var (
	strictLnotab bool
	disasm       bool
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "pyas <rules> <source> <output>",
	Short: "Assemble Python 2.7 bytecode assembly into a .pyc file",
	Long: `pyas lexes <source> with the rule file <rules>, assembles every code
object it describes and writes the marshalled module to <output>.
Pass "-" as <rules> to use the built-in rules.`,
	Args:          cobra.ExactArgs(3),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().BoolVar(&strictLnotab, "strict-lnotab", false, "fail when the line number table cannot encode a line change")
	rootCmd.Flags().BoolVar(&disasm, "disasm", false, "print a disassembly of the result to stdout")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log each stage to stderr")
}

func run(cmd *cobra.Command, args []string) error {
	rulesPath, srcPath, outPath := args[0], args[1], args[2]
	if rulesPath == "-" {
		rulesPath = ""
	}

	// Warnings always reach stderr; stage chatter only with --verbose.
	logger := log.New(os.Stderr, "pyas: ", 0)
	opts := pyas.Options{StrictLineTable: strictLnotab, Logger: logger}
	if !verbose {
		opts.Logger = log.New(warningsOnly{os.Stderr}, "pyas: ", 0)
	}

	code, err := pyas.Build(rulesPath, srcPath, outPath, opts)
	if err != nil {
		return err
	}

	if disasm {
		if err := asm.Disassemble(cmd.OutOrStdout(), code); err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "assembled %d bytes -> %s\n", len(code.Bytecode), outPath)
	return nil
}

// warningsOnly passes through log lines that start with "warning:".
type warningsOnly struct{ w io.Writer }

func (f warningsOnly) Write(p []byte) (int, error) {
	if bytes.HasPrefix(p, []byte("pyas: warning:")) {
		return f.w.Write(p)
	}
	return len(p), nil
}

// report prints err on one line. With --verbose a parse error is followed by
// the source line it points at.
func report(w io.Writer, err error) {
	fmt.Fprintf(w, "pyas: %v\n", err)
	var pe *parser.Error
	if verbose && errors.As(err, &pe) && pe.Snippet != "" {
		fmt.Fprintf(w, "pyas:   |> %s\n", pe.Snippet)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		report(os.Stderr, err)
		os.Exit(1)
	}
}
