// Package pyas runs the whole toolchain: lex, parse, assemble and write a
// .pyc file.
package pyas

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"pyas/pkg/asm"
	"pyas/pkg/lexer"
	"pyas/pkg/marshal"
	"pyas/pkg/parser"
	"pyas/pkg/pyobj"
	"pyas/pkg/utils"
	"pyas/rules"
)

// Options tune a build. The zero value is usable.
type Options struct {
	StrictLineTable bool
	Logger          *log.Logger
	// ModTime is stored in the .pyc header. Zero means the source file's
	// modification time.
	ModTime time.Time
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard, "", 0)
}

// Compile lexes, parses and assembles src.
func Compile(rs []lexer.Rule, src string, opts Options) (*pyobj.Code, error) {
	logger := opts.logger()

	tokens, err := lexer.Lex(rs, src)
	if err != nil {
		return nil, fmt.Errorf("lex error: %w", err)
	}
	logger.Printf("lexed %d tokens", len(tokens))

	code, err := parser.Parse(tokens, src)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	a := asm.NewAssembler()
	a.StrictLineTable = opts.StrictLineTable
	a.Logger = logger
	if err := a.Assemble(code); err != nil {
		return nil, fmt.Errorf("assembly error: %w", err)
	}
	return code, nil
}

// LoadRules reads a rule file, or the built-in rules when path is empty.
func LoadRules(path string) ([]lexer.Rule, error) {
	if path == "" {
		return rules.Default()
	}
	return lexer.LoadRules(path)
}

// Build compiles srcPath with the rules in rulesPath and writes the .pyc to
// outPath. Nothing is written unless every stage succeeds.
func Build(rulesPath, srcPath, outPath string, opts Options) (*pyobj.Code, error) {
	rs, err := LoadRules(rulesPath)
	if err != nil {
		return nil, fmt.Errorf("rules error: %w", err)
	}

	src, err := os.ReadFile(srcPath)
	if err != nil {
		return nil, fmt.Errorf("read error: %w", err)
	}

	code, err := Compile(rs, string(src), opts)
	if err != nil {
		return nil, err
	}

	mtime := opts.ModTime
	if mtime.IsZero() {
		if fi, err := os.Stat(srcPath); err == nil {
			mtime = fi.ModTime()
		} else {
			mtime = time.Now()
		}
	}

	var buf bytes.Buffer
	if err := marshal.WriteFile(&buf, code, mtime); err != nil {
		return nil, fmt.Errorf("write error: %w", err)
	}
	if err := utils.WriteFileAtomic(outPath, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("write error: %w", err)
	}
	opts.logger().Printf("wrote %d bytes to %s", buf.Len(), outPath)
	return code, nil
}
