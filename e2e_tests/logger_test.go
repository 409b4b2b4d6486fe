package main

import (
	"io"
	"log"
)

func newLogger(w io.Writer) *log.Logger {
	return log.New(w, "e2e: ", 0)
}
