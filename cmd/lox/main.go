// Command lox runs a Lox script or starts an interactive session.
//
//	lox <script.lox>   execute a file
//	lox                read-execute loop on stdin
//
// Exit codes follow the usual interpreter convention: 65 for static
// (scan/parse/resolve) errors, 70 for a runtime error, 64 for usage errors.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	lox "github.com/hahn324/lox-treewalk"
)

const (
	appName     = "lox"
	historyFile = ".lox_history"
	prompt      = "> "

	exitUsage   = 64
	exitStatic  = 65
	exitRuntime = 70
)

func red(s string) string { return "\x1b[31m" + s + "\x1b[0m" }

func main() {
	switch len(os.Args) {
	case 1:
		os.Exit(runPrompt())
	case 2:
		os.Exit(runFile(os.Args[1]))
	default:
		fmt.Fprintf(os.Stderr, "Usage: %s [script]\n", appName)
		os.Exit(exitUsage)
	}
}

func runFile(path string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, path, err)
		return exitUsage
	}

	ip := lox.NewInterpreter()
	if err := ip.Run(string(src)); err != nil {
		fmt.Fprintln(os.Stderr, red(lox.WrapErrorWithSource(err, string(src)).Error()))
		var rt *lox.RuntimeError
		if errors.As(err, &rt) {
			return exitRuntime
		}
		return exitStatic
	}
	return 0
}

// runPrompt reads one line of source at a time, executing each immediately
// against a persistent interpreter. An empty line or EOF ends the session;
// errors in a line do not.
func runPrompt() int {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	ip := lox.NewInterpreter()

	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Println()
			return 0
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			return 0
		}
		if strings.TrimSpace(line) == "" {
			return 0
		}

		if strings.HasPrefix(strings.TrimSpace(line), ":") {
			if !replCommand(line) {
				return 0
			}
			ln.AppendHistory(line)
			continue
		}

		if err := ip.Run(line); err != nil {
			fmt.Fprintln(os.Stderr, red(lox.WrapErrorWithSource(err, line).Error()))
		}
		ln.AppendHistory(line)
	}
}

// replCommand handles ":" commands; it reports false when the session
// should end.
func replCommand(line string) bool {
	trimmed := strings.TrimSpace(line)
	cmd, rest, _ := strings.Cut(trimmed, " ")
	switch cmd {
	case ":quit":
		return false
	case ":ast":
		stmts, errs := lox.Parse(rest)
		if len(errs) > 0 {
			fmt.Fprintln(os.Stderr, red(lox.ErrorList(errs).Error()))
			return true
		}
		for _, st := range stmts {
			fmt.Println(lox.PrintStmtAST(st))
		}
		return true
	default:
		fmt.Printf("unknown command %q. Type :quit to exit.\n", cmd)
		return true
	}
}
