// errors.go — diagnostic types and caret-snippet rendering.
//
// Each pipeline stage reports failures with its own error type so callers can
// tell a static diagnostic from a runtime one: *LexError and *ParseError from
// the front end, *ResolveError from the static pass, *RuntimeError from
// execution. All carry a 1-based Line and Col.
//
// Static errors are collected, not fail-fast, so a run may surface several.
// ErrorList aggregates them while still being a plain error.
//
// WrapErrorWithSource upgrades any of these into a multi-line snippet with a
// caret under the offending column:
//
//	PARSE ERROR at 3:12: Expect ')' after expression.
//
//	   2 | var x = (1 + 2
//	   3 |              ;
//	       |            ^
//	   4 | print x;
package lox

import (
	"fmt"
	"strings"
)

// LexError is a scan-time failure (unexpected character, unterminated
// string). Col is 0-based internally, matching Token.Col.
type LexError struct {
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("LEXICAL ERROR at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// ParseError is a syntax failure at a specific token.
type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("PARSE ERROR at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// ResolveError is a static semantic failure found before execution.
type ResolveError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("RESOLVE ERROR at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// RuntimeError aborts execution; only the first one is ever produced.
type RuntimeError struct {
	Line int
	Col  int
	Msg  string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("RUNTIME ERROR at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// ErrorList aggregates the static diagnostics of one run.
type ErrorList []error

func (el ErrorList) Error() string {
	msgs := make([]string, len(el))
	for i, e := range el {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

// Err returns the list as an error, or nil when it is empty.
func (el ErrorList) Err() error {
	if len(el) == 0 {
		return nil
	}
	return el
}

// runtimeErr builds a *RuntimeError located at the given token.
func runtimeErr(tok Token, format string, args ...interface{}) error {
	return &RuntimeError{Line: tok.Line, Col: tok.Col, Msg: fmt.Sprintf(format, args...)}
}

/* ===========================
   Caret snippets
   =========================== */

// WrapErrorWithSource returns an error whose message includes a caret-marked
// snippet of src. Knowing error kinds are rendered with a header; an
// ErrorList is rendered entry by entry; anything else passes through.
func WrapErrorWithSource(err error, src string) error {
	switch e := err.(type) {
	case *LexError:
		return fmt.Errorf("%s", snippet(src, "LEXICAL ERROR", e.Line, e.Col+1, e.Msg))
	case *ParseError:
		return fmt.Errorf("%s", snippet(src, "PARSE ERROR", e.Line, e.Col+1, e.Msg))
	case *ResolveError:
		return fmt.Errorf("%s", snippet(src, "RESOLVE ERROR", e.Line, e.Col+1, e.Msg))
	case *RuntimeError:
		return fmt.Errorf("%s", snippet(src, "RUNTIME ERROR", e.Line, e.Col+1, e.Msg))
	case ErrorList:
		parts := make([]string, len(e))
		for i, sub := range e {
			parts[i] = WrapErrorWithSource(sub, src).Error()
		}
		return fmt.Errorf("%s", strings.Join(parts, "\n"))
	default:
		return err
	}
}

// snippet builds a Python-like excerpt with a header and a caret. It shows at
// most one previous and one next line. Coordinates are 1-based and clamped to
// the source bounds so malformed positions never crash rendering.
func snippet(src, header string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	caretPad := col - 1
	if caretPad > len(lineTxt) {
		caretPad = len(lineTxt)
	}
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", caretPad))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
