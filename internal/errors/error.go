package errors

import (
	"bufio"
	"fmt"
	"os"
)

// Category represents the type of error.
type Category string

const (
	CategoryRender   Category = "render"
	CategoryFixture  Category = "fixture"
	CategoryConfig   Category = "config"
	CategorySnapshot Category = "snapshot"
	CategoryServer   Category = "server"
	CategoryCLI      Category = "cli"
)

// Location represents a source location inside a fixture or config file.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// PatchworkError is a structured error with a code, location and hints.
type PatchworkError struct {
	// Code is a unique error identifier (e.g., "E101").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the file location where the error occurred, if any.
	Location *Location

	// Context contains surrounding source lines.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *PatchworkError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *PatchworkError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a PatchworkError with the same code.
func (e *PatchworkError) Is(target error) bool {
	t, ok := target.(*PatchworkError)
	if !ok || t.Code == "" {
		return false
	}
	return t.Code == e.Code
}

// WithLocation adds a file location to the error and reads the lines around it.
func (e *PatchworkError) WithLocation(file string, line, column int) *PatchworkError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, 5)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *PatchworkError) WithSuggestion(s string) *PatchworkError {
	e.Suggestion = s
	return e
}

// WithDetail replaces the template detail.
func (e *PatchworkError) WithDetail(d string) *PatchworkError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *PatchworkError) Wrap(err error) *PatchworkError {
	e.Wrapped = err
	return e
}

func readContextLines(filename string, targetLine, contextSize int) []string {
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	startLine := targetLine - contextSize/2
	endLine := targetLine + contextSize/2

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}

	return lines
}

// New creates a PatchworkError from a registered error code.
func New(code string) *PatchworkError {
	template, ok := registry[code]
	if !ok {
		return &PatchworkError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &PatchworkError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a new PatchworkError with a formatted message and no code.
func Newf(category Category, format string, args ...any) *PatchworkError {
	return &PatchworkError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps err under code unless it already is a PatchworkError.
func FromError(err error, code string) *PatchworkError {
	if err == nil {
		return nil
	}
	if pe, ok := err.(*PatchworkError); ok {
		return pe
	}
	return New(code).Wrap(err)
}

// Code returns the code of the first PatchworkError in err's chain, or "".
func Code(err error) string {
	for err != nil {
		if pe, ok := err.(*PatchworkError); ok && pe.Code != "" {
			return pe.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}
