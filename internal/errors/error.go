package errors

import (
	"bufio"
	"fmt"
	"os"
)

// Category groups error codes.
type Category string

const (
	CategoryRuntime Category = "runtime"
	CategoryConfig  Category = "config"
	CategoryCLI     Category = "cli"
)

// Location is a position in a config or page file.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column,omitempty"`
}

// String returns the location as file:line[:column].
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// HeadError is a coded error with an explanation and a fix hint.
type HeadError struct {
	// Code is a unique identifier such as "H001".
	Code string

	Category Category

	// Message is a short description.
	Message string

	// Detail is a longer explanation.
	Detail string

	// Location points into the offending file, if any.
	Location *Location

	// Context holds the lines around Location.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Example shows the correct approach.
	Example string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *HeadError) Error() string {
	msg := e.Message
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	if e.Code != "" {
		return e.Code + ": " + msg
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *HeadError) Unwrap() error {
	return e.Wrapped
}

// Is matches another *HeadError with the same code, so callers can test
// errors.Is(err, errors.New("H001")).
func (e *HeadError) Is(target error) bool {
	t, ok := target.(*HeadError)
	return ok && t.Code != "" && t.Code == e.Code
}

// WithLocation adds a file position and reads the surrounding lines.
func (e *HeadError) WithLocation(file string, line, column int) *HeadError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, contextLines)
	return e
}

// WithSuggestion adds a fix suggestion.
func (e *HeadError) WithSuggestion(s string) *HeadError {
	e.Suggestion = s
	return e
}

// WithExample adds an example of the correct approach.
func (e *HeadError) WithExample(ex string) *HeadError {
	e.Example = ex
	return e
}

// WithDetail replaces the detailed explanation.
func (e *HeadError) WithDetail(d string) *HeadError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *HeadError) Wrap(err error) *HeadError {
	e.Wrapped = err
	return e
}

// contextLines is the number of file lines shown around a Location.
const contextLines = 5

func readContextLines(filename string, targetLine, contextSize int) []string {
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	startLine := contextStart(targetLine, contextSize)
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

// New creates a HeadError from a registered code.
func New(code string) *HeadError {
	template, ok := registry[code]
	if !ok {
		return &HeadError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &HeadError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
	}
}

// Newf creates an uncoded HeadError with a formatted message.
func Newf(category Category, format string, args ...any) *HeadError {
	return &HeadError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps err in a HeadError with code. A *HeadError is returned
// as is.
func FromError(err error, code string) *HeadError {
	if err == nil {
		return nil
	}
	if he, ok := err.(*HeadError); ok {
		return he
	}
	return New(code).Wrap(err)
}

func contextStart(line, size int) int {
	if start := line - size/2; start > 1 {
		return start
	}
	return 1
}
