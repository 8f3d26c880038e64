// Package errors provides coded, actionable errors for head and headctl.
//
// Each code maps to a registered template with a category, a short message,
// a longer explanation and an optional hint:
//
//   - H001-H099: runtime (head client missing from a context)
//   - H100-H139: configuration files
//   - H140-H159: the headctl command
//
// # Usage
//
//	err := errors.New("H103").
//	    WithLocation("head.yaml", 12, 5).
//	    WithSuggestion("Add a title or meta field to the entry input")
//
//	errors.Fprint(os.Stderr, err)
//
// HeadError supports errors.Is by code and errors.As/Unwrap for the wrapped
// cause.
package errors
