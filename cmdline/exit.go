package cmdline

import (
	"context"
	"errors"
	"reflect"
)

// ExitCodeDefaults holds common default codes.
type ExitCodeDefaults struct {
	Success      int // default: 0
	GeneralError int // default: 1
	ParseError   int // default: 1
	Canceled     int // default: 130
}

// DefaultExitCodeDefaults returns the codes used when nothing else matches.
func DefaultExitCodeDefaults() ExitCodeDefaults {
	return ExitCodeDefaults{Success: 0, GeneralError: 1, ParseError: 1, Canceled: 130}
}

// ExitCodes maps errors to process exit codes.
type ExitCodes struct {
	codesByType  map[reflect.Type]int
	codesByParse map[ErrorType]int
	defaults     ExitCodeDefaults
}

// NewExitCodes returns a manager with the default codes.
func NewExitCodes() *ExitCodes {
	return &ExitCodes{
		codesByType:  make(map[reflect.Type]int),
		codesByParse: make(map[ErrorType]int),
		defaults:     DefaultExitCodeDefaults(),
	}
}

// DefineError maps a concrete error value (by its dynamic type) to an exit
// code. A matching error type takes precedence over the default codes but
// is secondary to an explicit ExitError.
func (e *ExitCodes) DefineError(err error, code int) *ExitCodes {
	if err == nil {
		return e
	}
	e.codesByType[reflect.TypeOf(err)] = code
	return e
}

// DefineParse overrides the exit code used when parse errors of typ are present.
func (e *ExitCodes) DefineParse(typ ErrorType, code int) *ExitCodes {
	e.codesByParse[typ] = code
	return e
}

// Default replaces the default codes.
func (e *ExitCodes) Default(d ExitCodeDefaults) *ExitCodes {
	e.defaults = d
	return e
}

// Defaults returns the default codes.
func (e *ExitCodes) Defaults() ExitCodeDefaults { return e.defaults }

// Resolve converts an error to an exit code.
// Precedence:
//  1. ExitError (requested code)
//  2. context cancellation
//  3. parse error category (DefineParse)
//  4. concrete error type (DefineError)
//  5. default codes
func (e *ExitCodes) Resolve(err error) int {
	if err == nil {
		return e.defaults.Success
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	if errors.Is(err, context.Canceled) {
		return e.defaults.Canceled
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		if code, ok := e.codesByParse[parseErr.Type]; ok {
			return code
		}
		return e.defaults.ParseError
	}

	for t, code := range e.codesByType {
		if errors.As(err, reflect.New(t).Interface()) {
			return code
		}
	}

	return e.defaults.GeneralError
}

// ResolveParseErrors returns the exit code for a set of parse errors. The
// first error with a mapped category decides.
func (e *ExitCodes) ResolveParseErrors(errs []*ParseError) int {
	for _, pe := range errs {
		if code, ok := e.codesByParse[pe.Type]; ok {
			return code
		}
	}
	return e.defaults.ParseError
}
