package cmdline

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents error categories raised while tokenizing and parsing.
// These categories drive exit-code mapping (see ExitCodes).
type ErrorType string

const (
	ErrorTypeUnmatchedToken   ErrorType = "unmatched_token"
	ErrorTypeMissingCommand   ErrorType = "missing_command"
	ErrorTypeMissingRequired  ErrorType = "missing_required"
	ErrorTypeMissingArgument  ErrorType = "missing_argument"
	ErrorTypeTooManyArguments ErrorType = "too_many_arguments"
	ErrorTypeInvalidValue     ErrorType = "invalid_value"
	ErrorTypeValidation       ErrorType = "validation"
	ErrorTypeResponseFile     ErrorType = "response_file"
)

// ParseError is an error collected on a ParseResult. Parse errors are
// accumulated, never returned from Parse.
type ParseError struct {
	Type    ErrorType
	Message string
	// SymbolResult is the offending result; nil for tokenizer errors.
	SymbolResult SymbolResult
}

func (e *ParseError) Error() string {
	return e.Message
}

// NewParseError creates a new ParseError with the given type and message.
func NewParseError(errType ErrorType, message string, result SymbolResult) *ParseError {
	return &ParseError{Type: errType, Message: message, SymbolResult: result}
}

// TokenizeError reports a malformed or unreadable response file.
type TokenizeError struct {
	Message string
	Token   string
	Err     error
}

func (e *TokenizeError) Error() string { return e.Message }

func (e *TokenizeError) Unwrap() error { return e.Err }

// ParseErrors is returned by helpers that need the parse errors as one error.
type ParseErrors []*ParseError

func (e ParseErrors) Error() string {
	msgs := make([]string, len(e))
	for i, pe := range e {
		msgs[i] = pe.Message
	}
	return strings.Join(msgs, "\n")
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (e ParseErrors) Unwrap() []error {
	out := make([]error, len(e))
	for i, pe := range e {
		out[i] = pe
	}
	return out
}

var (
	// ErrHelpShown is returned by the help middleware after rendering help.
	ErrHelpShown = errors.New("help shown")
	// ErrVersionShown is returned by the version middleware after printing the version.
	ErrVersionShown = errors.New("version shown")
)

// ExitError requests termination with a specific exit code. Middleware
// return it up the chain to short-circuit invocation.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Exit returns an ExitError carrying code.
func Exit(code int) *ExitError { return &ExitError{Code: code} }

// ExitWithError returns an ExitError carrying code and err.
func ExitWithError(err error, code int) *ExitError { return &ExitError{Code: code, Err: err} }
