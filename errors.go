package financechat

import (
	"errors"
	"fmt"
)

// ParseReason tells why a message could not be turned into a transaction.
type ParseReason int

const (
	// NoAmount means no monetary value was found in the message.
	NoAmount ParseReason = iota + 1
	// InvalidAmount means the value found is not a positive number.
	InvalidAmount
	// NoDestination means a transfer does not name a known destination account.
	NoDestination
	// UnrecognizedKind means no keyword identifies the kind of transaction.
	UnrecognizedKind
)

func (r ParseReason) String() string {
	switch r {
	case NoAmount:
		return "Valor não encontrado na transação."
	case InvalidAmount:
		return "Valor inválido."
	case NoDestination:
		return "Banco de destino não encontrado."
	case UnrecognizedKind:
		return "Tipo de transação não reconhecido."
	default:
		return "motivo desconhecido"
	}
}

// ParseError is returned by the parser when a message is not a transaction.
type ParseError struct {
	Reason ParseReason
	Input  string
}

func (e *ParseError) Error() string {
	return e.Reason.String()
}

// Is matches any ParseError with the same reason, so that the sentinels below
// can be used with errors.Is.
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	return ok && t.Reason == e.Reason
}

// Sentinel parse errors, to be used with errors.Is.
var (
	ErrNoAmount         = &ParseError{Reason: NoAmount}
	ErrInvalidAmount    = &ParseError{Reason: InvalidAmount}
	ErrNoDestination    = &ParseError{Reason: NoDestination}
	ErrUnrecognizedKind = &ParseError{Reason: UnrecognizedKind}
)

// NotFoundError is returned when an amendment targets an unknown investment.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("investment %q not found", e.ID)
}

// PersistenceError wraps a failure to read or write the durable state.
// The in-memory state remains valid when it happens.
type PersistenceError struct {
	Op  string // "load" or "save"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("cannot %s state: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ImportError describes a row (or a whole file when Line is 0) that could not be imported.
type ImportError struct {
	Line int
	Err  error
}

func (e *ImportError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("import: %v", e.Err)
	}
	return fmt.Sprintf("import line %d: %v", e.Line, e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }

// errNegativeValue is returned when an investment is marked with a negative value.
var errNegativeValue = errors.New("investment value cannot be negative")
