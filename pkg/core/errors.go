package core

import (
	"errors"
	"fmt"
)

// ErrInvalidConnectionArguments is returned when a connection-string
// parameter fails to parse (for example a non-integer
// connection_limit).
var ErrInvalidConnectionArguments = errors.New("invalid connection arguments")

// InvalidDatabaseURLError is returned when a database address cannot
// identify a database, such as a file path that resolves to a
// directory.
type InvalidDatabaseURLError struct {
	URL string
}

func (e *InvalidDatabaseURLError) Error() string {
	return fmt.Sprintf("invalid database URL %q", e.URL)
}

// EngineError wraps a native engine diagnostic with the operation that
// produced it. Engine errors are returned to the caller unmodified
// apart from this wrapping; connectors never retry internally.
type EngineError struct {
	Op  string
	Err error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }
