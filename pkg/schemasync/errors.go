// pkg/schemasync/errors.go
package schemasync

import (
	"errors"
	"fmt"
)

// ErrModelNotReady is returned by every query operation invoked on a model
// that has not completed registration.
var ErrModelNotReady = errors.New("schemasync: model is not registered")

// DatabaseError wraps an error surfaced by the database driver during an
// operation. The driver error is carried unchanged and reachable through
// errors.Unwrap; validation and schema errors are never wrapped in it.
type DatabaseError struct {
	Op  string // the operation that failed, e.g. "insert", "register"
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("schemasync: %s: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error { return e.Err }

func dbErr(op string, err error) *DatabaseError {
	return &DatabaseError{Op: op, Err: err}
}
