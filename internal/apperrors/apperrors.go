package apperrors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// PreconditionError is a violated business rule. Its message is surfaced
// to the caller verbatim with HTTP 400.
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string {
	return e.Message
}

func Precondition(format string, args ...any) error {
	return &PreconditionError{Message: fmt.Sprintf(format, args...)}
}

func IsPrecondition(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// IsUniqueViolation reports whether err is a duplicate-key violation,
// optionally on a specific constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || string(pqErr.Code) != pqUniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

// Rewrite maps persistence-layer constraint violations to the
// user-facing messages the API promises. Anything else passes through.
func Rewrite(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch string(pqErr.Code) {
	case pqUniqueViolation:
		return Precondition("%s is taken", constraintField(pqErr.Constraint))
	case pqForeignKeyViolation:
		return Precondition("no product found")
	}
	return err
}

// constraintField extracts the column name from constraint names of the
// form <table>_<field>_key.
func constraintField(constraint string) string {
	if constraint == "" {
		return "value"
	}
	s := strings.TrimSuffix(constraint, "_key")
	if i := strings.Index(s, "_"); i >= 0 {
		return s[i+1:]
	}
	return s
}
