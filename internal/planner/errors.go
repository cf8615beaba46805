package planner

import (
	"errors"
	"fmt"
	"strings"

	"wanderai/pkg/llm"
)

var (
	ErrInvalidRequest       = errors.New("invalid trip request")
	ErrAllBackendsExhausted = errors.New("all generation backends exhausted")
	ErrNoJSONFound          = errors.New("no json object found in model response")
	ErrSchemaInvalid        = errors.New("model response does not match plan schema")
)

// ExhaustedError lists the last failure of every candidate that was tried.
type ExhaustedError struct {
	Failures []*llm.BackendError
}

func (e *ExhaustedError) Error() string {
	if len(e.Failures) == 0 {
		return ErrAllBackendsExhausted.Error() + ": no candidates"
	}
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s (%s)", f.Backend, f.Reason))
	}
	return ErrAllBackendsExhausted.Error() + ": " + strings.Join(parts, ", ")
}

func (e *ExhaustedError) Is(target error) bool { return target == ErrAllBackendsExhausted }
