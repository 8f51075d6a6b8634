package factory

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSealed is returned by Register once the initialization phase is over.
var ErrSealed = errors.New("registry sealed: registration after initialization")

// DuplicateTypeError reports a second registration of the same type name.
// It always indicates a programming error.
type DuplicateTypeError struct {
	Name string
}

func (e *DuplicateTypeError) Error() string {
	return fmt.Sprintf("type %q already registered", e.Name)
}

// UnknownTypeError reports a lookup of a type name nobody registered.
type UnknownTypeError struct {
	Name  string
	Known []string
}

func (e *UnknownTypeError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("unknown type %q", e.Name)
	}
	return fmt.Sprintf("unknown type %q (known: %s)", e.Name, strings.Join(e.Known, ", "))
}
