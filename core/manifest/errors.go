package manifest

import (
	"fmt"
	"strings"
)

// UnsupportedFormatError reports a manifest whose extension or declared
// format has no parser.
type UnsupportedFormatError struct {
	File   string
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("manifest %s: unsupported format %q (supported: json, yaml)", e.File, e.Format)
}

// MissingFileError reports a manifest that does not exist.
type MissingFileError struct {
	File string
	Dir  string
	Err  error
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("manifest %s not found in %s", e.File, e.Dir)
}

func (e *MissingFileError) Unwrap() error { return e.Err }

// CyclicReferenceError reports a reference back to a file already on the
// current load chain.
type CyclicReferenceError struct {
	Chain []string
}

func (e *CyclicReferenceError) Error() string {
	return fmt.Sprintf("cyclic manifest reference: %s", strings.Join(e.Chain, " -> "))
}

// MalformedError reports a document that does not have the expected shape.
type MalformedError struct {
	File      string
	Subsystem string
	Group     string
	Item      string
	Reason    string
}

func (e *MalformedError) Error() string {
	path := e.Subsystem
	for _, p := range []string{e.Group, e.Item} {
		if p != "" {
			path += "." + p
		}
	}
	return fmt.Sprintf("manifest %s: %s: %s", e.File, path, e.Reason)
}
