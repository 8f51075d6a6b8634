package build

import (
	"fmt"
	"strings"
)

// ItemError attaches the manifest location to a failure while building one
// item. Unknown types surface as an ItemError wrapping
// *factory.UnknownTypeError.
type ItemError struct {
	Subsystem string
	Group     string
	Item      string
	Err       error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("%s/%s/%s: %v", e.Subsystem, e.Group, e.Item, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }

// MissingRequiredKeyError reports a descriptor lacking fields its type
// requires.
type MissingRequiredKeyError struct {
	Subsystem  string
	Group      string
	Item       string
	Type       string
	Missing    []string
	Descriptor map[string]any
}

func (e *MissingRequiredKeyError) Error() string {
	return fmt.Sprintf("%s/%s/%s: type %s requires %s; got %v",
		e.Subsystem, e.Group, e.Item, e.Type, strings.Join(e.Missing, ", "), e.Descriptor)
}

// MissingMasterError reports a follower whose master channel has no built
// object of the same family.
type MissingMasterError struct {
	Subsystem string
	Group     string
	Item      string
	Family    string
	Channel   string
}

func (e *MissingMasterError) Error() string {
	return fmt.Sprintf("%s/%s/%s: no %s master on channel %s", e.Subsystem, e.Group, e.Item, e.Family, e.Channel)
}
