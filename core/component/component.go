// Package component holds the control component contract and the filter
// that enables or disables components for a robot variant.
package component

import (
	"strings"

	"github.com/Raptacon/Robot-2020/core/hardware"
)

// Component is a control unit driven by the robot loop.
type Component interface {
	Setup() error
	OnEnable()
	Execute()
}

// Injectable components receive their declared dependencies before Setup.
type Injectable interface {
	Inject(Bindings) error
}

type noop struct{}

func (noop) Setup() error { return nil }
func (noop) OnEnable()    {}
func (noop) Execute()     {}

// Noop is the shared component whose hooks do nothing. Disabled components
// run as Noop.
var Noop Component = noop{}

// All is the compatibility entry matching every variant.
const All = "all"

// Compatibility lists the variants a component runs on. A nil value means
// the component declared nothing and the filter policy decides.
type Compatibility []string

// Declared reports whether a set was declared at all.
func (c Compatibility) Declared() bool { return c != nil }

// Allows reports whether variant is in the set or the set holds All. Matching
// ignores case.
func (c Compatibility) Allows(variant string) bool {
	for _, v := range c {
		if strings.EqualFold(v, All) || strings.EqualFold(v, variant) {
			return true
		}
	}
	return false
}

// DependencyType is the declared type of a dependency.
type DependencyType int

const (
	// CollectionDependency is a built hardware collection named by compound key.
	CollectionDependency DependencyType = iota + 1
	// ComponentDependency is another declared component.
	ComponentDependency
)

func (t DependencyType) String() string {
	switch t {
	case CollectionDependency:
		return "collection"
	case ComponentDependency:
		return "component"
	}
	return "unknown"
}

// Dependency names something a component needs injected.
type Dependency struct {
	Name string
	Type DependencyType
}

// Collection declares a dependency on a hardware collection.
func Collection(key string) Dependency {
	return Dependency{Name: key, Type: CollectionDependency}
}

// On declares a dependency on another component.
func On(name string) Dependency {
	return Dependency{Name: name, Type: ComponentDependency}
}

// Declaration is what a component states about itself to the filter.
type Declaration struct {
	Name          string
	Component     Component
	Compatibility Compatibility
	Dependencies  []Dependency
}

// Bindings carries the resolved dependencies of one component.
type Bindings struct {
	Collections map[string]hardware.Collection
	Components  map[string]Component
}

// Collection returns the bound collection, or an empty one.
func (b Bindings) Collection(key string) hardware.Collection {
	if c, ok := b.Collections[key]; ok && c != nil {
		return c
	}
	return hardware.Collection{}
}

// Component returns the bound component, or Noop.
func (b Bindings) Component(name string) Component {
	if c, ok := b.Components[name]; ok && c != nil {
		return c
	}
	return Noop
}
