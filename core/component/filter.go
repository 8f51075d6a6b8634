package component

import (
	"fmt"
	"strings"

	"github.com/Raptacon/Robot-2020/core/hardware"
	"github.com/Raptacon/Robot-2020/core/logger"
)

// Policy decides components that declared no compatibility set.
type Policy int

const (
	Permit Policy = iota
	Deny
)

func (p Policy) String() string {
	if p == Deny {
		return "deny"
	}
	return "permit"
}

// ParsePolicy accepts "permit", "deny" or "" (permit).
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "permit":
		return Permit, nil
	case "deny":
		return Deny, nil
	}
	return Permit, fmt.Errorf("unknown compatibility policy %q", s)
}

// MissingDependencyError reports an active component whose dependency
// cannot be satisfied.
type MissingDependencyError struct {
	Component  string
	Dependency Dependency
	Reason     string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("component %s: %s dependency %q %s", e.Component, e.Dependency.Type, e.Dependency.Name, e.Reason)
}

// Entry is the filter decision for one component.
type Entry struct {
	Name string
	// Component is the declared instance.
	Component Component
	Active    bool
	// Stubbed lists the dependencies replaced by empty values.
	Stubbed []string
}

// Hooks returns what the loop should drive: the component itself when
// active, Noop otherwise.
func (e Entry) Hooks() Component {
	if e.Active {
		return e.Component
	}
	return Noop
}

// Result is the outcome of one filter pass, in declaration order.
type Result struct {
	Variant string
	Entries []Entry
}

// Components returns the hooks of every entry in declaration order.
func (r *Result) Components() []Component {
	out := make([]Component, len(r.Entries))
	for i, e := range r.Entries {
		out[i] = e.Hooks()
	}
	return out
}

// Active returns the names of enabled components.
func (r *Result) Active() []string { return r.names(true) }

// Disabled returns the names of disabled components.
func (r *Result) Disabled() []string { return r.names(false) }

func (r *Result) names(active bool) []string {
	var out []string
	for _, e := range r.Entries {
		if e.Active == active {
			out = append(out, e.Name)
		}
	}
	return out
}

// Lookup finds an entry by component name.
func (r *Result) Lookup(name string) (Entry, bool) {
	for _, e := range r.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Filter applies variant compatibility to component declarations.
type Filter struct {
	policy Policy
	log    logger.Logger
}

func NewFilter(policy Policy, log logger.Logger) *Filter {
	return &Filter{policy: policy, log: logger.OrNop(log)}
}

// Apply decides every declaration for variant, resolves dependencies
// against collections and injects them. Active components with an
// unsatisfiable dependency fail the whole pass. Disabled components get
// empty stand-ins for whatever cannot be resolved.
func (f *Filter) Apply(variant string, decls []Declaration, collections map[string]hardware.Collection) (*Result, error) {
	res := &Result{Variant: variant, Entries: make([]Entry, 0, len(decls))}
	byName := make(map[string]int, len(decls))
	for i, d := range decls {
		if d.Name == "" || d.Component == nil {
			return nil, fmt.Errorf("declaration %d: name and component are required", i)
		}
		if _, dup := byName[d.Name]; dup {
			return nil, fmt.Errorf("component %s declared twice", d.Name)
		}
		byName[d.Name] = i
		res.Entries = append(res.Entries, Entry{Name: d.Name, Component: d.Component, Active: f.decide(variant, d)})
	}

	for i, d := range decls {
		entry := &res.Entries[i]
		b := Bindings{
			Collections: make(map[string]hardware.Collection),
			Components:  make(map[string]Component),
		}
		for _, dep := range d.Dependencies {
			reason := ""
			switch dep.Type {
			case CollectionDependency:
				if c, ok := collections[dep.Name]; ok {
					b.Collections[dep.Name] = c
				} else {
					reason = "is not built"
					b.Collections[dep.Name] = hardware.Collection{}
				}
			case ComponentDependency:
				j, ok := byName[dep.Name]
				switch {
				case !ok:
					reason = "is not declared"
					b.Components[dep.Name] = Noop
				case entry.Active && !res.Entries[j].Active:
					reason = "is disabled"
				default:
					b.Components[dep.Name] = decls[j].Component
				}
			default:
				return nil, fmt.Errorf("component %s: dependency %q has unknown type %d", d.Name, dep.Name, int(dep.Type))
			}
			if reason == "" {
				continue
			}
			if entry.Active {
				return nil, &MissingDependencyError{Component: d.Name, Dependency: dep, Reason: reason}
			}
			entry.Stubbed = append(entry.Stubbed, dep.Name)
			f.log.Debugf("Stubbed %s dependency %q of disabled component %s", dep.Type, dep.Name, d.Name)
		}
		if inj, ok := d.Component.(Injectable); ok {
			if err := inj.Inject(b); err != nil {
				return nil, fmt.Errorf("inject %s: %w", d.Name, err)
			}
		}
	}

	f.log.Infof("Variant %s: %d component(s) active, %d disabled", variant, len(res.Active()), len(res.Disabled()))
	return res, nil
}

func (f *Filter) decide(variant string, d Declaration) bool {
	if !d.Compatibility.Declared() {
		f.log.Warnf("Component %s declares no compatibility; policy %s applies", d.Name, f.policy)
		return f.policy == Permit
	}
	if d.Compatibility.Allows(variant) {
		f.log.Infof("Component %s enabled for %s", d.Name, variant)
		return true
	}
	f.log.Infof("Component %s disabled: %s not in %v", d.Name, variant, []string(d.Compatibility))
	return false
}
