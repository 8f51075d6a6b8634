package factory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mitchellh/mapstructure"
)

// ModuleConfig contains the type name and raw configuration for a module.
type ModuleConfig struct {
	Type string         `json:"type"`
	Conf map[string]any `json:"conf"`
}

// Args is what a constructor receives.
type Args[T any] struct {
	// Desc holds the descriptor fields left once the type is removed. It is
	// nil for zero-configuration descriptors.
	Desc map[string]any
	// Master is the already built object a follower registration mirrors.
	Master T
}

// Factory constructs an implementation of T from its arguments.
type Factory[T any] func(Args[T]) (T, error)

// Registration is the construction contract of one type name.
type Registration[T any] struct {
	Name string
	// Required lists the descriptor fields that must be present.
	Required []string
	// Family groups objects sharing a channel namespace. Non-follower members
	// are indexed by their "channel" field so followers can find them.
	Family string
	// Follows names the descriptor field holding the master's channel. It is
	// only set on follower registrations, which are built after every master.
	Follows string
	New     Factory[T]
}

// Follower reports whether the registration mirrors a master object.
func (r Registration[T]) Follower() bool { return r.Follows != "" }

// Missing returns the sorted required fields absent from desc.
func (r Registration[T]) Missing(desc map[string]any) []string {
	var missing []string
	for _, f := range r.Required {
		if _, ok := desc[f]; !ok {
			missing = append(missing, f)
		}
	}
	sort.Strings(missing)
	return missing
}

// Registry stores registrations keyed by type name.
type Registry[T any] struct {
	mu      sync.RWMutex
	entries map[string]Registration[T]
	sealed  bool
}

// NewRegistry returns an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{entries: make(map[string]Registration[T])}
}

// Register adds a registration. The first registration of a name wins; a
// second one fails with DuplicateTypeError.
func (r *Registry[T]) Register(reg Registration[T]) error {
	if reg.Name == "" {
		return fmt.Errorf("registration without a type name")
	}
	if reg.New == nil {
		return fmt.Errorf("factory nil for %s", reg.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return fmt.Errorf("register %s: %w", reg.Name, ErrSealed)
	}
	if _, ok := r.entries[reg.Name]; ok {
		return &DuplicateTypeError{Name: reg.Name}
	}
	reg.Required = append([]string(nil), reg.Required...)
	r.entries[reg.Name] = reg
	return nil
}

// Seal ends the initialization phase. It is idempotent.
func (r *Registry[T]) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

// Sealed reports whether Seal was called.
func (r *Registry[T]) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// Resolve returns the registration bound to name.
func (r *Registry[T]) Resolve(name string) (Registration[T], error) {
	r.mu.RLock()
	reg, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		return Registration[T]{}, &UnknownTypeError{Name: name, Known: r.Names()}
	}
	return reg, nil
}

// Names returns the registered type names in sorted order.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for n := range r.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Create instantiates a module based on its configuration. It is meant for
// registrations without followers, such as metrics sinks.
func (r *Registry[T]) Create(cfg ModuleConfig) (T, error) {
	var zero T
	reg, err := r.Resolve(cfg.Type)
	if err != nil {
		return zero, err
	}
	if missing := reg.Missing(cfg.Conf); len(missing) > 0 {
		return zero, fmt.Errorf("%s: missing required keys %v", cfg.Type, missing)
	}
	var desc map[string]any
	if len(cfg.Conf) > 0 {
		desc = cfg.Conf
	}
	return reg.New(Args[T]{Desc: desc})
}

// Decode fills out the provided struct using json tags. Numeric fields are
// decoded weakly so JSON floats and YAML integers are interchangeable.
func Decode(data map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(data)
}
