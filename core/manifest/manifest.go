package manifest

import (
	"sort"
	"strings"
)

// Reserved top-level keys.
const (
	KeyDefault       = "default"
	KeyVariants      = "variants"
	KeyCompatibility = "compatibility"

	keyFile   = "file"
	keyFormat = "format"
	// KeyType is the descriptor field naming the hardware type.
	KeyType = "type"
)

func reserved(key string) bool {
	switch key {
	case KeyDefault, KeyVariants, KeyCompatibility:
		return true
	}
	return false
}

// Descriptor describes one hardware item: its type plus type specific fields.
type Descriptor map[string]any

// Type returns the descriptor's type name.
func (d Descriptor) Type() string {
	t, _ := d[KeyType].(string)
	return t
}

// Clone returns a deep copy of d.
func (d Descriptor) Clone() Descriptor {
	if d == nil {
		return nil
	}
	return Descriptor(cloneMap(d))
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// Group maps item names to descriptors.
type Group map[string]Descriptor

// Subsystem maps group names to groups.
type Subsystem map[string]Group

// Manifest is a parsed, merged hardware manifest.
type Manifest struct {
	// File is the document the manifest was loaded from.
	File string
	// Default is the default variant declared by the document, if any.
	Default string
	// Compatibility lists the variants the document declares it serves.
	Compatibility []string
	Subsystems    map[string]Subsystem

	variants map[string]string
}

// Variants returns the variant names of the variant → document mapping.
func (m *Manifest) Variants() []string {
	names := make([]string, 0, len(m.variants))
	for v := range m.variants {
		names = append(names, v)
	}
	sort.Strings(names)
	return names
}

// VariantDocument returns the document bound to variant v.
func (m *Manifest) VariantDocument(v string) (string, bool) {
	doc, ok := m.variants[strings.ToLower(v)]
	return doc, ok
}

// Count returns the number of item descriptors.
func (m *Manifest) Count() int {
	n := 0
	for _, sub := range m.Subsystems {
		for _, grp := range sub {
			n += len(grp)
		}
	}
	return n
}

// Walk visits every descriptor in sorted subsystem, group, item order and
// stops at the first error returned by fn.
func (m *Manifest) Walk(fn func(subsystem, group, item string, d Descriptor) error) error {
	for _, sname := range sortedKeys(m.Subsystems) {
		sub := m.Subsystems[sname]
		for _, gname := range sortedKeys(sub) {
			grp := sub[gname]
			for _, iname := range sortedKeys(grp) {
				if err := fn(sname, gname, iname, grp[iname]); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
