// Package build turns a parsed manifest into named collections of hardware
// objects.
package build

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/Raptacon/Robot-2020/core/factory"
	"github.com/Raptacon/Robot-2020/core/hardware"
	"github.com/Raptacon/Robot-2020/core/logger"
	"github.com/Raptacon/Robot-2020/core/manifest"
)

// CompoundKey names the collection of one group within one subsystem.
func CompoundKey(group, subsystem string) string {
	return group + "_" + subsystem
}

// Collections maps compound keys to their built objects.
type Collections map[string]hardware.Collection

// Keys returns the compound keys in sorted order.
func (c Collections) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Count returns the number of objects across all collections.
func (c Collections) Count() int {
	n := 0
	for _, col := range c {
		n += len(col)
	}
	return n
}

// Close stops every controller sampler.
func (c Collections) Close() {
	for _, col := range c {
		for _, obj := range col {
			if ctl, ok := obj.(*hardware.Controller); ok {
				ctl.Stop()
			}
		}
	}
}

// Builder constructs objects through a type registry.
type Builder struct {
	reg *factory.Registry[hardware.Object]
	log logger.Logger
}

func New(reg *factory.Registry[hardware.Object], log logger.Logger) *Builder {
	return &Builder{reg: reg, log: logger.OrNop(log)}
}

type pending struct {
	subsystem, group, item string
	reg                    factory.Registration[hardware.Object]
	desc                   map[string]any
}

func (p pending) args(master hardware.Object) factory.Args[hardware.Object] {
	a := factory.Args[hardware.Object]{Master: master}
	if len(p.desc) > 0 {
		a.Desc = p.desc
	}
	return a
}

func (p pending) fail(err error) error {
	return &ItemError{Subsystem: p.subsystem, Group: p.group, Item: p.item, Err: err}
}

// Build creates every item of m. The registry is sealed on first use. The
// manifest is not modified. Any failure aborts the build and nothing is
// returned.
func (b *Builder) Build(m *manifest.Manifest) (Collections, error) {
	b.reg.Seal()

	var items []pending
	err := m.Walk(func(subsystem, group, item string, d manifest.Descriptor) error {
		reg, err := b.reg.Resolve(d.Type())
		if err != nil {
			return &ItemError{Subsystem: subsystem, Group: group, Item: item, Err: err}
		}
		desc := map[string]any(d.Clone())
		delete(desc, manifest.KeyType)
		if missing := reg.Missing(desc); len(missing) > 0 {
			return &MissingRequiredKeyError{
				Subsystem:  subsystem,
				Group:      group,
				Item:       item,
				Type:       reg.Name,
				Missing:    missing,
				Descriptor: map[string]any(d),
			}
		}
		items = append(items, pending{subsystem: subsystem, group: group, item: item, reg: reg, desc: desc})
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make(Collections)
	for sub, groups := range m.Subsystems {
		for group := range groups {
			out[CompoundKey(group, sub)] = make(hardware.Collection)
		}
	}

	masters := make(map[string]map[string]hardware.Object)
	for _, p := range items {
		if p.reg.Follower() {
			continue
		}
		obj, err := p.reg.New(p.args(nil))
		if err != nil {
			return nil, p.fail(err)
		}
		out[CompoundKey(p.group, p.subsystem)][p.item] = obj
		if p.reg.Family == "" {
			continue
		}
		ch, ok := channelKey(p.desc["channel"])
		if !ok {
			return nil, p.fail(fmt.Errorf("channel %v is not an integer", p.desc["channel"]))
		}
		if masters[p.reg.Family] == nil {
			masters[p.reg.Family] = make(map[string]hardware.Object)
		}
		if _, dup := masters[p.reg.Family][ch]; dup {
			b.log.Warnf("%s/%s/%s: %s channel %s already taken, followers keep the first", p.subsystem, p.group, p.item, p.reg.Family, ch)
			continue
		}
		masters[p.reg.Family][ch] = obj
	}

	for _, p := range items {
		if !p.reg.Follower() {
			continue
		}
		ch, ok := channelKey(p.desc[p.reg.Follows])
		if !ok {
			return nil, p.fail(fmt.Errorf("%s %v is not an integer", p.reg.Follows, p.desc[p.reg.Follows]))
		}
		master, ok := masters[p.reg.Family][ch]
		if !ok {
			return nil, &MissingMasterError{
				Subsystem: p.subsystem,
				Group:     p.group,
				Item:      p.item,
				Family:    p.reg.Family,
				Channel:   fmt.Sprint(p.desc[p.reg.Follows]),
			}
		}
		obj, err := p.reg.New(p.args(master))
		if err != nil {
			return nil, p.fail(err)
		}
		out[CompoundKey(p.group, p.subsystem)][p.item] = obj
	}

	for _, key := range out.Keys() {
		b.log.Infof("Created %d item(s) into '%s'", len(out[key]), key)
	}
	b.log.Infof("Built %d item(s) in %d collection(s)", out.Count(), len(out))
	return out, nil
}

// channelKey normalizes a channel number so JSON floats and YAML ints agree.
func channelKey(v any) (string, bool) {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n), true
	case int64:
		return strconv.FormatInt(n, 10), true
	case uint64:
		return strconv.FormatUint(n, 10), true
	case float64:
		if n != math.Trunc(n) {
			return "", false
		}
		return strconv.FormatInt(int64(n), 10), true
	case string:
		if _, err := strconv.Atoi(n); err != nil {
			return "", false
		}
		return n, true
	}
	return "", false
}
