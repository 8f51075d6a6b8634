package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/Raptacon/Robot-2020/core/logger"
)

// Loader reads manifests relative to a directory.
type Loader struct {
	Dir string
	log logger.Logger
}

// NewLoader returns a Loader resolving file names against dir.
func NewLoader(dir string, log logger.Logger) *Loader {
	return &Loader{Dir: dir, log: logger.OrNop(log)}
}

// Load parses the named manifest and every document it references.
func (l *Loader) Load(name string) (*Manifest, error) {
	format, err := formatOf(name)
	if err != nil {
		return nil, err
	}
	tree, meta, err := l.load(name, format, nil)
	if err != nil {
		return nil, err
	}
	m := &Manifest{File: name, variants: map[string]string{}}
	if err := m.setMeta(meta); err != nil {
		return nil, err
	}
	m.Subsystems, err = typed(name, tree)
	if err != nil {
		return nil, err
	}
	l.log.Infof("Loaded manifest %s: %d subsystem(s), %d item(s)", name, len(m.Subsystems), m.Count())
	return m, nil
}

func formatOf(name string) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".json":
		return "json", nil
	case ".yaml", ".yml":
		return "yaml", nil
	default:
		return "", &UnsupportedFormatError{File: name, Format: ext}
	}
}

func parserFor(name, format string) (koanf.Parser, error) {
	switch strings.ToLower(format) {
	case "json":
		return json.Parser(), nil
	case "yaml", "yml":
		return yaml.Parser(), nil
	default:
		return nil, &UnsupportedFormatError{File: name, Format: format}
	}
}

func (l *Loader) read(name, format string) (map[string]any, error) {
	parser, err := parserFor(name, format)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(l.Dir, name)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingFileError{File: name, Dir: l.Dir, Err: err}
		}
		return nil, fmt.Errorf("manifest %s: %w", name, err)
	}
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", name, err)
	}
	return k.Raw(), nil
}

// load reads name and resolves its references depth first. chain holds the
// files currently being loaded; meeting one of them again is a cycle.
func (l *Loader) load(name, format string, chain []string) (map[string]any, map[string]any, error) {
	for _, seen := range chain {
		if seen == name {
			return nil, nil, &CyclicReferenceError{Chain: append(append([]string(nil), chain...), name)}
		}
	}
	raw, err := l.read(name, format)
	if err != nil {
		return nil, nil, err
	}
	chain = append(chain[:len(chain):len(chain)], name)

	subsystems := map[string]any{}
	meta := map[string]any{}
	for _, key := range sortedKeys(raw) {
		if reserved(key) {
			meta[key] = raw[key]
			continue
		}
		entry, ok := raw[key].(map[string]any)
		if !ok {
			return nil, nil, &MalformedError{File: name, Subsystem: key, Reason: "subsystem must be a mapping"}
		}
		if _, isRef := entry[keyFile]; !isRef {
			if err := mergo.Merge(&subsystems, map[string]any{key: entry}); err != nil {
				return nil, nil, fmt.Errorf("merge %s from %s: %w", key, name, err)
			}
			continue
		}
		refName, ok := entry[keyFile].(string)
		if !ok || refName == "" {
			return nil, nil, &MalformedError{File: name, Subsystem: key, Reason: "file reference must be a non-empty string"}
		}
		refFormat, _ := entry[keyFormat].(string)
		if refFormat == "" {
			if refFormat, err = formatOf(refName); err != nil {
				return nil, nil, err
			}
		}
		if _, err := parserFor(refName, refFormat); err != nil {
			return nil, nil, err
		}
		l.log.Debugf("Following reference %s -> %s (%s)", name, refName, refFormat)
		nested, _, err := l.load(refName, refFormat, chain)
		if err != nil {
			return nil, nil, err
		}
		if err := mergo.Merge(&subsystems, nested); err != nil {
			return nil, nil, fmt.Errorf("merge %s into %s: %w", refName, name, err)
		}
	}
	return subsystems, meta, nil
}

func (m *Manifest) setMeta(meta map[string]any) error {
	if v, ok := meta[KeyDefault]; ok {
		s, ok := v.(string)
		if !ok {
			return &MalformedError{File: m.File, Subsystem: KeyDefault, Reason: "must be a string"}
		}
		m.Default = strings.ToLower(strings.TrimSpace(s))
	}
	if v, ok := meta[KeyVariants]; ok {
		docs, ok := v.(map[string]any)
		if !ok {
			return &MalformedError{File: m.File, Subsystem: KeyVariants, Reason: "must map variant names to documents"}
		}
		for variant, doc := range docs {
			s, ok := doc.(string)
			if !ok || s == "" {
				return &MalformedError{File: m.File, Subsystem: KeyVariants, Group: variant, Reason: "document must be a non-empty string"}
			}
			m.variants[strings.ToLower(variant)] = s
		}
	}
	switch v := meta[KeyCompatibility].(type) {
	case nil:
	case string:
		m.Compatibility = []string{strings.ToLower(v)}
	case []any:
		for _, e := range v {
			m.Compatibility = append(m.Compatibility, strings.ToLower(fmt.Sprint(e)))
		}
	default:
		return &MalformedError{File: m.File, Subsystem: KeyCompatibility, Reason: "must be a string or a list"}
	}
	return nil
}

func typed(file string, tree map[string]any) (map[string]Subsystem, error) {
	out := make(map[string]Subsystem, len(tree))
	for sname, sv := range tree {
		groups, _ := sv.(map[string]any)
		sub := make(Subsystem, len(groups))
		for gname, gv := range groups {
			items, ok := gv.(map[string]any)
			if !ok {
				return nil, &MalformedError{File: file, Subsystem: sname, Group: gname, Reason: "group must be a mapping of items"}
			}
			grp := make(Group, len(items))
			for iname, iv := range items {
				desc, ok := iv.(map[string]any)
				if !ok {
					return nil, &MalformedError{File: file, Subsystem: sname, Group: gname, Item: iname, Reason: "descriptor must be a mapping"}
				}
				if t, ok := desc[KeyType].(string); !ok || t == "" {
					return nil, &MalformedError{File: file, Subsystem: sname, Group: gname, Item: iname, Reason: "descriptor needs a string type"}
				}
				grp[iname] = Descriptor(cloneMap(desc))
			}
			sub[gname] = grp
		}
		out[sname] = sub
	}
	return out, nil
}
