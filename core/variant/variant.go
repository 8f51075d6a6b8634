// Package variant determines which robot variant is active for this run.
package variant

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/Raptacon/Robot-2020/core/logger"
)

const (
	// Default is the compile-time fallback variant.
	Default = "doof"
	// DefaultMarker is the per-machine marker location.
	DefaultMarker = "~/RobotConfig"
)

// ConfigurationError explains why the marker could not provide a variant.
// Select recovers from it locally; it is exported for Detect callers.
type ConfigurationError struct {
	Marker string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("variant marker %s: %s: %v", e.Marker, e.Reason, e.Err)
	}
	return fmt.Sprintf("variant marker %s: %s", e.Marker, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Selector picks the active variant.
type Selector struct {
	// Marker is the marker file path; "~" is expanded.
	Marker string
	// Override, when set, replaces the marker content (CLI flag or env).
	Override string
	// Fallback is used when neither override nor marker yield a variant.
	Fallback string
	log      logger.Logger
}

// NewSelector returns a Selector reading marker and falling back to fallback,
// or to Default when fallback is empty.
func NewSelector(marker, fallback string, log logger.Logger) *Selector {
	if marker == "" {
		marker = DefaultMarker
	}
	return &Selector{Marker: marker, Fallback: fallback, log: logger.OrNop(log)}
}

// Select returns the active variant. known, when non-empty, lists the
// acceptable names. Select never fails: problems are logged as warnings and
// the fallback is returned.
func (s *Selector) Select(known ...string) string {
	fallback := strings.ToLower(s.Fallback)
	if fallback == "" {
		fallback = Default
	}
	v, err := s.Detect(known...)
	if err != nil {
		s.log.Warnf("%v; using default variant %q", err, fallback)
		return fallback
	}
	s.log.Infof("Using variant %q", v)
	return v
}

// Detect returns the variant named by the override or the marker file.
func (s *Selector) Detect(known ...string) (string, error) {
	source := s.Marker
	var raw string
	if s.Override != "" {
		source = "override"
		raw = s.Override
	} else {
		line, err := s.readMarker()
		if err != nil {
			return "", err
		}
		raw = line
	}
	v := normalize(raw)
	if v == "" {
		return "", &ConfigurationError{Marker: source, Reason: "empty variant name"}
	}
	if len(known) > 0 && !contains(known, v) {
		return "", &ConfigurationError{Marker: source, Reason: fmt.Sprintf("unknown variant %q (known: %s)", v, strings.Join(known, ", "))}
	}
	return v, nil
}

func (s *Selector) readMarker() (string, error) {
	path, err := homedir.Expand(s.Marker)
	if err != nil {
		return "", &ConfigurationError{Marker: s.Marker, Reason: "cannot expand path", Err: err}
	}
	b, err := os.ReadFile(path)
	if err != nil {
		reason := "unreadable"
		if errors.Is(err, os.ErrNotExist) {
			reason = "not found"
		}
		return "", &ConfigurationError{Marker: path, Reason: reason, Err: err}
	}
	text, err := decode(b)
	if err != nil {
		return "", &ConfigurationError{Marker: path, Reason: "cannot decode", Err: err}
	}
	line, _, _ := strings.Cut(text, "\n")
	return line, nil
}

// normalize trims the marker line and drops a manifest extension, so both
// "doof" and "doof.yml" name the same variant.
func normalize(s string) string {
	s = strings.TrimSpace(strings.Trim(s, "\x00\ufeff"))
	switch strings.ToLower(filepath.Ext(s)) {
	case ".yml", ".yaml", ".json":
		s = strings.TrimSuffix(s, filepath.Ext(s))
	}
	return strings.ToLower(s)
}

func contains(known []string, v string) bool {
	for _, k := range known {
		if strings.EqualFold(k, v) {
			return true
		}
	}
	return false
}
