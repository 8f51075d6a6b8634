package util

import (
	"fmt"
	"strings"
	"sync"
)

// Recorder is a logger that keeps every formatted line per level.
type Recorder struct {
	mu    sync.Mutex
	lines map[string][]string
}

func (r *Recorder) add(level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lines == nil {
		r.lines = make(map[string][]string)
	}
	r.lines[level] = append(r.lines[level], msg)
}

func (r *Recorder) Debugf(format string, args ...any) { r.add("debug", fmt.Sprintf(format, args...)) }
func (r *Recorder) Infof(format string, args ...any)  { r.add("info", fmt.Sprintf(format, args...)) }
func (r *Recorder) Warnf(format string, args ...any)  { r.add("warn", fmt.Sprintf(format, args...)) }
func (r *Recorder) Errorf(format string, args ...any) { r.add("error", fmt.Sprintf(format, args...)) }

func (r *Recorder) Debugw(msg string, fields map[string]any) {
	r.add("debug", fmt.Sprintf("%s %v", msg, fields))
}

// Lines returns a copy of the lines logged at level.
func (r *Recorder) Lines(level string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines[level]...)
}

// Contains reports whether any line at level contains substr.
func (r *Recorder) Contains(level, substr string) bool {
	for _, l := range r.Lines(level) {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}
