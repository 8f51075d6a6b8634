package metrics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raptacon/Robot-2020/core/factory"
)

type recordSink struct {
	boots, ticks int
	err          error
	closed       bool
}

func (r *recordSink) RecordBoot(BootReport) error {
	r.boots++
	return r.err
}

func (r *recordSink) RecordTick(TickSample) error {
	r.ticks++
	return r.err
}

func (r *recordSink) Close() { r.closed = true }

func TestMultiSink_Forwards(t *testing.T) {
	s1, s2 := &recordSink{}, &recordSink{}
	m := NewMultiSink(s1, s2, NopSink{})
	require.NoError(t, m.RecordBoot(BootReport{}))
	require.NoError(t, m.RecordTick(TickSample{}))
	m.Close()

	for _, s := range []*recordSink{s1, s2} {
		assert.Equal(t, 1, s.boots)
		assert.Equal(t, 1, s.ticks)
		assert.True(t, s.closed)
	}
}

func TestMultiSink_StopsAtFirstError(t *testing.T) {
	bad := &recordSink{err: errors.New("down")}
	after := &recordSink{}
	assert.Error(t, NewMultiSink(bad, after).RecordBoot(BootReport{}))
	assert.Zero(t, after.boots)
}

func TestNewSink(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(factory.Registration[Sink]{
		Name: "rec",
		New:  func(factory.Args[Sink]) (Sink, error) { return &recordSink{}, nil },
	}))

	s, err := NewSink(reg, nil)
	require.NoError(t, err)
	assert.IsType(t, NopSink{}, s)

	s, err = NewSink(reg, []factory.ModuleConfig{{Type: "rec"}})
	require.NoError(t, err)
	assert.IsType(t, &recordSink{}, s)

	s, err = NewSink(reg, []factory.ModuleConfig{{Type: "rec"}, {Type: "rec"}})
	require.NoError(t, err)
	m, ok := s.(*MultiSink)
	require.True(t, ok)
	assert.Len(t, m.Sinks, 2)

	_, err = NewSink(reg, []factory.ModuleConfig{{Type: "missing"}})
	var ute *factory.UnknownTypeError
	assert.ErrorAs(t, err, &ute)
}

func TestBootReport_Items(t *testing.T) {
	r := BootReport{Collections: map[string]int{"motors_driveTrain": 4, "pneumatics_shooter": 2}}
	assert.Equal(t, 6, r.Items())
}
