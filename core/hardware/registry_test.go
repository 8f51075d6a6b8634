package hardware

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raptacon/Robot-2020/core/factory"
	"github.com/Raptacon/Robot-2020/core/input"
)

func newTestRegistry(t *testing.T) *factory.Registry[Object] {
	t.Helper()
	reg, err := NewRegistry(Options{})
	require.NoError(t, err)
	return reg
}

func create(t *testing.T, reg *factory.Registry[Object], typ string, desc map[string]any, master Object) (Object, error) {
	t.Helper()
	r, err := reg.Resolve(typ)
	require.NoError(t, err)
	return r.New(factory.Args[Object]{Desc: desc, Master: master})
}

func TestNewRegistry_BuiltinContracts(t *testing.T) {
	reg := newTestRegistry(t)
	assert.Len(t, reg.Names(), len(builtins))

	cases := []struct {
		name     string
		required []string
		family   string
		follows  string
	}{
		{TypeTalonSRX, []string{"channel"}, "ctre-srx", ""},
		{TypeTalonSRXFollower, []string{"channel", "masterChannel"}, "ctre-srx", "masterChannel"},
		{TypeTalonFXFollower, []string{"channel", "masterChannel"}, "ctre-fx", "masterChannel"},
		{TypeSparkMaxFollower, []string{"channel", "motorType", "masterChannel"}, "rev", "masterChannel"},
		{TypeCompressor, nil, "", ""},
		{TypeNavX, []string{"method"}, "", ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := reg.Resolve(c.name)
			require.NoError(t, err)
			assert.Equal(t, c.required, r.Required)
			assert.Equal(t, c.family, r.Family)
			assert.Equal(t, c.follows, r.Follows)
		})
	}
}

func TestTalonSRX_PIDScalesSetPoint(t *testing.T) {
	reg := newTestRegistry(t)
	obj, err := create(t, reg, TypeTalonSRX, map[string]any{
		"channel":  10,
		"inverted": true,
		"pid": map[string]any{
			"controlType": "Velocity", "feedbackDevice": 0, "sensorPhase": true,
			"kPreScale": 2.5, "kP": 0.1, "kI": 0.0, "kD": 0.0, "kF": 0.05,
		},
		"currentLimits": map[string]any{"absMax": 50, "absMaxTimeMs": 250, "maxNominal": 40},
	}, nil)
	require.NoError(t, err)

	m := obj.(*Motor)
	assert.Equal(t, KindTalonSRX, m.Kind())
	assert.Equal(t, 10, m.Channel())
	assert.True(t, m.Inverted())
	assert.Equal(t, Velocity, m.Mode())
	assert.Equal(t, 40.0, m.CurrentLimits().MaxNominal)

	m.Set(0.4)
	assert.InDelta(t, 1.0, m.Get(), 1e-9)
}

func TestMotor_OpenLoopClamps(t *testing.T) {
	reg := newTestRegistry(t)
	obj, err := create(t, reg, TypeTalonFX, map[string]any{"channel": 3}, nil)
	require.NoError(t, err)
	m := obj.(*Motor)

	m.Set(1.7)
	assert.Equal(t, 1.0, m.Get())
	m.Set(-3)
	assert.Equal(t, -1.0, m.Get())
	m.StopMotor()
	assert.Zero(t, m.Get())
	assert.Equal(t, PercentOutput, m.Mode())
}

func TestSparkMax_CoastOnZero(t *testing.T) {
	reg := newTestRegistry(t)
	obj, err := create(t, reg, TypeSparkMax, map[string]any{
		"channel": 5, "motorType": "kBrushless",
		"pid": map[string]any{
			"controlType": "Velocity", "kPreScale": 100, "kP": 1, "kI": 0, "kD": 0, "kF": 0,
			"coastOnZero": true,
		},
	}, nil)
	require.NoError(t, err)
	m := obj.(*Motor)

	m.Set(0)
	assert.True(t, m.Coasting())
	assert.Equal(t, DutyCycle, m.Mode())

	m.Set(0.5)
	assert.False(t, m.Coasting())
	assert.Equal(t, Velocity, m.Mode())
	assert.InDelta(t, 50.0, m.Get(), 1e-9)
}

func TestMotor_Rejections(t *testing.T) {
	reg := newTestRegistry(t)
	cases := []struct {
		name string
		typ  string
		desc map[string]any
	}{
		{"bad motorType", TypeSparkMax, map[string]any{"channel": 1, "motorType": "kStepper"}},
		{"pid missing gains", TypeTalonSRX, map[string]any{"channel": 1, "pid": map[string]any{"controlType": "Velocity"}}},
		{"talon duty cycle", TypeTalonSRX, map[string]any{"channel": 1, "pid": map[string]any{
			"controlType": "Duty Cycle", "kPreScale": 1, "kP": 0, "kI": 0, "kD": 0, "kF": 0}}},
		{"fx limits on srx", TypeTalonSRX, map[string]any{"channel": 1, "currentLimits": map[string]any{"currentLimit": 30}}},
		{"srx limits on spark", TypeSparkMax, map[string]any{"channel": 1, "motorType": "kBrushed", "currentLimits": map[string]any{"absMax": 30}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := create(t, reg, c.typ, c.desc, nil)
			assert.Error(t, err)
		})
	}
}

func TestFollower_MirrorsMaster(t *testing.T) {
	reg := newTestRegistry(t)
	mobj, err := create(t, reg, TypeSparkMax, map[string]any{"channel": 1, "motorType": "kBrushless"}, nil)
	require.NoError(t, err)
	fobj, err := create(t, reg, TypeSparkMaxFollower, map[string]any{
		"channel": 2, "motorType": "kBrushless", "masterChannel": 1, "inverted": true,
	}, mobj)
	require.NoError(t, err)

	master, follower := mobj.(*Motor), fobj.(*Motor)
	assert.Same(t, master, follower.Master())
	assert.Equal(t, Follower, follower.Mode())

	master.Set(0.3)
	follower.Set(0.9)
	assert.InDelta(t, -0.3, follower.Get(), 1e-9)
}

func TestFollower_RejectsForeignMaster(t *testing.T) {
	reg := newTestRegistry(t)
	fx, err := create(t, reg, TypeTalonFX, map[string]any{"channel": 1}, nil)
	require.NoError(t, err)
	_, err = create(t, reg, TypeTalonSRXFollower, map[string]any{"channel": 2, "masterChannel": 1}, fx)
	assert.Error(t, err)

	gyro, err := create(t, reg, TypeNavX, map[string]any{"method": "spi"}, nil)
	require.NoError(t, err)
	_, err = create(t, reg, TypeTalonSRXFollower, map[string]any{"channel": 2, "masterChannel": 1}, gyro)
	assert.Error(t, err)
}

func TestPneumatics(t *testing.T) {
	reg := newTestRegistry(t)

	comp, err := create(t, reg, TypeCompressor, nil, nil)
	require.NoError(t, err)
	assert.True(t, comp.(*Compressor).Enabled())
	assert.Zero(t, comp.(*Compressor).PCM())

	sol, err := create(t, reg, TypeSolenoid, map[string]any{"channel": 4}, nil)
	require.NoError(t, err)
	assert.Zero(t, sol.(*Solenoid).PCM())

	obj, err := create(t, reg, TypeDoubleSolenoid, map[string]any{
		"pcm": 1, "channel": map[string]any{"forward": 0, "reverse": 1}, "default": "kReverse",
	}, nil)
	require.NoError(t, err)
	ds := obj.(*DoubleSolenoid)
	assert.Equal(t, Reverse, ds.Get())
	ds.Toggle()
	assert.Equal(t, Forward, ds.Get())

	_, err = create(t, reg, TypeDoubleSolenoid, map[string]any{"channel": map[string]any{"forward": 0, "reverse": 1}, "default": "kSideways"}, nil)
	assert.Error(t, err)
	_, err = create(t, reg, TypeDoubleSolenoid, map[string]any{"channel": map[string]any{"forward": 2}}, nil)
	assert.Error(t, err)
}

func TestGyro_Methods(t *testing.T) {
	reg := newTestRegistry(t)
	for _, m := range []string{"spi", "i2c"} {
		obj, err := create(t, reg, TypeNavX, map[string]any{"method": m}, nil)
		require.NoError(t, err)
		assert.Equal(t, m, obj.(*Gyro).Method())
	}
	_, err := create(t, reg, TypeNavX, map[string]any{"method": "usb"}, nil)
	assert.Error(t, err)
}

type stickSource struct{}

func (stickSource) RawAxis(a input.Axis) float64 {
	if a == input.LeftY {
		return -0.5
	}
	return 0
}
func (stickSource) POV() int { return 90 }

func TestController_SamplesSource(t *testing.T) {
	reg, err := NewRegistry(Options{
		SampleInterval: time.Millisecond,
		Source:         func(int) input.AxisSource { return stickSource{} },
	})
	require.NoError(t, err)
	obj, err := create(t, reg, TypeXboxController, map[string]any{"channel": 0}, nil)
	require.NoError(t, err)
	c := obj.(*Controller)
	assert.Zero(t, c.Samples())

	c.Start(context.Background())
	require.Eventually(t, func() bool { return c.Samples() > 0 }, time.Second, time.Millisecond)
	assert.Equal(t, -0.5, c.Axis(input.LeftY))
	assert.Equal(t, 90, c.Snapshot().POV)

	c.Stop()
	require.Eventually(t, func() bool { return !c.Running() }, time.Second, time.Millisecond)
}

func TestCollection_TypedLookup(t *testing.T) {
	c := Collection{"lift": &Solenoid{channel: 2}}
	s, err := c.Solenoid("lift")
	require.NoError(t, err)
	assert.Equal(t, 2, s.Channel())

	_, err = c.Motor("lift")
	assert.Error(t, err)
	_, err = c.Motor("absent")
	assert.Error(t, err)
}
