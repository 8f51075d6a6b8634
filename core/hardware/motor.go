package hardware

import (
	"fmt"
	"math"
	"sort"
)

// ControlMode is how a motor interprets its set point.
type ControlMode string

const (
	PercentOutput ControlMode = "PercentOutput"
	Position      ControlMode = "Position"
	Velocity      ControlMode = "Velocity"
	DutyCycle     ControlMode = "Duty Cycle"
	Follower      ControlMode = "Follower"
)

// PID holds closed-loop settings from a motor's "pid" block.
type PID struct {
	ControlType    ControlMode `json:"controlType"`
	FeedbackDevice int         `json:"feedbackDevice"`
	SensorPhase    bool        `json:"sensorPhase"`
	KPreScale      float64     `json:"kPreScale"`
	KP             float64     `json:"kP"`
	KI             float64     `json:"kI"`
	KD             float64     `json:"kD"`
	KF             float64     `json:"kF"`
	CoastOnZero    bool        `json:"coastOnZero"`
}

var pidRequired = []string{"controlType", "kP", "kI", "kD", "kF", "kPreScale"}

// CurrentLimits is the union of vendor current limit settings. Which fields
// are meaningful depends on the motor kind.
type CurrentLimits struct {
	// CTRE TalonSRX
	AbsMax       float64 `json:"absMax"`
	AbsMaxTimeMs float64 `json:"absMaxTimeMs"`
	MaxNominal   float64 `json:"maxNominal"`

	// CTRE TalonFX
	CurrentLimit            float64 `json:"currentLimit"`
	TriggerThresholdCurrent float64 `json:"triggerThresholdCurrent"`
	TriggerThresholdTime    float64 `json:"triggerThresholdTime"`

	// REV SparkMax
	FreeLimit      float64 `json:"freeLimit"`
	StallLimit     float64 `json:"stallLimit"`
	StallLimitRPM  float64 `json:"stallLimitRPM"`
	SecondaryLimit float64 `json:"secondaryLimit"`
}

func limitKeys(k Kind) []string {
	switch k {
	case KindTalonSRX:
		return []string{"absMax", "absMaxTimeMs", "maxNominal"}
	case KindTalonFX:
		return []string{"currentLimit", "triggerThresholdCurrent", "triggerThresholdTime"}
	case KindSparkMax:
		return []string{"freeLimit", "stallLimit", "stallLimitRPM", "secondaryLimit"}
	}
	return nil
}

func controlModes(k Kind) []ControlMode {
	if k == KindSparkMax {
		return []ControlMode{Position, Velocity, DutyCycle}
	}
	return []ControlMode{PercentOutput, Position, Velocity}
}

// MotorConfig is the descriptor of every motor type.
type MotorConfig struct {
	Channel       int            `json:"channel"`
	MotorType     string         `json:"motorType"`
	Inverted      bool           `json:"inverted"`
	MasterChannel *int           `json:"masterChannel"`
	IdleBrake     bool           `json:"IdleBrake"`
	PID           map[string]any `json:"pid"`
	CurrentLimits map[string]any `json:"currentLimits"`
}

// Motor is a motor controller. A follower mirrors its master and ignores
// its own set points.
type Motor struct {
	kind      Kind
	channel   int
	motorType string
	inverted  bool
	idleBrake bool
	pid       *PID
	limits    *CurrentLimits
	master    *Motor

	mode     ControlMode
	output   float64
	coasting bool
}

func newMotor(kind Kind, cfg MotorConfig, master *Motor) (*Motor, error) {
	m := &Motor{
		kind:      kind,
		channel:   cfg.Channel,
		motorType: cfg.MotorType,
		inverted:  cfg.Inverted,
		idleBrake: cfg.IdleBrake,
		mode:      PercentOutput,
	}
	if kind == KindSparkMax && cfg.MotorType != "kBrushless" && cfg.MotorType != "kBrushed" {
		return nil, fmt.Errorf("unknown motorType %q", cfg.MotorType)
	}
	if cfg.PID != nil {
		pid, err := decodePID(kind, cfg.PID)
		if err != nil {
			return nil, err
		}
		m.pid = pid
		m.mode = pid.ControlType
	}
	if cfg.CurrentLimits != nil {
		limits, err := decodeLimits(kind, cfg.CurrentLimits)
		if err != nil {
			return nil, err
		}
		m.limits = limits
	}
	if master != nil {
		if master.kind != kind {
			return nil, fmt.Errorf("master on channel %d is a %s, not a %s", master.channel, master.kind, kind)
		}
		m.master = master
		m.mode = Follower
	}
	return m, nil
}

func decodePID(kind Kind, raw map[string]any) (*PID, error) {
	if missing := absent(raw, pidRequired); len(missing) > 0 {
		return nil, fmt.Errorf("pid: missing %v", missing)
	}
	var pid PID
	if err := decodeInto(raw, &pid); err != nil {
		return nil, fmt.Errorf("pid: %w", err)
	}
	for _, cm := range controlModes(kind) {
		if pid.ControlType == cm {
			return &pid, nil
		}
	}
	return nil, fmt.Errorf("pid: control type %q not supported by %s", pid.ControlType, kind)
}

func decodeLimits(kind Kind, raw map[string]any) (*CurrentLimits, error) {
	if missing := absent(raw, limitKeys(kind)); len(missing) > 0 {
		return nil, fmt.Errorf("currentLimits: missing %v for %s", missing, kind)
	}
	var cl CurrentLimits
	if err := decodeInto(raw, &cl); err != nil {
		return nil, fmt.Errorf("currentLimits: %w", err)
	}
	return &cl, nil
}

func absent(raw map[string]any, keys []string) []string {
	var out []string
	for _, k := range keys {
		if _, ok := raw[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func (m *Motor) Kind() Kind { return m.kind }

func (m *Motor) Channel() int { return m.channel }

// MotorType is the SparkMax brushed/brushless setting; empty for CTRE motors.
func (m *Motor) MotorType() string { return m.motorType }

func (m *Motor) Inverted() bool { return m.inverted }

func (m *Motor) IdleBrake() bool { return m.idleBrake }

// Master returns the motor this one follows, or nil.
func (m *Motor) Master() *Motor { return m.master }

func (m *Motor) PID() *PID { return m.pid }

func (m *Motor) CurrentLimits() *CurrentLimits { return m.limits }

func (m *Motor) Mode() ControlMode { return m.mode }

// Coasting reports whether a SparkMax with coastOnZero is spinning down.
func (m *Motor) Coasting() bool { return m.coasting }

// Set commands the motor. Without PID the speed is clamped to [-1, 1]; with
// PID it is scaled by kPreScale and handed to the closed loop.
func (m *Motor) Set(speed float64) {
	if m.master != nil {
		return
	}
	if m.pid == nil {
		m.output = math.Max(-1, math.Min(1, speed))
		return
	}
	if m.kind == KindSparkMax && m.pid.CoastOnZero && speed == 0 {
		m.coasting = true
		m.mode = DutyCycle
		m.output = 0
		return
	}
	m.coasting = false
	m.mode = m.pid.ControlType
	m.output = speed * m.pid.KPreScale
}

// Get returns the last commanded output. Followers report their master's,
// negated when the follower is inverted.
func (m *Motor) Get() float64 {
	if m.master != nil {
		out := m.master.Get()
		if m.inverted {
			out = -out
		}
		return out
	}
	return m.output
}

// StopMotor zeroes the output without touching the control mode.
func (m *Motor) StopMotor() {
	if m.master == nil {
		m.output = 0
	}
}
