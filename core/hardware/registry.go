package hardware

import (
	"fmt"
	"time"

	"github.com/Raptacon/Robot-2020/core/factory"
	"github.com/Raptacon/Robot-2020/core/input"
)

// Type names accepted in manifests.
const (
	TypeTalonSRX         = "CANTalonSRX"
	TypeTalonSRXFollower = "CANTalonSRXFollower"
	TypeTalonFX          = "CANTalonFX"
	TypeTalonFXFollower  = "CANTalonFXFollower"
	TypeSparkMax         = "SparkMax"
	TypeSparkMaxFollower = "SparkMaxFollower"
	TypeCompressor       = "Compressor"
	TypeSolenoid         = "Solenoid"
	TypeDoubleSolenoid   = "DoubleSolenoid"
	TypeNavX             = "navX"
	TypeDigitalInput     = "DigitalInput"
	TypeXboxController   = "XboxController"
)

// MasterField names the descriptor field a follower uses to find its master.
const MasterField = "masterChannel"

// Options tune objects that need runtime collaborators.
type Options struct {
	// SampleInterval is the controller refresh period; zero means
	// input.DefaultInterval.
	SampleInterval time.Duration
	// Source returns the axis source for a controller port. Nil yields
	// idle controllers.
	Source func(channel int) input.AxisSource
}

type builtin struct {
	name     string
	kind     Kind
	required []string
	follower bool
}

var builtins = []builtin{
	{TypeTalonSRX, KindTalonSRX, []string{"channel"}, false},
	{TypeTalonSRXFollower, KindTalonSRX, []string{"channel", MasterField}, true},
	{TypeTalonFX, KindTalonFX, []string{"channel"}, false},
	{TypeTalonFXFollower, KindTalonFX, []string{"channel", MasterField}, true},
	{TypeSparkMax, KindSparkMax, []string{"channel", "motorType"}, false},
	{TypeSparkMaxFollower, KindSparkMax, []string{"channel", "motorType", MasterField}, true},
	{TypeCompressor, KindCompressor, nil, false},
	{TypeSolenoid, KindSolenoid, []string{"channel"}, false},
	{TypeDoubleSolenoid, KindDoubleSolenoid, []string{"channel"}, false},
	{TypeNavX, KindGyro, []string{"method"}, false},
	{TypeDigitalInput, KindDigitalInput, []string{"channel"}, false},
	{TypeXboxController, KindController, []string{"channel"}, false},
}

// NewRegistry returns an unsealed registry holding every built-in type.
// Callers may register additional types before the first build seals it.
func NewRegistry(opts Options) (*factory.Registry[Object], error) {
	if opts.SampleInterval <= 0 {
		opts.SampleInterval = input.DefaultInterval
	}
	reg := factory.NewRegistry[Object]()
	for _, b := range builtins {
		r := factory.Registration[Object]{
			Name:     b.name,
			Required: b.required,
			Family:   b.kind.Family(),
			New:      constructor(b.kind, opts),
		}
		if b.follower {
			r.Follows = MasterField
		}
		if err := reg.Register(r); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func constructor(kind Kind, opts Options) factory.Factory[Object] {
	return func(a factory.Args[Object]) (Object, error) {
		obj, err := construct(kind, opts, a)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		return obj, nil
	}
}

func construct(kind Kind, opts Options, a factory.Args[Object]) (Object, error) {
	switch kind {
	case KindTalonSRX, KindTalonFX, KindSparkMax:
		var cfg MotorConfig
		if err := decodeInto(a.Desc, &cfg); err != nil {
			return nil, err
		}
		var master *Motor
		if a.Master != nil {
			m, ok := a.Master.(*Motor)
			if !ok {
				return nil, fmt.Errorf("master is a %s, not a motor", a.Master.Kind())
			}
			master = m
		}
		return newMotor(kind, cfg, master)
	case KindCompressor:
		var cfg CompressorConfig
		if err := decodeInto(a.Desc, &cfg); err != nil {
			return nil, err
		}
		return &Compressor{pcm: cfg.PCM, enabled: true}, nil
	case KindSolenoid:
		var cfg SolenoidConfig
		if err := decodeInto(a.Desc, &cfg); err != nil {
			return nil, err
		}
		return &Solenoid{pcm: cfg.PCM, channel: cfg.Channel}, nil
	case KindDoubleSolenoid:
		var cfg DoubleSolenoidConfig
		if err := decodeInto(a.Desc, &cfg); err != nil {
			return nil, err
		}
		return newDoubleSolenoid(cfg)
	case KindGyro:
		var cfg GyroConfig
		if err := decodeInto(a.Desc, &cfg); err != nil {
			return nil, err
		}
		return newGyro(cfg)
	case KindDigitalInput:
		var cfg DigitalInputConfig
		if err := decodeInto(a.Desc, &cfg); err != nil {
			return nil, err
		}
		return &DigitalInput{channel: cfg.Channel}, nil
	case KindController:
		var cfg ControllerConfig
		if err := decodeInto(a.Desc, &cfg); err != nil {
			return nil, err
		}
		var src input.AxisSource
		if opts.Source != nil {
			src = opts.Source(cfg.Channel)
		}
		return &Controller{channel: cfg.Channel, sampler: input.NewSampler(src, opts.SampleInterval)}, nil
	}
	return nil, fmt.Errorf("no constructor for kind %s", kind)
}

// decodeInto tolerates a nil descriptor, leaving out at its zero value.
func decodeInto(desc map[string]any, out any) error {
	if desc == nil {
		return nil
	}
	if err := factory.Decode(desc, out); err != nil {
		return fmt.Errorf("decode descriptor: %w", err)
	}
	return nil
}
