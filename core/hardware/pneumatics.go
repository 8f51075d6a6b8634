package hardware

import "fmt"

// CompressorConfig is optional; a bare {type: Compressor} builds one on PCM 0.
type CompressorConfig struct {
	PCM int `json:"pcm"`
}

// Compressor runs closed loop on its PCM until stopped.
type Compressor struct {
	pcm     int
	enabled bool
}

func (c *Compressor) Kind() Kind    { return KindCompressor }
func (c *Compressor) PCM() int      { return c.pcm }
func (c *Compressor) Enabled() bool { return c.enabled }
func (c *Compressor) Start()        { c.enabled = true }
func (c *Compressor) Stop()         { c.enabled = false }

// SolenoidConfig describes a single-acting solenoid.
type SolenoidConfig struct {
	PCM     int `json:"pcm"`
	Channel int `json:"channel"`
}

type Solenoid struct {
	pcm     int
	channel int
	on      bool
}

func (s *Solenoid) Kind() Kind   { return KindSolenoid }
func (s *Solenoid) PCM() int     { return s.pcm }
func (s *Solenoid) Channel() int { return s.channel }
func (s *Solenoid) Set(on bool)  { s.on = on }
func (s *Solenoid) Get() bool    { return s.on }

// Value is a double solenoid position.
type Value int

const (
	Off Value = iota
	Forward
	Reverse
)

var valueNames = map[string]Value{"kOff": Off, "kForward": Forward, "kReverse": Reverse}

func (v Value) String() string {
	switch v {
	case Off:
		return "kOff"
	case Forward:
		return "kForward"
	case Reverse:
		return "kReverse"
	}
	return fmt.Sprintf("Value(%d)", int(v))
}

// ParseValue accepts kOff, kForward or kReverse.
func ParseValue(s string) (Value, error) {
	v, ok := valueNames[s]
	if !ok {
		return Off, fmt.Errorf("unknown solenoid value %q", s)
	}
	return v, nil
}

// DoubleSolenoidConfig describes a double-acting solenoid. Its channel is a
// {forward, reverse} pair.
type DoubleSolenoidConfig struct {
	PCM     int `json:"pcm"`
	Channel struct {
		Forward *int `json:"forward"`
		Reverse *int `json:"reverse"`
	} `json:"channel"`
	Default string `json:"default"`
}

type DoubleSolenoid struct {
	pcm     int
	forward int
	reverse int
	value   Value
}

func newDoubleSolenoid(cfg DoubleSolenoidConfig) (*DoubleSolenoid, error) {
	if cfg.Channel.Forward == nil || cfg.Channel.Reverse == nil {
		return nil, fmt.Errorf("channel needs both forward and reverse")
	}
	if *cfg.Channel.Forward == *cfg.Channel.Reverse {
		return nil, fmt.Errorf("forward and reverse share channel %d", *cfg.Channel.Forward)
	}
	ds := &DoubleSolenoid{pcm: cfg.PCM, forward: *cfg.Channel.Forward, reverse: *cfg.Channel.Reverse}
	if cfg.Default != "" {
		v, err := ParseValue(cfg.Default)
		if err != nil {
			return nil, err
		}
		ds.value = v
	}
	return ds, nil
}

func (d *DoubleSolenoid) Kind() Kind               { return KindDoubleSolenoid }
func (d *DoubleSolenoid) PCM() int                 { return d.pcm }
func (d *DoubleSolenoid) Channels() (fwd, rev int) { return d.forward, d.reverse }
func (d *DoubleSolenoid) Set(v Value)              { d.value = v }
func (d *DoubleSolenoid) Get() Value               { return d.value }

// Toggle flips between forward and reverse. An Off solenoid goes forward.
func (d *DoubleSolenoid) Toggle() {
	if d.value == Forward {
		d.value = Reverse
		return
	}
	d.value = Forward
}
