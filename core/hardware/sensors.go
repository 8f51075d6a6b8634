package hardware

import "fmt"

// GyroConfig selects the navX bus.
type GyroConfig struct {
	Method string `json:"method"`
}

// Gyro is a navX attitude sensor. The heading is fed by the driver layer.
type Gyro struct {
	method string
	angle  float64
}

func newGyro(cfg GyroConfig) (*Gyro, error) {
	switch cfg.Method {
	case "spi", "i2c":
		return &Gyro{method: cfg.Method}, nil
	}
	return nil, fmt.Errorf("method %q is unrecognized", cfg.Method)
}

func (g *Gyro) Kind() Kind         { return KindGyro }
func (g *Gyro) Method() string     { return g.method }
func (g *Gyro) Angle() float64     { return g.angle }
func (g *Gyro) SetAngle(a float64) { g.angle = a }
func (g *Gyro) Reset()             { g.angle = 0 }

// DigitalInputConfig describes a RIO digital input such as a beam break.
type DigitalInputConfig struct {
	Channel int `json:"channel"`
}

type DigitalInput struct {
	channel int
	value   bool
}

func (d *DigitalInput) Kind() Kind   { return KindDigitalInput }
func (d *DigitalInput) Channel() int { return d.channel }
func (d *DigitalInput) Get() bool    { return d.value }

// Simulate sets the sensed value.
func (d *DigitalInput) Simulate(v bool) { d.value = v }
