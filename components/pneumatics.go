package components

import (
	"fmt"

	"github.com/Raptacon/Robot-2020/core/component"
	"github.com/Raptacon/Robot-2020/core/hardware"
)

// Pneumatics keeps the compressor running and exposes the loader piston.
type Pneumatics struct {
	items hardware.Collection

	compressor *hardware.Compressor
	piston     *hardware.DoubleSolenoid
}

func (p *Pneumatics) Inject(b component.Bindings) error {
	p.items = b.Collection("pneumatics_pneumatics")
	return nil
}

func (p *Pneumatics) Setup() error {
	var err error
	if p.compressor, err = p.items.Compressor("compressor"); err != nil {
		return fmt.Errorf("pneumatics: %w", err)
	}
	if p.piston, err = p.items.DoubleSolenoid("loader"); err != nil {
		return fmt.Errorf("pneumatics: %w", err)
	}
	return nil
}

func (p *Pneumatics) OnEnable() { p.compressor.Start() }

// Extend drives the piston forward.
func (p *Pneumatics) Extend() { p.piston.Set(hardware.Forward) }

// Retract drives the piston back.
func (p *Pneumatics) Retract() { p.piston.Set(hardware.Reverse) }

// Toggle flips the piston.
func (p *Pneumatics) Toggle() { p.piston.Toggle() }

func (p *Pneumatics) Execute() {
	if !p.compressor.Enabled() {
		p.compressor.Start()
	}
}
