package components

import (
	"fmt"

	"github.com/Raptacon/Robot-2020/core/component"
	"github.com/Raptacon/Robot-2020/core/hardware"
	"github.com/Raptacon/Robot-2020/core/input"
)

const intakeMotorSpeed = 0.7

// Intake runs the intake roller from the mech triggers. It declares no
// compatibility, so the configured policy decides whether it runs.
type Intake struct {
	motors   hardware.Collection
	controls hardware.Collection

	motor *hardware.Motor
	mech  *hardware.Controller
}

func (i *Intake) Inject(b component.Bindings) error {
	i.motors = b.Collection("motors_intake")
	i.controls = b.Collection("controllers_driver")
	return nil
}

func (i *Intake) Setup() error {
	var err error
	if i.motor, err = i.motors.Motor("intakeMotor"); err != nil {
		return fmt.Errorf("intake: %w", err)
	}
	if i.mech, err = i.controls.Controller("mech"); err != nil {
		return fmt.Errorf("intake: %w", err)
	}
	return nil
}

func (i *Intake) OnEnable() {}

func (i *Intake) Execute() {
	s := i.mech.Snapshot()
	switch {
	case s.Axis(input.RightTrigger) > 0:
		i.motor.Set(intakeMotorSpeed)
	case s.Axis(input.LeftTrigger) > 0:
		i.motor.Set(-intakeMotorSpeed)
	default:
		i.motor.Set(0)
	}
}
