package components

import (
	"fmt"

	"github.com/Raptacon/Robot-2020/core/component"
	"github.com/Raptacon/Robot-2020/core/hardware"
)

// WinchUpSpeed is applied while the mech POV points up.
const WinchUpSpeed = 0.5

// Winch raises the climber while the mechanism controller's POV is up.
type Winch struct {
	motors   hardware.Collection
	controls hardware.Collection

	motor *hardware.Motor
	mech  *hardware.Controller
}

func (w *Winch) Inject(b component.Bindings) error {
	w.motors = b.Collection("motors_winch")
	w.controls = b.Collection("controllers_driver")
	return nil
}

func (w *Winch) Setup() error {
	var err error
	if w.motor, err = w.motors.Motor("winchMotor"); err != nil {
		return fmt.Errorf("winch: %w", err)
	}
	if w.mech, err = w.controls.Controller("mech"); err != nil {
		return fmt.Errorf("winch: %w", err)
	}
	return nil
}

func (w *Winch) OnEnable() { w.motor.StopMotor() }

func (w *Winch) Execute() {
	if w.mech.Snapshot().POV == 0 {
		w.motor.Set(WinchUpSpeed)
		return
	}
	w.motor.Set(0)
}
