package components

import (
	"fmt"

	"github.com/Raptacon/Robot-2020/core/component"
	"github.com/Raptacon/Robot-2020/core/hardware"
)

// DriveMode selects how stick input maps to wheel speeds.
type DriveMode int

const (
	Tank DriveMode = iota
	Arcade
)

const (
	defaultMultiplier = 0.5
	creeperMultiplier = 0.25
)

// DriveTrain drives the left and right motors from the driver controller.
type DriveTrain struct {
	motors   hardware.Collection
	controls hardware.Collection

	left, right *hardware.Motor
	driver      *hardware.Controller

	mode       DriveMode
	multiplier float64
	creeper    bool
}

func (d *DriveTrain) Inject(b component.Bindings) error {
	d.motors = b.Collection("motors_driveTrain")
	d.controls = b.Collection("controllers_driver")
	return nil
}

func (d *DriveTrain) Setup() error {
	var err error
	if d.left, err = d.motors.Motor("leftMotor"); err != nil {
		return fmt.Errorf("drivetrain: %w", err)
	}
	if d.right, err = d.motors.Motor("rightMotor"); err != nil {
		return fmt.Errorf("drivetrain: %w", err)
	}
	if d.driver, err = d.controls.Controller("driver"); err != nil {
		return fmt.Errorf("drivetrain: %w", err)
	}
	d.multiplier = defaultMultiplier
	return nil
}

func (d *DriveTrain) OnEnable() {
	d.mode = Tank
	d.creeper = false
}

// SetMode switches between tank and arcade drive.
func (d *DriveTrain) SetMode(m DriveMode) { d.mode = m }

// SetCreeper enables the reduced-speed mode.
func (d *DriveTrain) SetCreeper(on bool) { d.creeper = on }

// Multiplier returns the current speed scale.
func (d *DriveTrain) Multiplier() float64 {
	if d.creeper {
		return creeperMultiplier
	}
	return d.multiplier
}

// Tank sets each side directly.
func (d *DriveTrain) Tank(left, right float64) {
	m := d.Multiplier()
	d.left.Set(left * m)
	d.right.Set(right * m)
}

// Arcade mixes a forward speed with a rotation.
func (d *DriveTrain) Arcade(speed, rotation float64) {
	m := d.Multiplier()
	d.left.Set((speed + rotation) * m)
	d.right.Set((speed - rotation) * m)
}

// Stop halts both sides.
func (d *DriveTrain) Stop() {
	d.left.StopMotor()
	d.right.StopMotor()
}

func (d *DriveTrain) Execute() {
	s := d.driver.Snapshot()
	if d.mode == Arcade {
		d.Arcade(-s.LeftY, s.RightX)
		return
	}
	d.Tank(-s.LeftY, -s.RightY)
}
