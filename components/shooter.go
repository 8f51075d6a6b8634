package components

import (
	"fmt"

	"github.com/Raptacon/Robot-2020/core/component"
	"github.com/Raptacon/Robot-2020/core/hardware"
	"github.com/Raptacon/Robot-2020/core/input"
)

// Default shooter speeds.
const (
	LoaderSpeed  = 0.4
	IntakeSpeed  = 0.7
	ShooterSpeed = 1.0
)

// ShooterMotors owns the loader, intake and shooter motors. Other
// components request runs; Execute applies them.
type ShooterMotors struct {
	motors hardware.Collection

	loader, intake, shooter *hardware.Motor

	loaderSpeed, intakeSpeed, shooterSpeed float64
}

func (s *ShooterMotors) Inject(b component.Bindings) error {
	s.motors = b.Collection("motors_shooter")
	return nil
}

func (s *ShooterMotors) Setup() error {
	var err error
	if s.loader, err = s.motors.Motor("loaderMotor"); err != nil {
		return fmt.Errorf("shooter motors: %w", err)
	}
	if s.intake, err = s.motors.Motor("intakeMotor"); err != nil {
		return fmt.Errorf("shooter motors: %w", err)
	}
	if s.shooter, err = s.motors.Motor("shooterMotor"); err != nil {
		return fmt.Errorf("shooter motors: %w", err)
	}
	return nil
}

func (s *ShooterMotors) OnEnable() { s.StopAll() }

// RunLoader requests the loader at speed until stopped.
func (s *ShooterMotors) RunLoader(speed float64) { s.loaderSpeed = speed }

// RunIntake requests the intake at speed until stopped.
func (s *ShooterMotors) RunIntake(speed float64) { s.intakeSpeed = speed }

// RunShooter requests the shooter at speed until stopped.
func (s *ShooterMotors) RunShooter(speed float64) { s.shooterSpeed = speed }

// StopAll clears every request.
func (s *ShooterMotors) StopAll() {
	s.loaderSpeed, s.intakeSpeed, s.shooterSpeed = 0, 0, 0
}

func (s *ShooterMotors) LoaderRunning() bool  { return s.loaderSpeed != 0 }
func (s *ShooterMotors) ShooterRunning() bool { return s.shooterSpeed != 0 }

func (s *ShooterMotors) Execute() {
	s.loader.Set(s.loaderSpeed)
	s.intake.Set(s.intakeSpeed)
	s.shooter.Set(s.shooterSpeed)
}

// ShooterLogic turns driver triggers into shooter requests. It reaches the
// motors only through ShooterMotors.
type ShooterLogic struct {
	dep      component.Component
	controls hardware.Collection

	motors *ShooterMotors
	driver *hardware.Controller
}

func (l *ShooterLogic) Inject(b component.Bindings) error {
	l.dep = b.Component("ShooterMotors")
	l.controls = b.Collection("controllers_driver")
	return nil
}

func (l *ShooterLogic) Setup() error {
	m, ok := l.dep.(*ShooterMotors)
	if !ok {
		return fmt.Errorf("shooter logic: ShooterMotors is %T", l.dep)
	}
	l.motors = m
	var err error
	if l.driver, err = l.controls.Controller("driver"); err != nil {
		return fmt.Errorf("shooter logic: %w", err)
	}
	return nil
}

func (l *ShooterLogic) OnEnable() {}

// Right trigger shoots, left trigger intakes.
func (l *ShooterLogic) Execute() {
	s := l.driver.Snapshot()
	if s.Axis(input.RightTrigger) > 0 {
		l.motors.RunShooter(ShooterSpeed)
		l.motors.RunLoader(LoaderSpeed)
	} else {
		l.motors.RunShooter(0)
		l.motors.RunLoader(0)
	}
	if s.Axis(input.LeftTrigger) > 0 {
		l.motors.RunIntake(IntakeSpeed)
	} else {
		l.motors.RunIntake(0)
	}
}
