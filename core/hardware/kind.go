// Package hardware models the robot's hardware objects and registers the
// type names a manifest may use.
//
// Objects hold commanded and sensed state only. Binding them to physical
// devices is the driver layer's job.
package hardware

import (
	"context"
	"fmt"
)

// Kind is the closed set of hardware object kinds.
type Kind int

const (
	KindTalonSRX Kind = iota + 1
	KindTalonFX
	KindSparkMax
	KindCompressor
	KindSolenoid
	KindDoubleSolenoid
	KindGyro
	KindDigitalInput
	KindController
)

func (k Kind) String() string {
	switch k {
	case KindTalonSRX:
		return "TalonSRX"
	case KindTalonFX:
		return "TalonFX"
	case KindSparkMax:
		return "SparkMax"
	case KindCompressor:
		return "Compressor"
	case KindSolenoid:
		return "Solenoid"
	case KindDoubleSolenoid:
		return "DoubleSolenoid"
	case KindGyro:
		return "Gyro"
	case KindDigitalInput:
		return "DigitalInput"
	case KindController:
		return "Controller"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Family returns the channel namespace shared by masters and followers of
// this kind, or "" when the kind cannot be followed.
func (k Kind) Family() string {
	switch k {
	case KindTalonSRX:
		return "ctre-srx"
	case KindTalonFX:
		return "ctre-fx"
	case KindSparkMax:
		return "rev"
	}
	return ""
}

// Object is a constructed hardware resource.
type Object interface {
	Kind() Kind
}

// Starter is implemented by objects owning background work, such as input
// samplers. Start must return promptly; the work ends when ctx is done.
type Starter interface {
	Start(ctx context.Context)
}

// Collection maps item names to the objects of one group of one subsystem.
type Collection map[string]Object

// Motor returns the named item as a motor.
func (c Collection) Motor(name string) (*Motor, error) {
	return lookup[*Motor](c, name)
}

// Controller returns the named item as a controller.
func (c Collection) Controller(name string) (*Controller, error) {
	return lookup[*Controller](c, name)
}

// Solenoid returns the named item as a single solenoid.
func (c Collection) Solenoid(name string) (*Solenoid, error) {
	return lookup[*Solenoid](c, name)
}

// DoubleSolenoid returns the named item as a double solenoid.
func (c Collection) DoubleSolenoid(name string) (*DoubleSolenoid, error) {
	return lookup[*DoubleSolenoid](c, name)
}

// Compressor returns the named item as a compressor.
func (c Collection) Compressor(name string) (*Compressor, error) {
	return lookup[*Compressor](c, name)
}

// DigitalInput returns the named item as a digital input.
func (c Collection) DigitalInput(name string) (*DigitalInput, error) {
	return lookup[*DigitalInput](c, name)
}

// Gyro returns the named item as a gyro.
func (c Collection) Gyro(name string) (*Gyro, error) {
	return lookup[*Gyro](c, name)
}

func lookup[T Object](c Collection, name string) (T, error) {
	var zero T
	obj, ok := c[name]
	if !ok {
		return zero, fmt.Errorf("no item %q", name)
	}
	t, ok := obj.(T)
	if !ok {
		return zero, fmt.Errorf("item %q is a %s, not a %T", name, obj.Kind(), zero)
	}
	return t, nil
}
