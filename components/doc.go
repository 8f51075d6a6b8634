// Package components holds the robot's control components and their
// declarations. Each component states its compatible variants and the
// collections or components it needs; the filter in core/component decides
// which of them run.
package components

import "github.com/Raptacon/Robot-2020/core/component"

// Declarations returns a fresh set of every component. Components carry
// state, so each boot gets its own set.
func Declarations() []component.Declaration {
	motors := &ShooterMotors{}
	return []component.Declaration{
		{
			Name:          "DriveTrain",
			Component:     &DriveTrain{},
			Compatibility: component.Compatibility{component.All},
			Dependencies: []component.Dependency{
				component.Collection("motors_driveTrain"),
				component.Collection("controllers_driver"),
			},
		},
		{
			Name:          "ShooterMotors",
			Component:     motors,
			Compatibility: component.Compatibility{"doof"},
			Dependencies:  []component.Dependency{component.Collection("motors_shooter")},
		},
		{
			Name:          "ShooterLogic",
			Component:     &ShooterLogic{},
			Compatibility: component.Compatibility{"doof"},
			Dependencies: []component.Dependency{
				component.On("ShooterMotors"),
				component.Collection("controllers_driver"),
			},
		},
		{
			Name:          "Winch",
			Component:     &Winch{},
			Compatibility: component.Compatibility{"scorpion"},
			Dependencies: []component.Dependency{
				component.Collection("motors_winch"),
				component.Collection("controllers_driver"),
			},
		},
		{
			Name:          "Pneumatics",
			Component:     &Pneumatics{},
			Compatibility: component.Compatibility{"doof"},
			Dependencies:  []component.Dependency{component.Collection("pneumatics_pneumatics")},
		},
		{
			Name:      "Intake",
			Component: &Intake{},
			Dependencies: []component.Dependency{
				component.Collection("motors_intake"),
				component.Collection("controllers_driver"),
			},
		},
	}
}
