// Package manifest parses hardware manifests into a nested
// Subsystem → Group → Item → Descriptor mapping.
//
// A manifest is a JSON or YAML document:
//
//	default: doof
//	variants:
//	  doof: doof.yml
//	driveTrain:
//	  motors:
//	    leftMotor: {type: CANTalonFX, channel: 30}
//	shooter:
//	  file: shooter.yml
//	  format: yaml
//
// The top-level keys default, variants and compatibility are reserved. An
// entry carrying a file key is a reference: the named document is loaded
// recursively and its subsystems are merged in. Loading has no side effects
// beyond reading files.
package manifest
