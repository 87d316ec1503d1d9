// Package control computes the forces that keep balloons floating.
//
// [Drift] is a soft proportional height controller with buoyancy, sway and
// jitter terms. It runs once per step over every balloon that is not held:
//
//	drift := control.NewDrift(cfg.Drift, src)
//	drift.Apply(balloons, focusMachine.IsFocused)
//	world.Step()
//
// Held balloons receive no force and keep their drift phase.
// Drift implements GetParams / SetParam for live tuning.
package control
