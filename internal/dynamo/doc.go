// Package dynamo provides the rigid-body world the balloon field runs on.
//
// The package defines a deliberately small 2D physics engine:
//
//   - [Body]: circle or axis-aligned rectangle with mass, air friction and restitution
//   - [Filter]: category/mask collision filtering
//   - [Constraint]: soft distance constraint between two bodies
//   - [Composite]: a group of bodies and constraints added or removed as one unit
//   - [World]: owns bodies and constraints and advances them one step at a time
//
// # Stepping
//
// A step runs in a fixed order: gravity, integration, constraint relaxation,
// collision resolution, and finally force clearing. Forces applied with
// [Body.ApplyForce] before [World.Step] are consumed by that step.
//
//	w := dynamo.NewWorld(dynamo.DefaultWorldConfig(), integrators.NewVerlet())
//	ball := dynamo.NewCircle(100, 100, 20, dynamo.BodyOptions{Density: 0.001})
//	w.Add(ball)
//	ball.ApplyForce(r2.Vec{Y: -0.01})
//	w.Step()
//
// Time is expressed in milliseconds, so force constants are small.
//
// # Thread Safety
//
// A World is NOT thread-safe. It is meant to be driven from a single frame loop.
package dynamo
