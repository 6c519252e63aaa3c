// Package viz renders a falling-rope simulation live in the terminal.
//
// The package implements a Bubble Tea program around an already
// constructed world: each tick advances the physics by a batch of
// steps, projects the rope polyline and ground line onto a Braille
// sub-pixel [Canvas], and redraws alongside a stats panel with a
// tension trace.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	T     - Cycle color themes
//	Q     - Quit
package viz
