// Package viz is the terminal front end of springlab.
//
// The live view is a Bubble Tea program fed by the throttled snapshots of a
// running [sim.Loop]. It draws the spring on a braille [Canvas], charts the
// position history with asciigraph and forwards keys and mouse gestures back
// to the loop.
//
// # Key Bindings
//
//	Space - Start/stop
//	R     - Reset
//	Tab   - Select mass, stiffness or damping
//	Up/K  - Increase the selected parameter by 5%
//	Down/J- Decrease the selected parameter by 5%
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help
//	Q     - Quit
//
// # Mouse
//
// Press on the mass to grab it, drag to move it and release to throw it.
package viz
