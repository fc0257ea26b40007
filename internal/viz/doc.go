// Package viz draws scenes in the terminal.
//
// Wireframes are projected through an orbit [Camera] onto a braille
// [Canvas], two dots across and four down per character cell. [Model] is a
// Bubble Tea program that steps a scene in real time and charts its energy
// or hinge angle; [Picker] chooses a preset first.
//
// # Key Bindings
//
//	Space   - Pause/Resume
//	R       - Rebuild the scene
//	Arrows  - Orbit the camera
//	+/-     - Zoom
//	B/b     - Bend the hinge
//	T       - Cycle color themes
//	?       - Show help overlay
package viz
