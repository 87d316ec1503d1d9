// Package viz is the terminal front end for the balloon field.
//
// [Model] is a Bubble Tea program driving a [lifecycle.Manager]: each tick
// steps the field and the frame is drawn on a braille [Canvas], one terminal
// cell covering 8x16 field units. The control strip on top holds the task
// input; the status line shows the balloon count and a kinetic energy
// sparkline.
//
// # Key Bindings
//
//	a, i   - Add a task (enter submits, esc closes the input)
//	tab    - Cycle the category for new tasks
//	click  - Hold or release a balloon; clicking empty sky releases
//	n      - Hold the next balloon
//	e      - Edit the held balloon
//	c, x   - Complete the held balloon
//	y      - Copy the held balloon's text
//	space  - Pause/Resume
//	q      - Quit
package viz
