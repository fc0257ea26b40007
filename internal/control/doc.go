// Package control provides feedback for driven joints.
//
// A [PID] turns the error between a setpoint and a measurement into a rate:
//
//	pid := control.NewPID(4, 0, 0, math.Pi/4)    // Kp, Ki, Kd, setpoint
//	pid.Limit = 1                              // rad/s
//	rate := pid.Compute(hinge.Angle(), t)
//	hinge.Bend(rate * dt)
package control
