// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package drive

// ArcadeMix converts forward speed and rotation, both in [-1, 1], into left and
// right wheel commands.
//
// Each side is clamped independently. When speed and rotation saturate
// together the larger side is truncated to 1, the pair is not rescaled.
func ArcadeMix(speed, rotation float64) DriveCommand {
	left := 0.5 * (speed - rotation)
	right := 0.5 * (speed + rotation)

	return DriveCommand{
		Left:  clampUnit(left),
		Right: clampUnit(right),
	}
}
