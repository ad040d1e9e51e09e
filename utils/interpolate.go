// SPDX-License-Identifier: EPL-2.0

package utils

// CatmullRom interpolates between y1 and y2 at x in [0, 1], using y0 and y3
// as the outer control points. It returns y1 at x=0 and y2 at x=1, and
// reproduces straight lines exactly.
func CatmullRom(y0, y1, y2, y3, x float32) float32 {
	a := 0.5 * (3*(y1-y2) + y3 - y0)
	b := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	c := 0.5 * (y2 - y0)

	return ((a*x+b)*x+c)*x + y1
}
