package sandpath

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/rdk/spatialmath"
)

// GeneratePath produces the ordered waypoint sequence covering the
// lateral surface of the configured cylinder. The outer loop walks height
// slices bottom-up; the inner loop walks the angle from 0 through 2π
// inclusive, so the first and last waypoint of each ring coincide. That
// duplicate closes the loop and is deliberate; do not deduplicate it.
//
// At each sample the tool frame's z-axis points from the surface toward
// the cylinder's central axis at that height, the y-axis is the tangent
// of the angular parameter, and x = y × z.
func GeneratePath(cfg PathConfig) Path {
	origin := cfg.Origin
	if origin == nil {
		origin = spatialmath.NewZeroPose()
	}

	steps := angleSteps(cfg.AngleStep)
	path := make(Path, 0, cfg.Slices*(steps+1))

	for i := 0; i < cfg.Slices; i++ {
		z := float64(i) * cfg.SliceHeight
		sliceCenter := spatialmath.Compose(origin, spatialmath.NewPoseFromPoint(r3.Vector{Z: z}))
		centerPt := sliceCenter.Point()

		for k := 0; k <= steps; k++ {
			angle := float64(k) * cfg.AngleStep
			offset := r3.Vector{
				X: cfg.Radius * math.Cos(angle),
				Y: cfg.Radius * math.Sin(angle),
			}
			surface := spatialmath.Compose(sliceCenter, spatialmath.NewPoseFromPoint(offset)).Point()

			zAxis := centerPt.Sub(surface).Normalize()
			yAxis := r3.Vector{X: -math.Sin(angle), Y: math.Cos(angle)}.Normalize()
			xAxis := yAxis.Cross(zAxis).Normalize()

			path = append(path, Waypoint{
				Position: surface,
				XAxis:    xAxis,
				YAxis:    yAxis,
				ZAxis:    zAxis,
			})
		}
	}
	return path
}

// angleSteps returns the number of full angular increments in one
// revolution, ⌈2π/step⌉. The division is nudged before the ceiling so an
// exact divisor is not pushed to an extra step by float noise.
func angleSteps(step float64) int {
	return int(math.Ceil(2*math.Pi/step - 1e-9))
}
