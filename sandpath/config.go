package sandpath

import (
	"math"
	"time"

	"github.com/golang/geo/r3"

	"go.viam.com/rdk/spatialmath"
)

// Config holds all configuration for one planning run.
type Config struct {
	Path    PathConfig
	Scene   SceneConfig
	Problem ProblemConfig

	// TimeStep is the elapsed time between consecutive trajectory samples.
	TimeStep float64

	// GoalTimeTolerance is passed to the trajectory executor.
	GoalTimeTolerance time.Duration

	// ZeroStartState zeroes the environment's joint state before
	// formulation (useful against a simulated work cell).
	ZeroStartState bool
}

// PathConfig holds the cylinder coverage-pattern parameters. Distances
// are in meters, angles in radians.
type PathConfig struct {
	Radius      float64          // cylinder radius
	Slices      int              // number of height slices
	SliceHeight float64          // height increment between slices
	AngleStep   float64          // angular increment within a slice
	Origin      spatialmath.Pose // pose of the cylinder's bottom center; nil = identity
}

// SceneConfig holds the work-piece registration parameters.
type SceneConfig struct {
	PartName    string    // collision body name for the work-piece
	ParentFrame string    // link the part is rigidly attached to
	Offset      r3.Vector // translation of the part relative to the parent
	Radius      float64   // part cylinder radius
	Length      float64   // part cylinder length
}

// MarginOverride replaces the default safety margin for one unordered
// body pair. A negative distance permits controlled interpenetration.
type MarginOverride struct {
	BodyA    string
	BodyB    string
	Distance float64
	Coeff    float64
}

// ProblemConfig holds the optimization-problem parameters.
type ProblemConfig struct {
	Manipulator string // name of the registered kinematic chain
	ToolLink    string // link pinned by the per-waypoint pose constraints

	VelocityCoeff     float64 // per-joint velocity cost coefficient
	AccelerationCoeff float64 // per-joint acceleration cost coefficient

	DefaultMargin      float64 // minimum clearance for unlisted body pairs
	DefaultMarginCoeff float64 // penalty coefficient for unlisted body pairs
	MarginOverrides    []MarginOverride

	PosCoeffs r3.Vector // per-axis position weights for pose constraints
	RotCoeffs r3.Vector // per-axis rotation weights; zero frees that axis
}

// DefaultConfig returns the work cell's standard finishing-pass setup:
// a 0.2 m cylinder swept in 5 slices of 25 angular samples, with the
// sander disk allowed to press 10 mm into the part surface.
func DefaultConfig() Config {
	return Config{
		Path: PathConfig{
			Radius:      0.2,
			Slices:      5,
			SliceHeight: 0.1,
			AngleStep:   math.Pi / 12,
			Origin:      spatialmath.NewPoseFromPoint(r3.Vector{X: 1.0, Y: 0, Z: 0.5}),
		},
		Scene: SceneConfig{
			PartName:    "part",
			ParentFrame: "world",
			Offset:      r3.Vector{X: 1.0, Y: 0, Z: 0.5},
			Radius:      0.2,
			Length:      1.0,
		},
		Problem: ProblemConfig{
			Manipulator:        "sander-arm",
			ToolLink:           "sander_tcp",
			VelocityCoeff:      2.5,
			AccelerationCoeff:  5.0,
			DefaultMargin:      0.025,
			DefaultMarginCoeff: 20.0,
			MarginOverrides: []MarginOverride{
				{BodyA: "sander_disk", BodyB: "part", Distance: -0.01, Coeff: 20.0},
				{BodyA: "sander_shaft", BodyB: "part", Distance: 0.0, Coeff: 20.0},
			},
			PosCoeffs: r3.Vector{X: 10, Y: 10, Z: 10},
			RotCoeffs: r3.Vector{X: 10, Y: 10, Z: 0},
		},
		TimeStep:          1.0,
		GoalTimeTolerance: time.Second,
	}
}
