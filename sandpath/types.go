package sandpath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/rdk/spatialmath"
)

// Waypoint is a point on the work-piece surface together with the
// orthonormal, right-handed tool frame the tool must assume there.
// The axes are unit length and satisfy x = y × z.
type Waypoint struct {
	Position r3.Vector
	XAxis    r3.Vector
	YAxis    r3.Vector
	ZAxis    r3.Vector
}

// Pose converts the waypoint to a spatialmath.Pose. The rotation matrix
// columns are the frame's x, y, and z axes.
func (w Waypoint) Pose() (spatialmath.Pose, error) {
	rm, err := spatialmath.NewRotationMatrix([]float64{
		w.XAxis.X, w.YAxis.X, w.ZAxis.X,
		w.XAxis.Y, w.YAxis.Y, w.ZAxis.Y,
		w.XAxis.Z, w.YAxis.Z, w.ZAxis.Z,
	})
	if err != nil {
		return nil, err
	}
	return spatialmath.NewPose(w.Position, rm), nil
}

// Path is an ordered sequence of waypoints. The index of a waypoint is
// its optimization timestep.
type Path []Waypoint

// AttachableObject is a named rigid body with a collision geometry at an
// identity local pose. The environment owns it once registered.
type AttachableObject struct {
	Name     string
	Geometry spatialmath.Geometry
}

// AttachedBody rigidly attaches a previously registered object to a
// parent link at a fixed transform.
type AttachedBody struct {
	ObjectName string
	ParentLink string
	Transform  spatialmath.Pose
}

// TermKind tags the variant of a cost or constraint term.
type TermKind int

const (
	// JointVelocityKind penalizes first differences of joint values.
	JointVelocityKind TermKind = iota
	// JointAccelerationKind penalizes second differences of joint values.
	JointAccelerationKind
	// CollisionKind penalizes pairwise clearance violations.
	CollisionKind
	// PoseKind pins a link's pose at one timestep.
	PoseKind
)

func (k TermKind) String() string {
	switch k {
	case JointVelocityKind:
		return "joint_velocity"
	case JointAccelerationKind:
		return "joint_acceleration"
	case CollisionKind:
		return "collision"
	case PoseKind:
		return "pose"
	default:
		return "unknown"
	}
}

// Term is one cost or constraint entry in a ProblemSpec.
type Term interface {
	Kind() TermKind
}

// JointVelocityCost penalizes joint velocity with one coefficient per
// joint dimension, applied over the entire horizon.
type JointVelocityCost struct {
	Coeffs []float64
}

// Kind implements Term.
func (JointVelocityCost) Kind() TermKind { return JointVelocityKind }

// JointAccelerationCost penalizes joint acceleration with one coefficient
// per joint dimension, applied over the entire horizon.
type JointAccelerationCost struct {
	Coeffs []float64
}

// Kind implements Term.
func (JointAccelerationCost) Kind() TermKind { return JointAccelerationKind }

// CollisionCost is a discrete pairwise-clearance penalty. Margins holds
// one safety-margin table per step in [FirstStep, LastStep].
type CollisionCost struct {
	Continuous bool
	FirstStep  int
	LastStep   int
	Gap        int
	Margins    []*SafetyMarginSpec
}

// Kind implements Term.
func (CollisionCost) Kind() TermKind { return CollisionKind }

// PoseConstraint pins a link's position and orientation at one timestep.
// Orientation is a scalar-first (w, x, y, z) quaternion. The coefficient
// vectors weight each translational and rotational axis; a zero entry
// leaves that axis unconstrained.
type PoseConstraint struct {
	Link        string
	Timestep    int
	Position    r3.Vector
	Orientation [4]float64
	PosCoeffs   r3.Vector
	RotCoeffs   r3.Vector
}

// Kind implements Term.
func (PoseConstraint) Kind() TermKind { return PoseKind }

// ProblemSpec is the declarative optimization problem handed to the
// solver. It is immutable once submitted.
type ProblemSpec struct {
	Steps       int
	Manipulator string
	StartFixed  bool

	// InitialGuess is a Steps × DOF matrix seeding the optimization.
	InitialGuess *mat.Dense

	Costs       []Term
	Constraints []Term
}

// TrajectorySample is one timestamped joint configuration.
type TrajectorySample struct {
	Positions   []float64
	ElapsedTime float64
}

// ResultTrajectory is the solver output converted to timestamped joint
// samples. Elapsed times are strictly increasing and every sample has
// the manipulator's DOF.
type ResultTrajectory struct {
	JointNames []string
	Samples    []TrajectorySample
}

// SolveStatus reports whether the solver converged. Non-convergence is a
// soft failure; the returned trajectory is still usable.
type SolveStatus int

const (
	// SolveConverged means the optimizer met its convergence criteria.
	SolveConverged SolveStatus = iota
	// SolveNotConverged means the optimizer stopped early; the result is
	// best-effort.
	SolveNotConverged
)

func (s SolveStatus) String() string {
	switch s {
	case SolveConverged:
		return "converged"
	case SolveNotConverged:
		return "not_converged"
	default:
		return "unknown"
	}
}
