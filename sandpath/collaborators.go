package sandpath

import (
	"context"
	"time"

	"gonum.org/v1/gonum/mat"
)

// Manipulator is a read-only handle to a kinematic chain registered with
// an Environment.
type Manipulator interface {
	BaseLinkName() string
	JointNames() []string
	NumJoints() int
}

// Environment is the externally owned collision/kinematics world the
// pipeline registers geometry with and reads joint state from. It is
// treated as exclusively owned by the pipeline for the duration of a run.
type Environment interface {
	// AddAttachableObject registers a rigid body with the environment's
	// object database. Registration alone does not include the object in
	// collision checks.
	AddAttachableObject(obj *AttachableObject) error

	// AttachBody rigidly connects a registered object to a parent link,
	// making it part of the collision world.
	AttachBody(body AttachedBody) error

	// AddManipulator defines a named kinematic chain from a base link to
	// a tip link. Returns false if the chain cannot be built.
	AddManipulator(ctx context.Context, baseLink, tipLink, name string) bool

	// Manipulator returns the handle for a previously added chain.
	Manipulator(name string) (Manipulator, error)

	// CurrentJointValues reads the manipulator's current joint vector.
	CurrentJointValues(ctx context.Context, manipulator string) ([]float64, error)

	// JointNames lists every joint the environment knows about.
	JointNames() []string

	// SetState overrides the environment's stored joint state.
	SetState(names []string, values []float64) error
}

// Solver is the external nonlinear optimizer. It consumes a ProblemSpec
// and a seed trajectory and returns a status plus a Steps × DOF joint
// matrix. A non-converged status is not an error; the matrix still holds
// the optimizer's best effort.
type Solver interface {
	Solve(ctx context.Context, spec *ProblemSpec, seed *mat.Dense) (SolveStatus, *mat.Dense, error)
}

// Executor is the remote trajectory-actuation service. Run blocks until
// the service reports a terminal state or its connect timeout elapses.
type Executor interface {
	Run(ctx context.Context, traj ResultTrajectory, goalTimeTolerance time.Duration) error
}
