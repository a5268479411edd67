package sandpath

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// FormulateProblem assembles the declarative optimization problem for the
// given path against the environment's registered manipulator. The step
// count equals the path length and the first step is not fixed, so the
// solver may adjust even the initial configuration. The initial guess is
// the current joint vector replicated across every step (stationary
// seed), which is feasible regardless of the path geometry.
//
// FormulateProblem never invokes the solver; it only assembles the
// problem.
func FormulateProblem(ctx context.Context, env Environment, path Path, cfg ProblemConfig) (*ProblemSpec, error) {
	if len(path) == 0 {
		return nil, ErrEmptyPath
	}

	manip, err := env.Manipulator(cfg.Manipulator)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %s", ErrUnknownManipulator, cfg.Manipulator, err)
	}
	dof := manip.NumJoints()

	current, err := env.CurrentJointValues(ctx, cfg.Manipulator)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrJointState, err)
	}
	if len(current) != dof {
		return nil, fmt.Errorf("%w: read %d values for %d joints", ErrJointState, len(current), dof)
	}

	steps := len(path)
	seed := mat.NewDense(steps, dof, nil)
	for i := 0; i < steps; i++ {
		seed.SetRow(i, current)
	}

	spec := &ProblemSpec{
		Steps:        steps,
		Manipulator:  cfg.Manipulator,
		StartFixed:   false,
		InitialGuess: seed,
		Costs: []Term{
			JointVelocityCost{Coeffs: uniformCoeffs(dof, cfg.VelocityCoeff)},
			JointAccelerationCost{Coeffs: uniformCoeffs(dof, cfg.AccelerationCoeff)},
			collisionCost(steps, cfg),
		},
	}

	for i, wp := range path {
		pose, err := wp.Pose()
		if err != nil {
			return nil, fmt.Errorf("waypoint %d frame: %w", i, err)
		}
		q := pose.Orientation().Quaternion()
		spec.Constraints = append(spec.Constraints, PoseConstraint{
			Link:        cfg.ToolLink,
			Timestep:    i,
			Position:    wp.Position,
			Orientation: [4]float64{q.Real, q.Imag, q.Jmag, q.Kmag},
			PosCoeffs:   cfg.PosCoeffs,
			RotCoeffs:   cfg.RotCoeffs,
		})
	}

	return spec, nil
}

// collisionCost builds the single discrete collision term spanning the
// whole horizon, with a per-step margin table carrying the configured
// pair overrides.
func collisionCost(steps int, cfg ProblemConfig) CollisionCost {
	margins := make([]*SafetyMarginSpec, steps)
	for i := range margins {
		m := NewSafetyMarginSpec(cfg.DefaultMargin, cfg.DefaultMarginCoeff)
		for _, o := range cfg.MarginOverrides {
			m.SetPair(o.BodyA, o.BodyB, o.Distance, o.Coeff)
		}
		margins[i] = m
	}
	return CollisionCost{
		Continuous: false,
		FirstStep:  0,
		LastStep:   steps - 1,
		Gap:        1,
		Margins:    margins,
	}
}

func uniformCoeffs(dof int, value float64) []float64 {
	coeffs := make([]float64, dof)
	for i := range coeffs {
		coeffs[i] = value
	}
	return coeffs
}
