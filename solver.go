package sandpass

import (
	"context"

	"github.com/go-nlopt/nlopt"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/referenceframe"

	"github.com/smith-doug/sandpass/sandpath"
)

const (
	solverMaxEvals = 5000
	solverTol      = 1e-6
	gradientJump   = 1e-8
)

// BodyClearance is the signed distance between one pair of collision
// bodies; negative means interpenetration.
type BodyClearance struct {
	A        string
	B        string
	Distance float64
}

// ClearanceFunc reports pairwise clearances at one joint configuration.
// The solver uses it to evaluate collision cost terms; distance queries
// belong to the environment, not the optimizer.
type ClearanceFunc func(joints []float64) []BodyClearance

// NloptSolver minimizes a ProblemSpec with SLSQP over the stacked
// trajectory variables (steps × DOF). Smoothness costs are evaluated as
// finite differences, pose constraints as weighted quadratic penalties
// through the model's forward kinematics, and collision terms as hinge
// penalties through the clearance callback. Gradients are estimated by
// forward differences, mutating nlopt's gradient slice in place.
type NloptSolver struct {
	logger    logging.Logger
	model     referenceframe.Frame
	clearance ClearanceFunc
	maxEvals  int

	fkFailed bool
}

// NewNloptSolver creates a solver over the given kinematics model.
// clearance may be nil; collision terms then contribute nothing and a
// warning is logged per solve.
func NewNloptSolver(model referenceframe.Frame, logger logging.Logger, clearance ClearanceFunc) (*NloptSolver, error) {
	if model == nil {
		return nil, errors.New("solver needs a kinematics model")
	}
	return &NloptSolver{
		logger:    logger,
		model:     model,
		clearance: clearance,
		maxEvals:  solverMaxEvals,
	}, nil
}

// Solve implements sandpath.Solver. A single optimization attempt is
// made; when the optimizer stops early the seed (or partial result) is
// returned with a not-converged status rather than an error.
func (s *NloptSolver) Solve(
	ctx context.Context,
	spec *sandpath.ProblemSpec,
	seed *mat.Dense,
) (sandpath.SolveStatus, *mat.Dense, error) {
	rows, cols := seed.Dims()
	if rows != spec.Steps {
		return sandpath.SolveNotConverged, nil,
			errors.Errorf("seed has %d rows for %d steps", rows, spec.Steps)
	}
	if len(s.model.DoF()) != cols {
		return sandpath.SolveNotConverged, nil,
			errors.Errorf("seed has %d columns for a %d-DOF model", cols, len(s.model.DoF()))
	}
	if err := ctx.Err(); err != nil {
		return sandpath.SolveNotConverged, nil, err
	}
	if s.clearance == nil && hasCollisionTerm(spec) {
		s.logger.Warnf("No clearance source configured; collision terms will not contribute")
	}

	dim := rows * cols
	opt, err := nlopt.NewNLopt(nlopt.LD_SLSQP, uint(dim))
	if err != nil {
		return sandpath.SolveNotConverged, nil, errors.Wrap(err, "nlopt creation error")
	}
	defer opt.Destroy()

	objective := func(x, gradient []float64) float64 {
		cost := s.cost(spec, x, rows, cols)
		for i := range gradient {
			orig := x[i]
			x[i] = orig + gradientJump
			gradient[i] = (s.cost(spec, x, rows, cols) - cost) / gradientJump
			x[i] = orig
		}
		return cost
	}

	lower, upper := s.bounds(rows, cols)
	err = multierr.Combine(
		opt.SetMinObjective(objective),
		opt.SetLowerBounds(lower),
		opt.SetUpperBounds(upper),
		opt.SetFtolRel(solverTol),
		opt.SetFtolAbs(solverTol),
		opt.SetXtolRel(solverTol),
		opt.SetMaxEval(s.maxEvals),
	)
	if err != nil {
		return sandpath.SolveNotConverged, nil, errors.Wrap(err, "nlopt configuration error")
	}

	seedFlat := flatten(seed)
	solution, score, optErr := opt.Optimize(seedFlat)
	if optErr != nil || solution == nil {
		// Nonlinear problems stop early for all sorts of reasons; hand
		// back the best trajectory we have and let the caller decide.
		s.logger.Warnf("Optimizer stopped early: %v", optErr)
		if solution == nil {
			solution = seedFlat
		}
		return sandpath.SolveNotConverged, unflatten(solution, rows, cols), nil
	}
	s.logger.Debugf("Optimizer finished with objective %g", score)
	return sandpath.SolveConverged, unflatten(solution, rows, cols), nil
}

// cost evaluates the full objective for one stacked trajectory x.
func (s *NloptSolver) cost(spec *sandpath.ProblemSpec, x []float64, rows, cols int) float64 {
	total := 0.0

	for _, term := range spec.Costs {
		switch t := term.(type) {
		case sandpath.JointVelocityCost:
			for step := 0; step+1 < rows; step++ {
				for j := 0; j < cols; j++ {
					d := x[(step+1)*cols+j] - x[step*cols+j]
					total += t.Coeffs[j] * d * d
				}
			}
		case sandpath.JointAccelerationCost:
			for step := 0; step+2 < rows; step++ {
				for j := 0; j < cols; j++ {
					d := x[(step+2)*cols+j] - 2*x[(step+1)*cols+j] + x[step*cols+j]
					total += t.Coeffs[j] * d * d
				}
			}
		case sandpath.CollisionCost:
			total += s.collisionCost(t, x, rows, cols)
		}
	}

	for _, term := range spec.Constraints {
		pc, ok := term.(sandpath.PoseConstraint)
		if !ok || pc.Timestep < 0 || pc.Timestep >= rows {
			continue
		}
		total += s.posePenalty(pc, x[pc.Timestep*cols:(pc.Timestep+1)*cols])
	}
	return total
}

func (s *NloptSolver) collisionCost(t sandpath.CollisionCost, x []float64, rows, cols int) float64 {
	if s.clearance == nil {
		return 0
	}
	gap := t.Gap
	if gap < 1 {
		gap = 1
	}
	total := 0.0
	for step := t.FirstStep; step <= t.LastStep && step < rows; step += gap {
		idx := step - t.FirstStep
		if idx >= len(t.Margins) {
			break
		}
		margins := t.Margins[idx]
		joints := x[step*cols : (step+1)*cols]
		for _, c := range s.clearance(joints) {
			entry := margins.Pair(c.A, c.B)
			if violation := entry.Distance - c.Distance; violation > 0 {
				total += entry.Coeff * violation
			}
		}
	}
	return total
}

func (s *NloptSolver) posePenalty(pc sandpath.PoseConstraint, joints []float64) float64 {
	pose, err := s.model.Transform(joints)
	if err != nil || pose == nil {
		if !s.fkFailed {
			s.fkFailed = true
			s.logger.Warnf("Forward kinematics failed during optimization: %v", err)
		}
		return 1e10
	}

	dp := pose.Point().Sub(pc.Position)
	total := pc.PosCoeffs.X*dp.X*dp.X + pc.PosCoeffs.Y*dp.Y*dp.Y + pc.PosCoeffs.Z*dp.Z*dp.Z

	target := quat.Number{
		Real: pc.Orientation[0],
		Imag: pc.Orientation[1],
		Jmag: pc.Orientation[2],
		Kmag: pc.Orientation[3],
	}
	e := quatError(target, pose.Orientation().Quaternion())
	total += pc.RotCoeffs.X*e.X*e.X + pc.RotCoeffs.Y*e.Y*e.Y + pc.RotCoeffs.Z*e.Z*e.Z
	return total
}

// quatError is the small-angle rotation residual between two unit
// quaternions, expressed per-axis in the target frame so that a
// zero-weighted axis is genuinely unconstrained.
func quatError(target, actual quat.Number) r3.Vector {
	d := quat.Mul(quat.Conj(target), actual)
	if d.Real < 0 {
		d = quat.Scale(-1, d)
	}
	return r3.Vector{X: 2 * d.Imag, Y: 2 * d.Jmag, Z: 2 * d.Kmag}
}

// bounds tiles the model's joint limits across every step.
func (s *NloptSolver) bounds(rows, cols int) ([]float64, []float64) {
	lower := make([]float64, rows*cols)
	upper := make([]float64, rows*cols)
	limits := s.model.DoF()
	for step := 0; step < rows; step++ {
		for j := 0; j < cols; j++ {
			lower[step*cols+j] = limits[j].Min
			upper[step*cols+j] = limits[j].Max
		}
	}
	return lower, upper
}

func hasCollisionTerm(spec *sandpath.ProblemSpec) bool {
	for _, term := range spec.Costs {
		if term.Kind() == sandpath.CollisionKind {
			return true
		}
	}
	return false
}

func flatten(m *mat.Dense) []float64 {
	rows, cols := m.Dims()
	out := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		row := make([]float64, cols)
		mat.Row(row, i, m)
		out = append(out, row...)
	}
	return out
}

func unflatten(x []float64, rows, cols int) *mat.Dense {
	data := make([]float64, len(x))
	copy(data, x)
	return mat.NewDense(rows, cols, data)
}
