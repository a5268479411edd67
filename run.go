package sandpass

import (
	"context"
	"fmt"

	"go.viam.com/rdk/referenceframe"

	"github.com/smith-doug/sandpass/sandpath"
)

// sceneSnapshotter is implemented by environments that can report their
// registered collision world for visualization.
type sceneSnapshotter interface {
	SceneSnapshot() []*referenceframe.GeometriesInFrame
}

// Run executes one planning pass end to end: path generation, scene
// setup, problem formulation, a single solver attempt, and a single
// execution attempt. There are no retries at any stage; non-convergence
// is a warning, not an abort. Cancellation is honored up to the moment
// the solve is issued.
func Run(ctx context.Context, p *Pipeline) error {
	path := sandpath.GeneratePath(p.cfg.Path)
	p.logger.Infof("Generated %d surface waypoints (%d slices)", len(path), p.cfg.Path.Slices)
	p.publishPathSnapshot(path)

	if err := sandpath.BuildScene(p.env, p.cfg.Scene); err != nil {
		return fmt.Errorf("build scene: %w", err)
	}
	p.publishSceneSnapshot()

	if p.cfg.ZeroStartState {
		names := p.env.JointNames()
		if err := p.env.SetState(names, make([]float64, len(names))); err != nil {
			return fmt.Errorf("zero start state: %w", err)
		}
	}

	spec, err := sandpath.FormulateProblem(ctx, p.env, path, p.cfg.Problem)
	if err != nil {
		return fmt.Errorf("formulate problem: %w", err)
	}
	p.logger.Infof("Formulated problem: %d steps, %d costs, %d constraints",
		spec.Steps, len(spec.Costs), len(spec.Constraints))

	// Last cancellation point; once the solve starts it runs to completion.
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	status, result, err := p.solver.Solve(ctx, spec, spec.InitialGuess)
	if err != nil {
		return fmt.Errorf("solve: %w", err)
	}
	if status != sandpath.SolveConverged {
		p.logger.Warnf("Solver did not converge; continuing with best-effort trajectory")
	}

	manip, err := p.env.Manipulator(p.cfg.Problem.Manipulator)
	if err != nil {
		return fmt.Errorf("%w: %q: %s", sandpath.ErrUnknownManipulator, p.cfg.Problem.Manipulator, err)
	}
	traj := sandpath.ExtractTrajectory(result, manip.JointNames(), p.cfg.TimeStep)

	if err := p.executor.Run(ctx, traj, p.cfg.GoalTimeTolerance); err != nil {
		return fmt.Errorf("%w: %s", sandpath.ErrExecutionFailed, err)
	}
	p.logger.Infof("Executed %d-sample trajectory", len(traj.Samples))
	return nil
}

// publishPathSnapshot logs the generated path as a pose list. Write-only
// observability; failures are never fatal.
func (p *Pipeline) publishPathSnapshot(path sandpath.Path) {
	snap, err := sandpath.PathSnapshot(path, p.cfg.Scene.ParentFrame)
	if err != nil {
		p.logger.Warnf("Path snapshot failed: %v", err)
		return
	}
	b, err := sandpath.MarshalPathSnapshot(snap)
	if err != nil {
		p.logger.Warnf("Path snapshot marshal failed: %v", err)
		return
	}
	p.logger.Debugf("Path snapshot (%d poses): %s", len(snap), b)
}

// publishSceneSnapshot logs the registered collision world, when the
// environment can report it.
func (p *Pipeline) publishSceneSnapshot() {
	env, ok := p.env.(sceneSnapshotter)
	if !ok {
		return
	}
	snap := env.SceneSnapshot()
	for _, gif := range snap {
		p.logger.Debugf("Scene: %d geometries attached to %q", len(gif.Geometries()), gif.Parent())
	}
	p.logger.Infof("Scene registered: %d attachment frames", len(snap))
}
