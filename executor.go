package sandpass

import (
	"context"
	"fmt"
	"time"

	"go.viam.com/rdk/components/arm"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/referenceframe"

	"github.com/smith-doug/sandpass/sandpath"
)

// serverConnectTimeout bounds the reachability probe before a trajectory
// is handed to the actuation service.
const serverConnectTimeout = 2 * time.Second

// jointMover is the slice of the arm API the executor needs; arm.Arm
// satisfies it.
type jointMover interface {
	JointPositions(ctx context.Context, extra map[string]interface{}) ([]referenceframe.Input, error)
	MoveThroughJointPositions(
		ctx context.Context,
		positions [][]referenceframe.Input,
		options *arm.MoveOptions,
		extra map[string]interface{},
	) error
}

// ArmExecutor drives a result trajectory on a live arm component. One
// attempt, no retries; a failed probe or rejected goal is reported to the
// caller and nothing else.
type ArmExecutor struct {
	logger logging.Logger
	arm    jointMover
}

// NewArmExecutor creates an executor over the given arm.
func NewArmExecutor(a jointMover, logger logging.Logger) *ArmExecutor {
	return &ArmExecutor{logger: logger, arm: a}
}

// Run implements sandpath.Executor. It probes the component under the
// fixed connect timeout, then blocks on the full joint-position sweep.
func (e *ArmExecutor) Run(ctx context.Context, traj sandpath.ResultTrajectory, goalTimeTolerance time.Duration) error {
	if len(traj.Samples) == 0 {
		return fmt.Errorf("empty trajectory")
	}

	probeCtx, cancel := context.WithTimeout(ctx, serverConnectTimeout)
	defer cancel()
	if _, err := e.arm.JointPositions(probeCtx, nil); err != nil {
		return fmt.Errorf("arm unreachable within %v: %w", serverConnectTimeout, err)
	}

	positions := make([][]referenceframe.Input, 0, len(traj.Samples))
	for _, sample := range traj.Samples {
		positions = append(positions, sample.Positions)
	}

	e.logger.Infof("Executing %d-sample trajectory (%d joints, goal time tolerance %v)",
		len(positions), len(traj.JointNames), goalTimeTolerance)
	if err := e.arm.MoveThroughJointPositions(ctx, positions, nil, nil); err != nil {
		return fmt.Errorf("move through joint positions: %w", err)
	}
	return nil
}

// LogExecutor is a dry-run stand-in that reports the trajectory without
// actuating anything.
type LogExecutor struct {
	logger logging.Logger
}

// NewLogExecutor creates a dry-run executor.
func NewLogExecutor(logger logging.Logger) *LogExecutor {
	return &LogExecutor{logger: logger}
}

// Run implements sandpath.Executor.
func (e *LogExecutor) Run(_ context.Context, traj sandpath.ResultTrajectory, goalTimeTolerance time.Duration) error {
	e.logger.Infof("Dry run: %d samples over %g time units (goal time tolerance %v)",
		len(traj.Samples), trajDuration(traj), goalTimeTolerance)
	return nil
}

func trajDuration(traj sandpath.ResultTrajectory) float64 {
	if len(traj.Samples) == 0 {
		return 0
	}
	return traj.Samples[len(traj.Samples)-1].ElapsedTime
}
