package sandpass

import (
	"go.viam.com/rdk/logging"

	"github.com/smith-doug/sandpass/sandpath"
)

// Pipeline owns everything one finishing pass needs: the configuration,
// the collision/kinematics environment, the nonlinear solver, and the
// trajectory executor. It holds the environment exclusively for the
// duration of a run; nothing else may mutate it concurrently.
type Pipeline struct {
	logger logging.Logger
	cfg    sandpath.Config

	env      sandpath.Environment
	solver   sandpath.Solver
	executor sandpath.Executor
}

// NewPipeline assembles a pipeline from its collaborators.
func NewPipeline(
	logger logging.Logger,
	cfg sandpath.Config,
	env sandpath.Environment,
	solver sandpath.Solver,
	executor sandpath.Executor,
) *Pipeline {
	return &Pipeline{
		logger:   logger,
		cfg:      cfg,
		env:      env,
		solver:   solver,
		executor: executor,
	}
}
