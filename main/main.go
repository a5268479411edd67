package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/smith-doug/sandpass"
	"github.com/smith-doug/sandpass/internal/creds"
	"github.com/smith-doug/sandpass/sandpath"

	"go.viam.com/rdk/components/arm"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/robot/client"
	"go.viam.com/utils/rpc"
)

func main() {
	credsPath := flag.String("creds", "", "path to robot credentials JSON file")
	dryRun := flag.Bool("dry-run", false, "plan the pass but log the trajectory instead of executing it")
	zeroStart := flag.Bool("zero-start", false, "zero the joint state before formulation")
	flag.Parse()

	logger := logging.NewDebugLogger("sandpass")

	if *credsPath == "" {
		logger.Fatal("-creds flag is required")
	}
	robotCreds, err := creds.Load(*credsPath)
	if err != nil {
		logger.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	machine, err := client.New(
		ctx,
		robotCreds.Address,
		logger,
		client.WithDialOptions(rpc.WithEntityCredentials(
			robotCreds.EntityID,
			rpc.Credentials{
				Type:    rpc.CredentialsTypeAPIKey,
				Payload: robotCreds.APIKey,
			})),
	)
	if err != nil {
		logger.Fatal(err)
	}
	defer machine.Close(context.Background())

	logger.Info("Connected to robot")
	logger.Info("Resources:", machine.ResourceNames())

	cfg := sandpath.DefaultConfig()
	cfg.ZeroStartState = *zeroStart

	env := sandpass.NewWorkcellEnv(machine, logger)
	if !env.AddManipulator(ctx, cfg.Scene.ParentFrame, cfg.Problem.ToolLink, cfg.Problem.Manipulator) {
		logger.Fatalf("manipulator %q unavailable", cfg.Problem.Manipulator)
	}

	model, err := env.Model(cfg.Problem.Manipulator)
	if err != nil {
		logger.Fatal(err)
	}
	solver, err := sandpass.NewNloptSolver(model, logger, nil)
	if err != nil {
		logger.Fatal(err)
	}

	var executor sandpath.Executor
	if *dryRun {
		executor = sandpass.NewLogExecutor(logger)
	} else {
		a, err := arm.FromProvider(machine, cfg.Problem.Manipulator)
		if err != nil {
			logger.Fatal(err)
		}
		executor = sandpass.NewArmExecutor(a, logger)
	}

	p := sandpass.NewPipeline(logger, cfg, env, solver, executor)
	if err := sandpass.Run(ctx, p); err != nil {
		logger.Fatal(err)
	}
	logger.Info("Finishing pass complete")
}
