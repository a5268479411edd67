// Command sandpath-cli inspects the coverage pattern offline: it
// generates the cylinder path for a given parameter set, prints the
// waypoint poses as JSON, and can dry-run the problem formulation
// against a synthetic work cell without any robot connection.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/smith-doug/sandpass/sandpath"

	"go.viam.com/rdk/logging"
)

func main() {
	radius := flag.Float64("radius", 0.2, "cylinder radius in meters")
	slices := flag.Int("slices", 5, "number of height slices")
	sliceHeight := flag.Float64("slice-height", 0.1, "height increment between slices in meters")
	angleStep := flag.Float64("angle-step", math.Pi/12, "angular increment in radians")
	formulate := flag.Bool("formulate", false, "also formulate the optimization problem against a synthetic work cell")
	out := flag.String("out", "", "write the pose snapshot JSON to this file instead of stdout")
	flag.Parse()

	logger := logging.NewLogger("sandpath-cli")

	cfg := sandpath.DefaultConfig()
	cfg.Path.Radius = *radius
	cfg.Path.Slices = *slices
	cfg.Path.SliceHeight = *sliceHeight
	cfg.Path.AngleStep = *angleStep

	path := sandpath.GeneratePath(cfg.Path)
	logger.Infof("Generated %d waypoints (%d slices)", len(path), cfg.Path.Slices)

	snap, err := sandpath.PathSnapshot(path, cfg.Scene.ParentFrame)
	if err != nil {
		logger.Fatal(err)
	}
	b, err := sandpath.MarshalPathSnapshot(snap)
	if err != nil {
		logger.Fatal(err)
	}
	if *out != "" {
		if err := os.WriteFile(*out, b, 0o644); err != nil {
			logger.Fatal(err)
		}
		logger.Infof("Wrote %d poses to %s", len(snap), *out)
	} else {
		fmt.Println(string(b))
	}

	if !*formulate {
		return
	}

	ctx := context.Background()
	env := newSyntheticEnv(cfg.Problem.Manipulator, 6)
	if err := sandpath.BuildScene(env, cfg.Scene); err != nil {
		logger.Fatal(err)
	}
	spec, err := sandpath.FormulateProblem(ctx, env, path, cfg.Problem)
	if err != nil {
		logger.Fatal(err)
	}
	logger.Infof("Formulated problem: %d steps, %d cost terms, %d constraint terms",
		spec.Steps, len(spec.Costs), len(spec.Constraints))
	for _, term := range spec.Costs {
		logger.Infof("  cost: %s", term.Kind())
	}
	rows, cols := spec.InitialGuess.Dims()
	logger.Infof("Seed trajectory: %d x %d, stationary at the synthetic home pose", rows, cols)
}

// syntheticEnv is a fixed-home-pose work cell for offline formulation.
type syntheticEnv struct {
	manipulator string
	joints      []float64
	objects     map[string]*sandpath.AttachableObject
	attached    []sandpath.AttachedBody
}

type syntheticManipulator struct {
	name string
	dof  int
}

func (m *syntheticManipulator) BaseLinkName() string { return "world" }
func (m *syntheticManipulator) NumJoints() int       { return m.dof }
func (m *syntheticManipulator) JointNames() []string {
	names := make([]string, m.dof)
	for i := range names {
		names[i] = fmt.Sprintf("%s_joint_%d", m.name, i)
	}
	return names
}

func newSyntheticEnv(manipulator string, dof int) *syntheticEnv {
	return &syntheticEnv{
		manipulator: manipulator,
		joints:      make([]float64, dof),
		objects:     map[string]*sandpath.AttachableObject{},
	}
}

func (e *syntheticEnv) AddAttachableObject(obj *sandpath.AttachableObject) error {
	if _, ok := e.objects[obj.Name]; ok {
		return fmt.Errorf("object %q already registered", obj.Name)
	}
	e.objects[obj.Name] = obj
	return nil
}

func (e *syntheticEnv) AttachBody(body sandpath.AttachedBody) error {
	if _, ok := e.objects[body.ObjectName]; !ok {
		return fmt.Errorf("unknown object %q", body.ObjectName)
	}
	e.attached = append(e.attached, body)
	return nil
}

func (e *syntheticEnv) AddManipulator(context.Context, string, string, string) bool { return true }

func (e *syntheticEnv) Manipulator(name string) (sandpath.Manipulator, error) {
	if name != e.manipulator {
		return nil, fmt.Errorf("no manipulator %q", name)
	}
	return &syntheticManipulator{name: name, dof: len(e.joints)}, nil
}

func (e *syntheticEnv) CurrentJointValues(_ context.Context, manipulator string) ([]float64, error) {
	if manipulator != e.manipulator {
		return nil, fmt.Errorf("no manipulator %q", manipulator)
	}
	return e.joints, nil
}

func (e *syntheticEnv) JointNames() []string {
	return (&syntheticManipulator{name: e.manipulator, dof: len(e.joints)}).JointNames()
}

func (e *syntheticEnv) SetState(names []string, values []float64) error {
	if len(names) != len(values) {
		return fmt.Errorf("%d names for %d values", len(names), len(values))
	}
	return nil
}
