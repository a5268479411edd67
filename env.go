package sandpass

import (
	"context"
	"fmt"

	"go.viam.com/rdk/components/arm"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/referenceframe"
	"go.viam.com/rdk/robot"
	"go.viam.com/rdk/spatialmath"

	"github.com/smith-doug/sandpass/sandpath"
)

// WorkcellEnv adapts a live machine to the sandpath.Environment contract.
// Scene registrations accumulate into a world state the motion stack can
// consume; manipulators are backed by arm components and their reported
// kinematics. The env is not safe for concurrent use, matching the
// pipeline's exclusive-ownership model.
type WorkcellEnv struct {
	logger  logging.Logger
	machine robot.Robot

	objects  map[string]*sandpath.AttachableObject
	attached []*referenceframe.GeometriesInFrame
	manips   map[string]*armManipulator

	// stateOverride, when set for a joint name, shadows the hardware
	// reading. Used for zeroed or simulated start states.
	stateOverride map[string]float64
}

// armManipulator is a kinematic chain backed by one arm component.
type armManipulator struct {
	name     string
	baseLink string
	tipLink  string
	arm      arm.Arm
	model    referenceframe.Model
}

func (m *armManipulator) BaseLinkName() string { return m.baseLink }

func (m *armManipulator) NumJoints() int { return len(m.model.DoF()) }

// JointNames synthesizes stable per-chain joint names; the wire protocol
// addresses an arm's joints by index.
func (m *armManipulator) JointNames() []string {
	names := make([]string, m.NumJoints())
	for i := range names {
		names[i] = fmt.Sprintf("%s_joint_%d", m.name, i)
	}
	return names
}

// NewWorkcellEnv creates an environment over the given machine.
func NewWorkcellEnv(machine robot.Robot, logger logging.Logger) *WorkcellEnv {
	return &WorkcellEnv{
		logger:        logger,
		machine:       machine,
		objects:       map[string]*sandpath.AttachableObject{},
		manips:        map[string]*armManipulator{},
		stateOverride: map[string]float64{},
	}
}

// AddAttachableObject registers a rigid body in the object database.
// Registration alone does not include the body in collision checks.
func (e *WorkcellEnv) AddAttachableObject(obj *sandpath.AttachableObject) error {
	if obj == nil || obj.Name == "" {
		return fmt.Errorf("attachable object needs a name")
	}
	if obj.Geometry == nil {
		return fmt.Errorf("object %q has no collision geometry", obj.Name)
	}
	if _, ok := e.objects[obj.Name]; ok {
		return fmt.Errorf("object %q already registered", obj.Name)
	}
	e.objects[obj.Name] = obj
	return nil
}

// AttachBody rigidly connects a registered object to a parent link,
// adding its posed geometry to the collision world.
func (e *WorkcellEnv) AttachBody(body sandpath.AttachedBody) error {
	obj, ok := e.objects[body.ObjectName]
	if !ok {
		return fmt.Errorf("unknown object %q", body.ObjectName)
	}
	if !e.knownFrame(body.ParentLink) {
		return fmt.Errorf("unknown parent frame %q", body.ParentLink)
	}
	transform := body.Transform
	if transform == nil {
		transform = spatialmath.NewZeroPose()
	}
	posed := obj.Geometry.Transform(transform)
	e.attached = append(e.attached, referenceframe.NewGeometriesInFrame(
		body.ParentLink, []spatialmath.Geometry{posed}))
	return nil
}

func (e *WorkcellEnv) knownFrame(name string) bool {
	if name == referenceframe.World {
		return true
	}
	for _, m := range e.manips {
		if m.baseLink == name || m.tipLink == name {
			return true
		}
	}
	return false
}

// AddManipulator binds the named arm component and its kinematics model
// as a chain from baseLink to tipLink. Returns false when the component
// is missing or reports no kinematics.
func (e *WorkcellEnv) AddManipulator(ctx context.Context, baseLink, tipLink, name string) bool {
	if _, ok := e.manips[name]; ok {
		e.logger.Warnf("Manipulator %q already registered", name)
		return false
	}
	a, err := arm.FromProvider(e.machine, name)
	if err != nil {
		e.logger.Warnf("No arm component %q: %v", name, err)
		return false
	}
	model, err := a.Kinematics(ctx)
	if err != nil || model == nil {
		e.logger.Warnf("Arm %q has no kinematics model: %v", name, err)
		return false
	}
	e.manips[name] = &armManipulator{
		name:     name,
		baseLink: baseLink,
		tipLink:  tipLink,
		arm:      a,
		model:    model,
	}
	return true
}

// Manipulator returns the handle for a registered chain.
func (e *WorkcellEnv) Manipulator(name string) (sandpath.Manipulator, error) {
	m, ok := e.manips[name]
	if !ok {
		return nil, fmt.Errorf("no manipulator %q", name)
	}
	return m, nil
}

// Model returns the kinematics model backing a registered manipulator,
// for use by solvers that need forward kinematics.
func (e *WorkcellEnv) Model(name string) (referenceframe.Model, error) {
	m, ok := e.manips[name]
	if !ok {
		return nil, fmt.Errorf("no manipulator %q", name)
	}
	return m.model, nil
}

// CurrentJointValues reads the manipulator's joint vector, honoring any
// SetState overrides before falling back to hardware.
func (e *WorkcellEnv) CurrentJointValues(ctx context.Context, manipulator string) ([]float64, error) {
	m, ok := e.manips[manipulator]
	if !ok {
		return nil, fmt.Errorf("no manipulator %q", manipulator)
	}

	names := m.JointNames()
	if len(e.stateOverride) > 0 {
		values := make([]float64, len(names))
		overridden := true
		for i, name := range names {
			v, ok := e.stateOverride[name]
			if !ok {
				overridden = false
				break
			}
			values[i] = v
		}
		if overridden {
			return values, nil
		}
	}

	inputs, err := m.arm.JointPositions(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("read joints of %q: %w", manipulator, err)
	}
	return inputs, nil
}

// JointNames lists the joints of every registered manipulator.
func (e *WorkcellEnv) JointNames() []string {
	var names []string
	for _, m := range e.manips {
		names = append(names, m.JointNames()...)
	}
	return names
}

// SetState records joint-value overrides by name. Overrides shadow
// hardware readings until cleared.
func (e *WorkcellEnv) SetState(names []string, values []float64) error {
	if len(names) != len(values) {
		return fmt.Errorf("%d names for %d values", len(names), len(values))
	}
	for i, name := range names {
		e.stateOverride[name] = values[i]
	}
	return nil
}

// SceneSnapshot reports the registered collision world.
func (e *WorkcellEnv) SceneSnapshot() []*referenceframe.GeometriesInFrame {
	return e.attached
}

// WorldState packages the registered collision world for the motion
// stack.
func (e *WorkcellEnv) WorldState() (*referenceframe.WorldState, error) {
	return referenceframe.NewWorldState(e.attached, nil)
}
