package sandpath

import (
	"context"
	"errors"
	"fmt"
)

// fakeManipulator implements Manipulator for tests.
type fakeManipulator struct {
	base   string
	joints []string
}

func (m *fakeManipulator) BaseLinkName() string { return m.base }
func (m *fakeManipulator) JointNames() []string { return m.joints }
func (m *fakeManipulator) NumJoints() int       { return len(m.joints) }

// fakeEnv implements Environment for tests, recording registrations and
// serving canned joint state.
type fakeEnv struct {
	objects  map[string]*AttachableObject
	attached []AttachedBody
	manips   map[string]*fakeManipulator
	joints   map[string][]float64
	jointErr error

	rejectObjects bool
	rejectAttach  bool

	stateNames  []string
	stateValues []float64
}

func newFakeEnv() *fakeEnv {
	return &fakeEnv{
		objects: map[string]*AttachableObject{},
		manips:  map[string]*fakeManipulator{},
		joints:  map[string][]float64{},
	}
}

// withManipulator registers a canned manipulator and its joint state.
func (e *fakeEnv) withManipulator(name string, joints []float64) *fakeEnv {
	names := make([]string, len(joints))
	for i := range names {
		names[i] = fmt.Sprintf("%s_joint_%d", name, i)
	}
	e.manips[name] = &fakeManipulator{base: "world", joints: names}
	e.joints[name] = joints
	return e
}

func (e *fakeEnv) AddAttachableObject(obj *AttachableObject) error {
	if e.rejectObjects {
		return errors.New("object database rejected name")
	}
	if _, ok := e.objects[obj.Name]; ok {
		return fmt.Errorf("duplicate object %q", obj.Name)
	}
	e.objects[obj.Name] = obj
	return nil
}

func (e *fakeEnv) AttachBody(body AttachedBody) error {
	if e.rejectAttach {
		return fmt.Errorf("unknown parent frame %q", body.ParentLink)
	}
	if _, ok := e.objects[body.ObjectName]; !ok {
		return fmt.Errorf("unknown object %q", body.ObjectName)
	}
	e.attached = append(e.attached, body)
	return nil
}

func (e *fakeEnv) AddManipulator(_ context.Context, baseLink, _, name string) bool {
	if _, ok := e.manips[name]; ok {
		return false
	}
	e.manips[name] = &fakeManipulator{base: baseLink}
	return true
}

func (e *fakeEnv) Manipulator(name string) (Manipulator, error) {
	m, ok := e.manips[name]
	if !ok {
		return nil, fmt.Errorf("no manipulator %q", name)
	}
	return m, nil
}

func (e *fakeEnv) CurrentJointValues(_ context.Context, manipulator string) ([]float64, error) {
	if e.jointErr != nil {
		return nil, e.jointErr
	}
	values, ok := e.joints[manipulator]
	if !ok {
		return nil, fmt.Errorf("no joint state for %q", manipulator)
	}
	return values, nil
}

func (e *fakeEnv) JointNames() []string {
	var names []string
	for _, m := range e.manips {
		names = append(names, m.joints...)
	}
	return names
}

func (e *fakeEnv) SetState(names []string, values []float64) error {
	if len(names) != len(values) {
		return errors.New("name/value length mismatch")
	}
	e.stateNames = names
	e.stateValues = values
	return nil
}
