package sandpath

import "errors"

var (
	// ErrUnknownManipulator is returned when the named manipulator has not
	// been registered with the environment.
	ErrUnknownManipulator = errors.New("manipulator not registered with environment")

	// ErrJointState is returned when the manipulator's current joint state
	// cannot be read or has the wrong dimensionality.
	ErrJointState = errors.New("current joint state unavailable")

	// ErrAttachmentRejected is returned when the environment refuses a
	// scene object registration or attachment.
	ErrAttachmentRejected = errors.New("environment rejected scene attachment")

	// ErrExecutionFailed is returned when the remote actuation service
	// rejects a trajectory or times out.
	ErrExecutionFailed = errors.New("trajectory execution failed")

	// ErrEmptyPath is returned when a problem is formulated over a path
	// with no waypoints.
	ErrEmptyPath = errors.New("path has no waypoints")
)
